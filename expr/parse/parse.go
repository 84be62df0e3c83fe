package parse

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/calc/expr/ast"
)

type (
	// State holds parsing options and the per-call nesting counter.
	// It's copied on each Parse call, so one State may be shared.
	State struct {
		Grammar Parser

		Assoc Assoc

		// MaxDepth limits rule nesting. Zero means DefaultMaxDepth, negative means no limit.
		MaxDepth int

		// Strict rejects any unconsumed input except a trailing line break.
		Strict bool

		depth int
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	Assoc int

	// Error is a syntax error. Err is one of the Err* kinds.
	Error struct {
		Err  error
		Pos  int
		Rest string
		Want string
	}

	stateCtxKey struct{}
)

const (
	RightAssoc Assoc = iota
	LeftAssoc
)

const DefaultMaxDepth = 1000

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEnd   = errors.New("unexpected end of input")
	ErrUnclosedParen   = errors.New("unclosed parenthesis")
	ErrIntRange        = errors.New("integer out of range")
	ErrTooDeep         = errors.New("expression too deeply nested")
	ErrTrailingInput   = errors.New("trailing input")
)

// LineBreak may follow an expression in strict mode.
var LineBreak = NewSpaces('\r', '\n')

func Parse(ctx context.Context, text []byte) (x ast.Expr, end int, err error) {
	return New().Parse(ctx, text)
}

func New() *State {
	return &State{
		Grammar:  Expr{},
		MaxDepth: DefaultMaxDepth,
	}
}

// Parse matches the longest expression prefix of b.
// It returns the tree and the offset of the first unconsumed byte.
func (s0 *State) Parse(ctx context.Context, b []byte) (x ast.Expr, end int, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "size", len(b), "assoc", s0.Assoc)
	defer tr.Finish("err", &err)

	s := *s0
	s.depth = 0

	if s.Grammar == nil {
		s.Grammar = Expr{}
	}

	if s.MaxDepth == 0 {
		s.MaxDepth = DefaultMaxDepth
	}

	ctx = context.WithValue(ctx, stateCtxKey{}, &s)

	n, i, err := s.Grammar.Parse(ctx, b, 0)
	if err != nil {
		return nil, i, errors.Wrap(err, "parse as grammar")
	}

	x, ok := n.(ast.Expr)
	if !ok {
		return nil, 0, errors.New("expression expected, got %T", n)
	}

	if tr.If("dump_ast") {
		tr.Printw("ast", "end", i, "rest", b[i:], "ast", x)
	}

	if s.Strict && LineBreak.Skip(b, i) != len(b) {
		return x, i, newError(ErrTrailingInput, b, i, nil)
	}

	return x, i, nil
}

func StateFromContext(ctx context.Context) *State {
	s, _ := ctx.Value(stateCtxKey{}).(*State)
	return s
}

func (s *State) enter(b []byte, st int) error {
	if s == nil {
		return nil
	}

	s.depth++

	if s.MaxDepth > 0 && s.depth > s.MaxDepth {
		return newError(ErrTooDeep, b, st, nil)
	}

	return nil
}

func (s *State) leave() {
	if s == nil {
		return
	}

	s.depth--
}

func (s *State) assoc() Assoc {
	if s == nil {
		return RightAssoc
	}

	return s.Assoc
}

// Fatal errors are never backtracked by optional rules.
func Fatal(err error) bool {
	return errors.Is(err, ErrIntRange) || errors.Is(err, ErrTooDeep)
}

// newError builds an Error at b[i:]. A nil kind is inferred
// from whether the input ended.
func newError(kind error, b []byte, i int, want any) *Error {
	if kind == nil {
		kind = ErrUnexpectedToken

		if i == len(b) {
			kind = ErrUnexpectedEnd
		}
	}

	e := &Error{
		Err:  kind,
		Pos:  i,
		Rest: string(b[i:]),
	}

	if want != nil {
		e.Want = fmt.Sprintf("%v", want)
	}

	return e
}

func (e *Error) Error() string {
	switch {
	case e.Want == "":
		return fmt.Sprintf("%v at %d", e.Err, e.Pos)
	case e.Err == ErrUnexpectedEnd:
		return fmt.Sprintf("%v at %d: %s expected", e.Err, e.Pos, e.Want)
	default:
		return fmt.Sprintf("%v at %d: %s expected, got %q", e.Err, e.Pos, e.Want, head(e.Rest, 8))
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (a Assoc) String() string {
	switch a {
	case RightAssoc:
		return "right"
	case LeftAssoc:
		return "left"
	default:
		return fmt.Sprintf("Assoc(%d)", int(a))
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
