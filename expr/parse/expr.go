package parse

import (
	"context"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/calc/expr/ast"
)

type (
	// Expr is
	//	expr := term (('+' | '-') expr)?
	// or the left folding equivalent, depending on State.Assoc.
	Expr struct{}

	// Term is
	//	term := factor (('*' | '/') term)?
	Term struct{}

	// Factor is
	//	factor := constant | '(' expr ')'
	Factor struct{}

	// Paren is '(' expr ')'. The node span covers the parentheses.
	Paren struct{}
)

func (p Expr) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	s := StateFromContext(ctx)

	defer s.leave()
	if err = s.enter(b, st); err != nil {
		return nil, st, err
	}

	trace(s, "expr", st)

	return chain(s, AddSub, Term{}, p).Parse(ctx, b, st)
}

func (p Term) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	s := StateFromContext(ctx)

	defer s.leave()
	if err = s.enter(b, st); err != nil {
		return nil, st, err
	}

	trace(s, "term", st)

	return chain(s, MulDiv, Factor{}, p).Parse(ctx, b, st)
}

func (p Factor) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := AnyOf{
		Int{},
		Paren{},
	}

	return r.Parse(ctx, b, st)
}

func (p Paren) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	s := StateFromContext(ctx)

	defer s.leave()
	if err = s.enter(b, st); err != nil {
		return nil, st, err
	}

	trace(s, "paren", st)

	r := Context{
		Pre:     Const("("),
		Of:      Expr{},
		Post:    Const(")"),
		Missing: ErrUnclosedParen,
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	if e, ok := x.(ast.Expr); ok {
		x = ast.WithSpan(e, ast.Base{Pos: st, End: i})
	}

	return x, i, nil
}

func (Expr) String() string   { return "expression" }
func (Term) String() string   { return "term" }
func (Factor) String() string { return "factor" }
func (Paren) String() string  { return `"("` }

func chain(s *State, op, arg, self Parser) Parser {
	if s.assoc() == LeftAssoc {
		return LeftToRight{Op: op, Arg: arg}
	}

	return RightToLeft{Op: op, Arg: arg, Self: self}
}

func trace(s *State, rule string, st int) {
	if l := tlog.V("parse_trace"); l != nil {
		var d int
		if s != nil {
			d = s.depth
		}

		l.Printw(rule, "st", st, "depth", d, "from", loc.Caller(2))
	}
}
