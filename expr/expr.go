package expr

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/calc/expr/ast"
	"github.com/slowlang/calc/expr/eval"
	"github.com/slowlang/calc/expr/parse"
)

type (
	Config struct {
		Assoc parse.Assoc

		// MaxDepth bounds both parser recursion and evaluated tree depth.
		// Zero means parse.DefaultMaxDepth and eval.DefaultMaxDepth respectively,
		// negative means no limit.
		MaxDepth int

		// Strict fails on unconsumed input other than a trailing line break.
		Strict bool
	}
)

var DefaultConfig = Config{
	Assoc: parse.RightAssoc,
}

// ParseAndEval evaluates the longest expression prefix of text
// using DefaultConfig. The unconsumed suffix is ignored.
func ParseAndEval(ctx context.Context, text string) (int32, error) {
	return DefaultConfig.ParseAndEval(ctx, text)
}

func (c Config) ParseAndEval(ctx context.Context, text string) (v int32, err error) {
	if tr := tlog.SpanFromContext(ctx); tr.If("calc") {
		tr.Printw("parse and eval", "text", text, "assoc", c.Assoc, "strict", c.Strict)
	}

	x, _, err := c.Parse(ctx, text)
	if err != nil {
		return 0, errors.Wrap(err, "parse")
	}

	v, err = c.Eval(ctx, x)
	if err != nil {
		return 0, errors.Wrap(err, "eval")
	}

	return v, nil
}

// Parse returns the tree and the offset of the first unconsumed byte of text.
func (c Config) Parse(ctx context.Context, text string) (x ast.Expr, end int, err error) {
	s := parse.State{
		Grammar:  parse.Expr{},
		Assoc:    c.Assoc,
		MaxDepth: c.MaxDepth,
		Strict:   c.Strict,
	}

	return s.Parse(ctx, []byte(text))
}

func (c Config) Eval(ctx context.Context, x ast.Expr) (int32, error) {
	e := eval.Evaluator{
		MaxDepth: c.MaxDepth,
	}

	return e.Eval(ctx, x)
}

// IsSyntax reports whether err came from the parser.
func IsSyntax(err error) bool {
	var e *parse.Error
	return errors.As(err, &e)
}

// IsArithmetic reports whether err is an evaluation fault such as division by zero.
func IsArithmetic(err error) bool {
	var e *eval.ArithmeticError
	return errors.As(err, &e)
}
