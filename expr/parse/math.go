package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/calc/expr/ast"
)

type (
	// LeftToRight folds Arg (Op Arg)* into a left-leaning tree: a-b-c is (a-b)-c.
	LeftToRight struct {
		Op  Parser
		Arg Parser
	}

	// RightToLeft matches Arg (Op Self)? where Self is the rule itself,
	// so a-b-c is a-(b-c).
	RightToLeft struct {
		Op   Parser
		Arg  Parser
		Self Parser
	}
)

func (p LeftToRight) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Arg.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "first arg")
	}

	for i < len(b) {
		opst := i

		var op ast.Node
		op, i, err = p.Op.Parse(ctx, b, i)
		if i == opst && !Fatal(err) {
			err = nil
			break
		}
		if err != nil {
			return nil, i, errors.Wrap(err, "op")
		}

		var r ast.Node
		r, i, err = p.Arg.Parse(ctx, b, i)
		if err != nil && !Fatal(err) {
			i = opst
			err = nil
			break
		}
		if err != nil {
			return nil, i, errors.Wrap(err, "arg")
		}

		x, err = binOp(op, x, r)
		if err != nil {
			return nil, i, err
		}
	}

	return
}

func (p RightToLeft) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Arg.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "first arg")
	}

	tail := Optional{AllOf{p.Op, p.Self}}

	t, i, err := tail.Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "tail")
	}

	xt, ok := t.([]ast.Node)
	if !ok {
		return x, i, nil
	}

	x, err = binOp(xt[0], x, xt[1])
	if err != nil {
		return nil, i, err
	}

	return x, i, nil
}

func binOp(op, l, r ast.Node) (ast.Node, error) {
	k, ok := op.(ast.OpKind)
	if !ok {
		return nil, errors.New("operator expected, got %T", op)
	}

	le, ok := l.(ast.Expr)
	if !ok {
		return nil, errors.New("left: expression expected, got %T", l)
	}

	re, ok := r.(ast.Expr)
	if !ok {
		return nil, errors.New("right: expression expected, got %T", r)
	}

	return ast.BinOp{
		Base: ast.Base{
			Pos: le.Span().Pos,
			End: re.Span().End,
		},
		Op:    k,
		Left:  le,
		Right: re,
	}, nil
}
