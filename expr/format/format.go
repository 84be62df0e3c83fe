package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/calc/expr/ast"
)

// Format appends x as fully parenthesized infix text.
// Parsing the result gives a tree of the same shape for any associativity.
func Format(ctx context.Context, b []byte, x ast.Node) ([]byte, error) {
	return formatExpr(ctx, b, x)
}

// Tree appends x as an indented tree, one node per line.
func Tree(ctx context.Context, b []byte, x ast.Node) ([]byte, error) {
	return formatTree(ctx, b, x, 0)
}

func formatExpr(ctx context.Context, b []byte, x ast.Node) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Int:
		b = hfmt.Appendf(b, "%d", x.Value)
	case ast.BinOp:
		b = append(b, '(')

		b, err = formatExpr(ctx, b, x.Left)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = append(b, x.Op.String()...)

		b, err = formatExpr(ctx, b, x.Right)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}

		b = append(b, ')')
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

func formatTree(ctx context.Context, b []byte, x ast.Node, d int) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Int:
		b = app(b, d, "Int %d\t[%d:%d]\n", x.Value, x.Pos, x.End)
	case ast.BinOp:
		b = app(b, d, "BinOp %v\t[%d:%d]\n", x.Op, x.Pos, x.End)

		b, err = formatTree(ctx, b, x.Left, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b, err = formatTree(ctx, b, x.Right, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	for d > 0 {
		b = append(b, "  "...)
		d--
	}

	b = hfmt.Appendf(b, f, args...)

	return b
}
