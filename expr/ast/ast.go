package ast

import (
	"tlog.app/go/tlog/tlwire"
)

type (
	// Node is anything a parser rule may return.
	// Complete expressions are Expr, operators and tokens are not.
	Node interface {
	}

	// Expr is Int or BinOp. The set is closed.
	Expr interface {
		Node

		Span() Base

		expr()
	}

	// Base is a byte range [Pos, End) in the source text.
	Base struct {
		Pos int
		End int
	}

	// Int is a decimal integer literal. It's never negative.
	Int struct {
		Base `tlog:",embed"`

		Value int32
	}

	BinOp struct {
		Base `tlog:",embed"`

		Op OpKind

		Left  Expr
		Right Expr
	}

	OpKind byte
)

const (
	Add OpKind = iota + 1
	Sub
	Mul
	Div
)

func OpKindOf(c byte) (OpKind, bool) {
	switch c {
	case '+':
		return Add, true
	case '-':
		return Sub, true
	case '*':
		return Mul, true
	case '/':
		return Div, true
	}

	return 0, false
}

func (op OpKind) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

func (b Base) Span() Base { return b }

// WithSpan returns a copy of x covering b.
func WithSpan(x Expr, b Base) Expr {
	switch x := x.(type) {
	case Int:
		x.Base = b
		return x
	case BinOp:
		x.Base = b
		return x
	}

	return x
}

func (Int) expr()   {}
func (BinOp) expr() {}

// Depth is the number of nodes on the longest root to leaf path.
func Depth(x Expr) int {
	switch x := x.(type) {
	case BinOp:
		return 1 + max(Depth(x.Left), Depth(x.Right))
	default:
		return 1
	}
}

func (x Int) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)

	b = e.AppendKeyInt(b, "pos", x.Pos)
	b = e.AppendKeyInt(b, "end", x.End)
	b = e.AppendKeyInt(b, "val", int(x.Value))

	return b
}

func (x BinOp) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 5)

	b = e.AppendKeyInt(b, "pos", x.Pos)
	b = e.AppendKeyInt(b, "end", x.End)

	b = e.AppendString(b, "op")
	b = e.AppendString(b, x.Op.String())

	b = e.AppendString(b, "l")
	b = appendExpr(b, x.Left)

	b = e.AppendString(b, "r")
	b = appendExpr(b, x.Right)

	return b
}

func appendExpr(b []byte, x Expr) []byte {
	switch x := x.(type) {
	case Int:
		return x.TlogAppend(b)
	case BinOp:
		return x.TlogAppend(b)
	}

	var e tlwire.Encoder

	return e.AppendNil(b)
}
