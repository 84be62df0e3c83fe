package parse

import (
	"bytes"
	"context"
	"fmt"

	"github.com/slowlang/calc/expr/ast"
)

type (
	Const []byte

	// Op matches a single operator character from the set.
	Op []byte
)

var (
	AddSub = Op("+-")
	MulDiv = Op("*/")
)

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, newError(nil, b, st, p)
}

func (p Const) String() string {
	return fmt.Sprintf("%q", []byte(p))
}

func (p Op) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st < len(b) && bytes.IndexByte(p, b[st]) >= 0 {
		op, ok := ast.OpKindOf(b[st])
		if ok {
			return op, st + 1, nil
		}
	}

	return nil, st, newError(nil, b, st, p)
}

func (p Op) String() string {
	l := make([]Parser, len(p))

	for i := range p {
		l[i] = Const(p[i : i+1])
	}

	return joinHuman(l...)
}
