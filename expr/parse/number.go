package parse

import (
	"context"
	"strconv"

	"github.com/slowlang/calc/expr/ast"
)

type (
	// Int is a run of decimal digits. No sign, no base prefix.
	Int struct{}
)

func (p Int) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	if i == st {
		return nil, st, newError(nil, b, st, p)
	}

	v, err := strconv.ParseInt(string(b[st:i]), 10, 32)
	if err != nil {
		return nil, i, newError(ErrIntRange, b, st, nil)
	}

	return ast.Int{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Value: int32(v),
	}, i, nil
}

func (Int) String() string { return "integer" }
