package eval

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/slowlang/calc/expr/ast"
)

func num(v int32) ast.Int {
	return ast.Int{Value: v}
}

func bin(op ast.OpKind, l, r ast.Expr) ast.BinOp {
	return ast.BinOp{Op: op, Left: l, Right: r}
}

func TestConstant(t *testing.T) {
	v, err := Eval(context.Background(), num(55))
	require.NoError(t, err)
	assert.Equal(t, int32(55), v)
}

func TestBinOp(t *testing.T) {
	// 13*(5+1)
	x := bin(ast.Mul, num(13), bin(ast.Add, num(5), num(1)))

	v, err := Eval(context.Background(), x)
	require.NoError(t, err)
	assert.Equal(t, int32(78), v)
}

func TestApply(t *testing.T) {
	for _, tc := range []struct {
		op   ast.OpKind
		l, r int32
		want int32
		err  error
	}{
		{op: ast.Add, l: 2, r: 3, want: 5},
		{op: ast.Sub, l: 2, r: 3, want: -1},
		{op: ast.Mul, l: -4, r: 3, want: -12},
		{op: ast.Div, l: 7, r: 2, want: 3},
		{op: ast.Div, l: -7, r: 2, want: -3},
		{op: ast.Div, l: 7, r: -2, want: -3},
		{op: ast.Div, l: 1, r: 0, err: ErrDivByZero},
		{op: ast.Div, l: 0, r: 0, err: ErrDivByZero},
		{op: ast.Add, l: math.MaxInt32, r: 1, err: ErrOverflow},
		{op: ast.Sub, l: math.MinInt32, r: 1, err: ErrOverflow},
		{op: ast.Mul, l: 1 << 16, r: 1 << 16, err: ErrOverflow},
		{op: ast.Div, l: math.MinInt32, r: -1, err: ErrOverflow},
		{op: ast.Add, l: math.MaxInt32, r: math.MinInt32, want: -1},
	} {
		v, err := Apply(tc.op, tc.l, tc.r)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, "%d %v %d", tc.l, tc.op, tc.r)
			continue
		}

		require.NoError(t, err, "%d %v %d", tc.l, tc.op, tc.r)
		assert.Equal(t, tc.want, v, "%d %v %d", tc.l, tc.op, tc.r)
	}
}

func TestArithmeticError(t *testing.T) {
	x := bin(ast.Add, num(1), ast.BinOp{
		Base:  ast.Base{Pos: 2, End: 5},
		Op:    ast.Div,
		Left:  num(1),
		Right: num(0),
	})

	_, err := Eval(context.Background(), x)
	require.ErrorIs(t, err, ErrDivByZero)

	var ae *ArithmeticError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, ast.Div, ae.Op)
	assert.Equal(t, int32(1), ae.Left)
	assert.Equal(t, int32(0), ae.Right)
	assert.Equal(t, 2, ae.Pos)
	assert.Equal(t, "division by zero: 1 / 0 at 2", ae.Error())
}

func TestMaxDepth(t *testing.T) {
	var x ast.Expr = num(1)

	for i := 0; i < 50; i++ {
		x = bin(ast.Sub, x, num(1))
	}

	e := Evaluator{MaxDepth: 10}

	_, err := e.Eval(context.Background(), x)
	assert.ErrorIs(t, err, ErrTooDeep)

	e.MaxDepth = 51

	v, err := e.Eval(context.Background(), x)
	require.NoError(t, err)
	assert.Equal(t, int32(-49), v)

	e.MaxDepth = -1

	v, err = e.Eval(context.Background(), x)
	require.NoError(t, err)
	assert.Equal(t, int32(-49), v)

	assert.Equal(t, 51, ast.Depth(x))
}

func TestUnsupported(t *testing.T) {
	_, err := Eval(context.Background(), nil)
	assert.Error(t, err)
}

func TestWithPos(t *testing.T) {
	ae := &ArithmeticError{Op: ast.Div, Left: 1, Right: 0, Err: ErrDivByZero}

	err := withPos(errors.Wrap(ae, "apply"), 7)
	assert.ErrorIs(t, err, ErrDivByZero)
	assert.Equal(t, 7, ae.Pos)

	err = withPos(ErrOverflow, 3)
	assert.Equal(t, ErrOverflow, err)
}
