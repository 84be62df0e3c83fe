package expr

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/slowlang/calc/expr/eval"
	"github.com/slowlang/calc/expr/parse"
)

func TestParseAndEval(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int32
	}{
		{"1+2+3+4+5", 15},
		{"1+2*3-7", 0},
		{"(2*24)/(5+3)", 6},
		{"4", 4},
		{"(3)", 3},
		{"007", 7},
		{"2*(3+4)*5", 70},
		{"((((9))))", 9},
		{"1-5", -4},
		{"7/2", 3},
		{"0-7/2", -3},
		{"2147483647", 2147483647},
		{"12\n", 12},
		{"1+", 1},
		{"3 + 4", 3},
		{"5abc", 5},
	} {
		v, err := ParseAndEval(context.Background(), tc.in)
		require.NoError(t, err, "%q", tc.in)
		assert.Equal(t, tc.want, v, "%q", tc.in)
	}
}

func TestAssociativity(t *testing.T) {
	ctx := context.Background()

	right := DefaultConfig
	left := DefaultConfig
	left.Assoc = parse.LeftAssoc

	for _, tc := range []struct {
		in          string
		right, left int32
	}{
		{"10-3-2", 9, 5},
		{"16/4/2", 8, 2},
		{"2-3+4", -5, 3},
		{"8/4*2", 1, 4},
		{"1+2+3", 6, 6},
		{"1+2*3-7", 0, 0},
	} {
		v, err := right.ParseAndEval(ctx, tc.in)
		require.NoError(t, err, "%q", tc.in)
		assert.Equal(t, tc.right, v, "right %q", tc.in)

		v, err = left.ParseAndEval(ctx, tc.in)
		require.NoError(t, err, "%q", tc.in)
		assert.Equal(t, tc.left, v, "left %q", tc.in)
	}

	v, err := ParseAndEval(ctx, "10-3-2")
	require.NoError(t, err)
	assert.Equal(t, int32(9), v, "default is right associative")
}

func TestDeterministic(t *testing.T) {
	for _, in := range []string{"1+2*3-7", "(2*24)/(5+3)", "100/7/3"} {
		a, err := ParseAndEval(context.Background(), in)
		require.NoError(t, err)

		b, err := ParseAndEval(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, a, b, "%q", in)
	}
}

func TestSyntaxErrors(t *testing.T) {
	for _, tc := range []struct {
		in   string
		kind error
	}{
		{"", parse.ErrUnexpectedEnd},
		{"+1", parse.ErrUnexpectedToken},
		{"(1", parse.ErrUnclosedParen},
		{"-1", parse.ErrUnexpectedToken},
		{"()", parse.ErrUnexpectedToken},
		{"4294967296", parse.ErrIntRange},
	} {
		v, err := ParseAndEval(context.Background(), tc.in)
		assert.ErrorIs(t, err, tc.kind, "%q", tc.in)
		assert.True(t, IsSyntax(err), "%q", tc.in)
		assert.False(t, IsArithmetic(err), "%q", tc.in)
		assert.Zero(t, v)
	}
}

func TestArithmeticErrors(t *testing.T) {
	for _, tc := range []struct {
		in   string
		kind error
	}{
		{"1/0", eval.ErrDivByZero},
		{"5/(3-3)", eval.ErrDivByZero},
		{"2147483647+1", eval.ErrOverflow},
		{"2147483647-(0-1)", eval.ErrOverflow},
		{"65536*65536", eval.ErrOverflow},
	} {
		v, err := ParseAndEval(context.Background(), tc.in)
		assert.ErrorIs(t, err, tc.kind, "%q", tc.in)
		assert.True(t, IsArithmetic(err), "%q", tc.in)
		assert.False(t, IsSyntax(err), "%q", tc.in)
		assert.Zero(t, v)
	}
}

func TestMaxDepth(t *testing.T) {
	ctx := context.Background()

	chain := strings.Repeat("1-", 20) + "1"

	c := Config{MaxDepth: 10}

	_, err := c.ParseAndEval(ctx, chain)
	assert.ErrorIs(t, err, parse.ErrTooDeep)

	c.Assoc = parse.LeftAssoc

	_, err = c.ParseAndEval(ctx, chain)
	assert.ErrorIs(t, err, eval.ErrTooDeep)

	c.MaxDepth = -1

	v, err := c.ParseAndEval(ctx, chain)
	require.NoError(t, err)
	assert.Equal(t, int32(-19), v)

	_, err = ParseAndEval(ctx, strings.Repeat("(", 5000)+"1"+strings.Repeat(")", 5000))
	assert.ErrorIs(t, err, parse.ErrTooDeep)
}

func TestStrict(t *testing.T) {
	c := DefaultConfig
	c.Strict = true

	v, err := c.ParseAndEval(context.Background(), "6*7\n")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	_, err = c.ParseAndEval(context.Background(), "6 * 7")
	assert.ErrorIs(t, err, parse.ErrTrailingInput)
}

func TestParseEnd(t *testing.T) {
	x, end, err := DefaultConfig.Parse(context.Background(), "1+2 rest")
	require.NoError(t, err)
	assert.Equal(t, 3, end)

	v, err := DefaultConfig.Eval(context.Background(), x)
	require.NoError(t, err)
	assert.Equal(t, int32(3), v)
}

func TestDefaultLimitsLeftChain(t *testing.T) {
	ctx := context.Background()

	c := DefaultConfig
	c.Assoc = parse.LeftAssoc

	v, err := c.ParseAndEval(ctx, strings.Repeat("1+", 1500)+"1")
	require.NoError(t, err)
	assert.Equal(t, int32(1501), v)

	_, err = ParseAndEval(ctx, strings.Repeat("1+", 1500)+"1")
	assert.ErrorIs(t, err, parse.ErrTooDeep)
}

func TestArithmeticErrorPos(t *testing.T) {
	_, err := ParseAndEval(context.Background(), "1+(4/0)")
	require.ErrorIs(t, err, eval.ErrDivByZero)

	var ae *eval.ArithmeticError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 2, ae.Pos)
}
