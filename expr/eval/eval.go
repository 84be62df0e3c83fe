package eval

import (
	"context"
	"fmt"
	"math"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/calc/expr/ast"
)

type (
	Evaluator struct {
		// MaxDepth limits tree depth. Zero means DefaultMaxDepth, negative means no limit.
		MaxDepth int
	}

	// ArithmeticError is a fault of a single operation.
	// Err is ErrDivByZero or ErrOverflow.
	ArithmeticError struct {
		Op    ast.OpKind
		Left  int32
		Right int32
		Pos   int
		Err   error
	}

	UnsupportedNodeError struct {
		T ast.Node
	}
)

const DefaultMaxDepth = 10000

var (
	ErrDivByZero = errors.New("division by zero")
	ErrOverflow  = errors.New("integer overflow")
	ErrTooDeep   = errors.New("expression tree too deep")
)

func Eval(ctx context.Context, x ast.Expr) (int32, error) {
	var e Evaluator

	return e.Eval(ctx, x)
}

func (e *Evaluator) Eval(ctx context.Context, x ast.Expr) (v int32, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "eval")
	defer tr.Finish("err", &err)

	lim := e.MaxDepth
	if lim == 0 {
		lim = DefaultMaxDepth
	}

	return eval(ctx, x, lim)
}

func eval(ctx context.Context, x ast.Expr, depth int) (int32, error) {
	if x == nil {
		return 0, errors.New("nil expression")
	}

	if depth == 0 {
		return 0, errors.Wrap(ErrTooDeep, "at pos %d", x.Span().Pos)
	}

	switch x := x.(type) {
	case ast.Int:
		return x.Value, nil
	case ast.BinOp:
		r, err := eval(ctx, x.Right, depth-1)
		if err != nil {
			return 0, err
		}

		l, err := eval(ctx, x.Left, depth-1)
		if err != nil {
			return 0, err
		}

		v, err := Apply(x.Op, l, r)
		if err != nil {
			return 0, withPos(err, x.Pos)
		}

		if lg := tlog.V("eval_trace"); lg != nil {
			lg.Printw("binop", "op", x.Op, "l", l, "r", r, "val", v, "pos", x.Pos)
		}

		return v, nil
	default:
		return 0, UnsupportedNodeError{T: x}
	}
}

// Apply computes l op r in 32-bit signed arithmetic.
// Division truncates toward zero. Results out of int32 range are errors.
func Apply(op ast.OpKind, l, r int32) (int32, error) {
	a, b := int64(l), int64(r)

	var v int64

	switch op {
	case ast.Add:
		v = a + b
	case ast.Sub:
		v = a - b
	case ast.Mul:
		v = a * b
	case ast.Div:
		if b == 0 {
			return 0, &ArithmeticError{Op: op, Left: l, Right: r, Err: ErrDivByZero}
		}

		v = a / b
	default:
		return 0, errors.New("unsupported operator: %v", op)
	}

	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, &ArithmeticError{Op: op, Left: l, Right: r, Err: ErrOverflow}
	}

	return int32(v), nil
}

// withPos sets the source position of an ArithmeticError anywhere in the err chain.
func withPos(err error, pos int) error {
	var ae *ArithmeticError
	if errors.As(err, &ae) {
		ae.Pos = pos
	}

	return err
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%v: %d %v %d at %d", e.Err, e.Left, e.Op, e.Right, e.Pos)
}

func (e *ArithmeticError) Unwrap() error { return e.Err }

func (e UnsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported node: %T", e.T)
}
