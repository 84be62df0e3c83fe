package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/calc/expr/ast"
)

type (
	None struct{}

	// Optional matches its Parser or nothing.
	// Recoverable errors are backtracked to the starting position.
	Optional struct {
		Parser
	}

	// Context matches Pre, Of, Post in sequence and returns the Of node.
	// If Post fails and Missing is set, the error is reported as Missing.
	Context struct {
		Pre  Parser
		Of   Parser
		Post Parser

		Missing error
	}

	AllOf []Parser

	AnyOf []Parser
)

func (None) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	return None{}, st, nil
}

func (p Optional) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Parser.Parse(ctx, b, st)
	if err != nil && !Fatal(err) {
		return None{}, st, nil
	}

	return
}

func (p Context) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if p.Pre != nil {
		_, i, err = p.Pre.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "pre")
		}
	}

	x, i, err = p.Of.Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "of")
	}

	if p.Post != nil {
		_, i, err = p.Post.Parse(ctx, b, i)
		if err != nil && p.Missing != nil && !Fatal(err) {
			err = newError(p.Missing, b, i, p.Post)
		}
		if err != nil {
			return nil, i, errors.Wrap(err, "post")
		}
	}

	return x, i, nil
}

func (p AllOf) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	res := make([]ast.Node, len(p))

	for j, r := range p {
		x, i, err = r.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "%v (%d)", r, j)
		}

		res[j] = x
	}

	return res, i, nil
}

// AnyOf returns the first match. An alternative that failed
// after making progress wins over the generic "expected" error.
func (p AnyOf) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	for _, r := range p {
		x, j, e := r.Parse(ctx, b, st)
		if e == nil {
			return x, j, nil
		}
		if j == st && !Fatal(e) {
			continue
		}
		if err == nil {
			i = j
			err = errors.Wrap(e, "%v", r)
		}
	}

	if err != nil {
		return
	}

	return nil, st, newError(nil, b, st, p)
}

func (p AnyOf) String() string {
	return joinHuman(p...)
}

func joinHuman(l ...Parser) string {
	switch len(l) {
	case 0:
		return "<none>"
	case 1:
		return fmt.Sprintf("%v", l[0])
	}

	var b strings.Builder

	for i, r := range l {
		if i+1 == len(l) {
			b.WriteString(" or ")
		} else if i != 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%v", r)
	}

	return b.String()
}
