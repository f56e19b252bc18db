package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/uvmlab/uvc/compiler/ast"
	"github.com/uvmlab/uvc/compiler/ir"
)

func (s *State) Compile(ctx context.Context) (p *ir.Prog, err error) {
	tr := tlog.SpanFromContext(ctx)

	p = &ir.Prog{}

	for i, a := range s.assigns {
		err = s.compileAssign(ctx, p, a)
		if err != nil {
			return nil, errors.Wrap(err, "assignment %d", i)
		}
	}

	tr.Printw("compiled", "assignments", len(s.assigns), "instructions", len(p.Code), "addresses", s.addr.Len())

	return p, nil
}

func (s *State) compileAssign(ctx context.Context, p *ir.Prog, a ast.Assign) (err error) {
	var src, dst int64

	switch lhs := a.Lhs.(type) {
	case ast.Mem:
		// destination address is computed before the rhs
		dst, err = s.compileExpr(ctx, p, lhs.Addr)
		if err != nil {
			return errors.Wrap(err, "lhs")
		}

		src, err = s.compileExpr(ctx, p, a.Rhs)
		if err != nil {
			return errors.Wrap(err, "rhs")
		}
	case ast.Ref:
		// named cell takes its address after the rhs
		src, err = s.compileExpr(ctx, p, a.Rhs)
		if err != nil {
			return errors.Wrap(err, "rhs")
		}

		dst = s.addrOf(ctx, string(lhs))
	default:
		panic(a.Lhs)
	}

	s.emit(ctx, p, ir.Write{Src: src, Dst: dst})

	return nil
}

func (s *State) compileExpr(ctx context.Context, p *ir.Prog, e ast.Expr) (a int64, err error) {
	switch e := e.(type) {
	case ast.Num:
		a = s.addrOf(ctx, fmt.Sprintf("#const_%d", int64(e)))

		s.emit(ctx, p, ir.LoadConst{Val: int64(e), Dst: a})
	case ast.Ref:
		a = s.addrOf(ctx, string(e))
	case ast.Mem:
		src, err := s.compileExpr(ctx, p, e.Addr)
		if err != nil {
			return 0, errors.Wrap(err, "mem")
		}

		a = s.addrOf(ctx, fmt.Sprintf("#tmp_read_%d", src))

		s.emit(ctx, p, ir.Read{Src: src, Dst: a})
	case ast.Min:
		l, err := s.compileExpr(ctx, p, e.Left)
		if err != nil {
			return 0, errors.Wrap(err, "left")
		}

		r, err := s.compileExpr(ctx, p, e.Right)
		if err != nil {
			return 0, errors.Wrap(err, "right")
		}

		a = s.addrOf(ctx, fmt.Sprintf("#tmp_min_%d_%d", l, r))

		s.emit(ctx, p, ir.Min{Left: l, Right: r, Dst: a})
	default:
		panic(e)
	}

	return a, nil
}

func (s *State) addrOf(ctx context.Context, key string) (a int64) {
	a = s.addr.Get(key)

	tlog.SpanFromContext(ctx).V("alloc").Printw("address", "key", key, "addr", a)

	return a
}

func (s *State) emit(ctx context.Context, p *ir.Prog, x ir.Instr) {
	if tr := tlog.SpanFromContext(ctx); tr.If("emit") {
		tr.Printw("emit", "i", len(p.Code), "instr", x, "from", loc.Callers(1, 2))
	}

	p.Code = append(p.Code, x)
}
