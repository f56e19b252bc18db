package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/uvmlab/uvc/compiler/ast"
	"github.com/uvmlab/uvc/compiler/ir"
)

// Format renders a program listing for *ir.Prog
// and canonical source text for parsed assignments and expressions.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *ir.Prog:
		return formatProg(ctx, b, x)
	case []ast.Assign:
		return formatAssigns(ctx, b, x)
	case ast.Assign:
		return formatAssign(ctx, b, x)
	default:
		return formatExpr(ctx, b, x)
	}
}

func formatProg(ctx context.Context, b []byte, p *ir.Prog) (_ []byte, err error) {
	for i, x := range p.Code {
		switch x := x.(type) {
		case ir.LoadConst:
			b = hfmt.Appendf(b, "%3d: %-11v B=%d, C=%d\n", i, ir.OpLoadConst, x.Val, x.Dst)
		case ir.Read:
			b = hfmt.Appendf(b, "%3d: %-11v B=%d, C=%d\n", i, ir.OpRead, x.Src, x.Dst)
		case ir.Write:
			b = hfmt.Appendf(b, "%3d: %-11v B=%d, C=%d\n", i, ir.OpWrite, x.Src, x.Dst)
		case ir.Min:
			b = hfmt.Appendf(b, "%3d: %-11v B=%d, C=%d, D=%d\n", i, ir.OpMin, x.Left, x.Right, x.Dst)
		default:
			return nil, errors.New("unsupported instruction: %T", x)
		}
	}

	return b, nil
}

func formatAssigns(ctx context.Context, b []byte, l []ast.Assign) (_ []byte, err error) {
	for _, a := range l {
		b, err = formatAssign(ctx, b, a)
		if err != nil {
			return nil, err
		}

		b = append(b, '\n')
	}

	return b, nil
}

func formatAssign(ctx context.Context, b []byte, a ast.Assign) (_ []byte, err error) {
	b, err = formatExpr(ctx, b, a.Lhs)
	if err != nil {
		return nil, errors.Wrap(err, "lhs")
	}

	b = append(b, " = "...)

	b, err = formatExpr(ctx, b, a.Rhs)
	if err != nil {
		return nil, errors.Wrap(err, "rhs")
	}

	return b, nil
}

func formatExpr(ctx context.Context, b []byte, x any) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Num:
		b = hfmt.Appendf(b, "%d", int64(x))
	case ast.Ref:
		b = append(b, string(x)...)
	case ast.Mem:
		b = append(b, "mem["...)

		b, err = formatExpr(ctx, b, x.Addr)
		if err != nil {
			return nil, err
		}

		b = append(b, ']')
	case ast.Min:
		b = append(b, "min("...)

		b, err = formatExpr(ctx, b, x.Left)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = append(b, ", "...)

		b, err = formatExpr(ctx, b, x.Right)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}

		b = append(b, ')')
	default:
		return nil, errors.New("unsupported type: %T", x)
	}

	return b, nil
}
