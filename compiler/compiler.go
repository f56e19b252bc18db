package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uvmlab/uvc/compiler/asm"
	"github.com/uvmlab/uvc/compiler/ast"
	"github.com/uvmlab/uvc/compiler/front"
	"github.com/uvmlab/uvc/compiler/ir"
)

func CompileFile(ctx context.Context, name string) (p *ir.Prog, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

func Compile(ctx context.Context, name string, text []byte) (p *ir.Prog, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	st := front.New()

	st.AddFile(ctx, name, text)

	err = st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	p, err = st.Compile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	return p, nil
}

func AssembleFile(ctx context.Context, name string) (p *ir.Prog, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Assemble(ctx, name, text)
}

func Assemble(ctx context.Context, name string, text []byte) (p *ir.Prog, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "assemble", "name", name)
	defer tr.Finish("err", &err)

	p, err = asm.Parse(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	return p, nil
}

func ParseFile(ctx context.Context, name string) (l []ast.Assign, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	st := front.New()

	st.AddFile(ctx, name, text)

	err = st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	return st.Assigns(), nil
}
