package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uvmlab/uvc/compiler"
	"github.com/uvmlab/uvc/compiler/format"
	"github.com/uvmlab/uvc/compiler/ir"
	"github.com/uvmlab/uvc/compiler/obj"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile expression source into a UVM binary",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("out,o", "", "output file (input file with .bin suffix by default)"),
		},
	}

	asmCmd := &cli.Command{
		Name:        "asm",
		Description: "assemble mnemonic source into a UVM binary",
		Action:      asmAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("out,o", "", "output file (input file with .bin suffix by default)"),
		},
	}

	irCmd := &cli.Command{
		Name:        "ir",
		Description: "print the instructions a source file compiles to",
		Action:      irAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("asm,s", false, "treat input as mnemonic assembly"),
		},
	}

	jsonCmd := &cli.Command{
		Name:        "json",
		Description: "print the instructions as JSON",
		Action:      jsonAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("asm,s", false, "treat input as mnemonic assembly"),
		},
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "reprint expression source in canonical form",
		Action:      fmtAct,
		Args:        cli.Args{},
	}

	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "decode a UVM binary back to instructions",
		Action:      dumpAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "uvc",
		Description: "uvc is a compiler and assembler for the UVM educational virtual machine",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("verbosity,v", "", "logging topics"),
		},
		Commands: []*cli.Command{
			compileCmd,
			asmCmd,
			irCmd,
			jsonCmd,
			fmtCmd,
			dumpCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func compileAct(c *cli.Command) (err error) {
	return build(c, compiler.CompileFile)
}

func asmAct(c *cli.Command) (err error) {
	return build(c, compiler.AssembleFile)
}

func build(c *cli.Command, from func(context.Context, string) (*ir.Prog, error)) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	out := c.String("out")
	if out != "" && len(c.Args) > 1 {
		return errors.New("one output file for %d inputs", len(c.Args))
	}

	for _, a := range c.Args {
		p, err := from(ctx, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		b, err := obj.Encode(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "encode %v", a)
		}

		name := out
		if name == "" {
			name = a + ".bin"
		}

		err = os.WriteFile(name, b, 0o644)
		if err != nil {
			return errors.Wrap(err, "write %v", name)
		}

		tlog.SpanFromContext(ctx).Printw("wrote binary", "size", len(b), "name", name)
	}

	return nil
}

func irAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := load(ctx, c, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		b, err := format.Format(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func jsonAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := load(ctx, c, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal %v", a)
		}

		fmt.Printf("%s\n", b)
	}

	return nil
}

func fmtAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		l, err := compiler.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, l)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func dumpAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		data, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		p, err := obj.Decode(ctx, data)
		if err != nil {
			return errors.Wrap(err, "decode %v", a)
		}

		b, err := format.Format(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func load(ctx context.Context, c *cli.Command, name string) (*ir.Prog, error) {
	if c.Bool("asm") {
		return compiler.AssembleFile(ctx, name)
	}

	return compiler.CompileFile(ctx, name)
}
