package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/xyproto/env/v2"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/shuffle/compiler"
	"github.com/slowlang/shuffle/compiler/back"
	"github.com/slowlang/shuffle/compiler/format"
	"github.com/slowlang/shuffle/compiler/parse"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile source files to x86-64 assembly",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "-", "output file"),
			cli.NewFlag("left-assoc", env.Bool("SHUFFLE_LEFT_ASSOC"), "parse a - b - c as (a - b) - c"),
			cli.NewFlag("jobs,j", env.Int("SHUFFLE_JOBS", 0), "functions compiled in parallel (0 is unlimited)"),
		},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse source files and print the syntax tree",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "print source files in canonical form",
		Action:      fmtAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("left-assoc", env.Bool("SHUFFLE_LEFT_ASSOC"), "parse a - b - c as (a - b) - c"),
		},
	}

	app := &cli.Command{
		Name:        "shuffle",
		Description: "shuffle is a compiler for a register-explicit toy language",
		Before:      before,
		After:       after,
		Flags: []*cli.Flag{
			cli.NewFlag("log", "stderr", "log output file (or stderr)"),
			cli.NewFlag("verbosity,v", env.Str("SHUFFLE_VERBOSITY"), "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			compileCmd,
			parseCmd,
			fmtCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

var logFile io.Closer

func before(c *cli.Command) error {
	var w io.Writer = os.Stderr

	if q := c.String("log"); q != "" && q != "stderr" {
		f, err := os.Create(q)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}

		w = f
		logFile = f
	}

	tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(w, tlog.LstdFlags))

	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func after(c *cli.Command) error {
	if logFile == nil {
		return nil
	}

	err := logFile.Close()
	logFile = nil

	return errors.Wrap(err, "close log file")
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts := compiler.Options{
		LeftAssoc: c.Bool("left-assoc"),
		Jobs:      c.Int("jobs"),
	}

	var obj []byte

	for _, a := range c.Args {
		x, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return report(os.Stderr, a, err)
		}

		obj = append(obj, x...)
	}

	return writeOutput(c.String("output"), obj)
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		fs, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		for _, f := range fs {
			fmt.Printf("%v: func %v %+v\n", f.Pos, f.Name, *f)
		}
	}

	return nil
}

func fmtAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	var b []byte

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		s := parse.New()
		s.LeftAssoc = c.Bool("left-assoc")
		s.AddFile(a, text)

		fs, err := s.Parse(ctx)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err = format.Format(ctx, b, fs[0])
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}
	}

	_, err = os.Stdout.Write(b)

	return err
}

// report prints all diagnostics, one "<file>:<line> <message>" per line, before failing.
func report(w io.Writer, name string, err error) error {
	var ds back.Diagnostics
	if !errors.As(err, &ds) {
		return errors.Wrap(err, "compile %v", name)
	}

	for _, d := range ds {
		tlog.V("diag").Printw("diagnostic", "kind", d.Kind, "pos", d.Pos)
	}

	_, werr := fmt.Fprintf(w, "%v\n", ds.Error())
	if werr != nil {
		return errors.Wrap(werr, "write report")
	}

	return errors.New("compile %v: %d errors", name, len(ds))
}

func writeOutput(name string, b []byte) error {
	if name == "" || name == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}

	err := os.WriteFile(name, b, 0o644)
	if err != nil {
		return errors.Wrap(err, "write output")
	}

	return nil
}
