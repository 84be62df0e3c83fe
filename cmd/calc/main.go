package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/calc/expr"
	"github.com/slowlang/calc/expr/format"
	"github.com/slowlang/calc/expr/parse"
)

const failureMessage = "syntax error"

func main() {
	replCmd := &cli.Command{
		Name:        "repl",
		Description: "read expressions line by line until EOF or quit",
		Action:      replAct,
		Flags:       flags(),
	}

	evalCmd := &cli.Command{
		Name:        "eval",
		Description: "evaluate expressions given as arguments",
		Action:      evalAct,
		Args:        cli.Args{},
		Flags:       flags(),
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print the syntax tree of expressions given as arguments",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags: append(flags(),
			cli.NewFlag("pretty", false, "dump go value of the tree"),
		),
	}

	app := &cli.Command{
		Name:        "calc",
		Description: "calc evaluates integer arithmetic expressions",
		Action:      replAct,
		Flags:       flags(),
		Commands: []*cli.Command{
			replCmd,
			evalCmd,
			parseCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func flags() []*cli.Flag {
	return []*cli.Flag{
		cli.NewFlag("log", "stderr", "log output file (or stderr)"),
		cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
		cli.NewFlag("left-assoc", false, "group operator chains left to right: 10-3-2 = 5"),
		cli.NewFlag("max-depth", 0, "nesting limit, 0 for defaults, negative for none"),
		cli.NewFlag("strict", false, "fail on trailing input"),
		cli.HelpFlag,
	}
}

// setup configures logging and returns the context for the command.
// The returned func closes the log file.
func setup(c *cli.Command) (ctx context.Context, cfg expr.Config, done func() error, err error) {
	name := c.String("log")

	w, done, err := openLog(name)
	if err != nil {
		return nil, cfg, nil, err
	}

	tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(w, tlog.LstdFlags))

	v := c.String("verbosity")
	if v != "" {
		tlog.SetVerbosity(v)
	}

	cfg = expr.Config{
		Assoc:    parse.RightAssoc,
		MaxDepth: c.Int("max-depth"),
		Strict:   c.Bool("strict"),
	}

	if c.Bool("left-assoc") {
		cfg.Assoc = parse.LeftAssoc
	}

	ctx = rootContext(v != "" || w != os.Stderr)

	return ctx, cfg, done, nil
}

func openLog(name string) (io.Writer, func() error, error) {
	if name == "" || name == "stderr" {
		return os.Stderr, func() error { return nil }, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}

	return f, f.Close, nil
}

// rootContext carries a root span only if traced,
// so spans don't interleave with results on the terminal by default.
func rootContext(traced bool) context.Context {
	ctx := context.Background()

	if traced {
		ctx = tlog.ContextWithSpan(ctx, tlog.Root())
	}

	return ctx
}

func replAct(c *cli.Command) (err error) {
	ctx, cfg, done, err := setup(c)
	if err != nil {
		return err
	}

	defer func() {
		if e := done(); err == nil && e != nil {
			err = errors.Wrap(e, "close log")
		}
	}()

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return repl(ctx, cfg, scanLines(os.Stdin), os.Stdout)
	}

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)

	next := func() (string, bool) {
		line, err := ln.Prompt("> ")
		if err != nil {
			return "", false
		}

		ln.AppendHistory(line)

		return line, true
	}

	return repl(ctx, cfg, next, os.Stdout)
}

// repl evaluates lines until next reports the end or a quit command is read.
// Every failure gets the same message and the loop continues.
func repl(ctx context.Context, cfg expr.Config, next func() (string, bool), w io.Writer) error {
	for {
		line, ok := next()
		if !ok {
			return nil
		}

		switch strings.TrimSpace(line) {
		case "quit", "exit":
			return nil
		}

		v, err := cfg.ParseAndEval(ctx, line)
		if err != nil {
			tlog.V("repl").Printw("evaluation failed", "line", line, "err", err)

			fmt.Fprintln(w, failureMessage)

			continue
		}

		fmt.Fprintf(w, "ok:%d\n", v)
	}
}

func scanLines(r io.Reader) func() (string, bool) {
	s := bufio.NewScanner(r)

	return func() (string, bool) {
		if !s.Scan() {
			return "", false
		}

		return s.Text(), true
	}
}

func evalAct(c *cli.Command) (err error) {
	ctx, cfg, done, err := setup(c)
	if err != nil {
		return err
	}

	defer func() {
		if e := done(); err == nil && e != nil {
			err = errors.Wrap(e, "close log")
		}
	}()

	for _, a := range c.Args {
		v, err := cfg.ParseAndEval(ctx, a)
		if err != nil {
			return errors.Wrap(err, "eval %q", a)
		}

		fmt.Printf("ok:%d\n", v)
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx, cfg, done, err := setup(c)
	if err != nil {
		return err
	}

	defer func() {
		if e := done(); err == nil && e != nil {
			err = errors.Wrap(e, "close log")
		}
	}()

	for _, a := range c.Args {
		x, end, err := cfg.Parse(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %q", a)
		}

		b, err := format.Format(ctx, nil, x)
		if err != nil {
			return errors.Wrap(err, "format")
		}

		b = append(b, '\n')

		b, err = format.Tree(ctx, b, x)
		if err != nil {
			return errors.Wrap(err, "format tree")
		}

		if end < len(a) {
			b = fmt.Appendf(b, "unparsed: %q\n", a[end:])
		}

		os.Stdout.Write(b)

		if c.Bool("pretty") {
			pretty.Println(x)
		}
	}

	return nil
}
