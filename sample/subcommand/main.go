package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloudeng.io/cmdutil"
	"github.com/kr/pretty"
	"github.com/tomerfiliba/argbind/args"
	"github.com/tomerfiliba/argbind/env"
	"github.com/tomerfiliba/argbind/internal/clilog"
)

var command = args.MustFromYAML(`
name: subcommand
about: Demonstrates subcommand dispatch with argbind.
version: 0.1.0
commands:
  - name: add
    about: Adds two signed integers given inline.
    positionals:
      - {name: x, type: int64, required: true}
      - {name: y, type: int64, required: true}
  - name: complex
    about: Takes its arguments from a separate struct.
    positionals:
      - {name: u, type: uint64, required: true}
      - {name: v, type: uint64, required: true}
      - {name: x, type: uint64, required: true}
      - {name: y, type: uint64, required: true}
`)

// Commands is one of Add or Complex.
type Commands interface {
	isCommand()
}

type Add struct {
	X, Y int64
}

type Complex struct {
	U, V, X, Y uint64
}

func (Add) isCommand()     {}
func (Complex) isCommand() {}

// Args is the typed form of the values bound against command.
type Args struct {
	Command Commands
}

func fromBound(b *args.Bound) (Args, error) {
	sel := b.Subcommand
	switch sel.Name {
	case "add":
		var a Add
		a.X, _ = args.Get[int64](sel.Bound, "x")
		a.Y, _ = args.Get[int64](sel.Bound, "y")
		return Args{Command: a}, nil
	case "complex":
		var c Complex
		c.U, _ = args.Get[uint64](sel.Bound, "u")
		c.V, _ = args.Get[uint64](sel.Bound, "v")
		c.X, _ = args.Get[uint64](sel.Bound, "x")
		c.Y, _ = args.Get[uint64](sel.Bound, "y")
		return Args{Command: c}, nil
	}
	return Args{}, fmt.Errorf("no handler for subcommand %q", sel.Name)
}

func run(tokens []string, lookup env.Lookup, stdout, stderr io.Writer) int {
	b, err := args.Bind(command, tokens, lookup)
	if err != nil {
		return args.Report(command, err, stdout, stderr)
	}
	a, err := fromBound(b)
	if err != nil {
		return args.Report(command, err, stdout, stderr)
	}
	slog.Debug("arguments bound", "command", b.Command, "subcommand", b.Subcommand.Name)
	fmt.Fprintf(stdout, "%# v\n", pretty.Formatter(a))
	return 0
}

func main() {
	lookup := env.Snapshot()
	logger, err := clilog.New(lookup)
	if err != nil {
		cmdutil.Exit("subcommand: %v", err)
	}
	slog.SetDefault(logger.Logger)
	code := run(os.Args[1:], lookup, os.Stdout, os.Stderr)
	logger.Close()
	os.Exit(code)
}
