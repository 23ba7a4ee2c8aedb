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

// Mode is selected with -M.
type Mode string

const (
	Single Mode = "single"
	Multi  Mode = "multi"
)

var modes = map[string]Mode{
	string(Single): Single,
	string(Multi):  Multi,
}

var command = &args.Command{
	Name:    "struct",
	About:   "Demonstrates the flag and positional styles supported by argbind.",
	Version: "0.1.0",
	Flags: []args.Flag{
		{Short: "b", Long: "bool-flag", Kind: args.Bool, Help: "A boolean flag"},
		{Short: "c", Long: "count", Type: args.Uint64, Required: true, Help: "A required integer"},
		{Short: "d", Long: "default-value", Type: args.Uint64, Default: "1", Help: "An integer with a default"},
		{Short: "t", Long: "text", Help: "Optional text"},
		{Short: "m", Long: "multiple", Kind: args.Multi, Help: "May be given many times"},
		{Short: "o", Long: "optional-multiple", Kind: args.OptionalMulti, Help: "May be given many times, with or without a value"},
		{Short: "v", Name: "verbose", Kind: args.Count, Help: "Increase verbosity"},
		{Short: "x", Long: "xxx", Name: "renamed", Type: args.Uint64, Default: "2", Help: "A flag with explicit names"},
		{Short: "M", Name: "mode", Kind: args.Enum, Choices: []string{string(Single), string(Multi)}, Required: true, Help: "Operating mode"},
		args.Flag{Short: "u", Long: "username", Help: "User name"}.EnvFromLong(),
	},
	Positionals: []args.Positional{
		{Name: "arg1", Required: true, Help: "A required positional"},
		{Name: "arg2", Type: args.PathType, Help: "An optional path"},
	},
}

// Args is the typed form of the values bound against command.
type Args struct {
	BoolFlag         bool
	Count            uint64
	DefaultValue     uint64
	Text             *string
	Multiple         []string
	OptionalMultiple *[]string
	Verbose          int
	Renamed          uint64
	Mode             Mode
	Username         *string
	Arg1             string
	Arg2             *args.Path
}

func optional[T any](b *args.Bound, name string) *T {
	if v, ok := args.Get[T](b, name); ok {
		return &v
	}
	return nil
}

func fromBound(b *args.Bound) Args {
	a := Args{
		BoolFlag: b.Bool("bool-flag"),
		Multiple: args.List[string](b, "multiple"),
		Verbose:  b.Count("verbose"),
		Text:     optional[string](b, "text"),
		Username: optional[string](b, "username"),
		Arg2:     optional[args.Path](b, "arg2"),
	}
	a.Count, _ = args.Get[uint64](b, "count")
	a.DefaultValue, _ = args.Get[uint64](b, "default-value")
	a.Renamed, _ = args.Get[uint64](b, "renamed")
	a.Arg1, _ = args.Get[string](b, "arg1")
	label, _ := args.Get[string](b, "mode")
	a.Mode = modes[label]
	if vals, ok := args.OptionalList[string](b, "optional-multiple"); ok {
		a.OptionalMultiple = &vals
	}
	return a
}

func run(tokens []string, lookup env.Lookup, stdout, stderr io.Writer) int {
	b, err := args.Bind(command, tokens, lookup)
	if err != nil {
		return args.Report(command, err, stdout, stderr)
	}
	a := fromBound(b)
	slog.Debug("arguments bound", "command", b.Command)
	fmt.Fprintf(stdout, "%# v\n", pretty.Formatter(a))
	return 0
}

func main() {
	lookup := env.Snapshot()
	logger, err := clilog.New(lookup)
	if err != nil {
		cmdutil.Exit("struct: %v", err)
	}
	slog.SetDefault(logger.Logger)
	code := run(os.Args[1:], lookup, os.Stdout, os.Stderr)
	logger.Close()
	os.Exit(code)
}
