package args

import (
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"cloudeng.io/errors"
	"github.com/tomerfiliba/argbind/env"
)

// Parse binds os.Args[1:] against cmd using a snapshot of the process
// environment.
func Parse(cmd *Command) (*Bound, error) {
	return Bind(cmd, os.Args[1:], env.Snapshot())
}

// Bind validates cmd and binds tokens against it. Flags that declare an
// environment variable and are not given on the command line are looked
// up using lookup, which may be nil.
//
// The first violation in left-to-right token order is returned; checks
// that need every token (required flags, then required positionals) run
// once the tokens are exhausted. No partial result is returned on error.
func Bind(cmd *Command, tokens []string, lookup env.Lookup) (*Bound, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return newBinder(cmd, cmd.Name, lookup).bind(tokens)
}

type binder struct {
	cmd    *Command
	path   string // command names from the root, space separated
	lookup env.Lookup
	short  map[rune]int
	long   map[string]int
	flags  []Field
	pos    []Field
	next   int // index of the next positional slot to fill
}

func newBinder(cmd *Command, path string, lookup env.Lookup) *binder {
	b := &binder{
		cmd:    cmd,
		path:   path,
		lookup: lookup,
		short:  make(map[rune]int, len(cmd.Flags)),
		long:   make(map[string]int, len(cmd.Flags)),
		flags:  make([]Field, len(cmd.Flags)),
		pos:    make([]Field, len(cmd.Positionals)),
	}
	for i, f := range cmd.Flags {
		if f.Short != "" {
			r, _ := utf8.DecodeRuneInString(f.Short)
			b.short[r] = i
		}
		if f.Long != "" {
			b.long[f.Long] = i
		}
		b.flags[i] = Field{Name: f.FieldName()}
		switch f.Kind {
		case Bool:
			b.flags[i].Value = false
		case Count:
			b.flags[i].Value = 0
		case Multi:
			b.flags[i].Value = []any{}
		}
	}
	for i, p := range cmd.Positionals {
		b.pos[i] = Field{Name: p.Name}
	}
	return b
}

// bind scans tokens and, for usage errors raised by a subcommand, records
// which subcommand was active.
func (b *binder) bind(tokens []string) (*Bound, error) {
	bound, err := b.scan(tokens)
	if err == nil || b.path == b.cmd.Name || !errors.Is(err, ErrUsage) {
		return bound, err
	}
	var cerr *CommandError
	if errors.As(err, &cerr) {
		return nil, err
	}
	return nil, &CommandError{Path: b.path, UsageLine: b.cmd.usageLine(b.path), Err: err}
}

func (b *binder) scan(tokens []string) (*Bound, error) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		var consumed int
		var err error
		switch {
		case tok == "--":
			return b.rest(tokens[i+1:])
		case strings.HasPrefix(tok, "--"):
			consumed, err = b.longFlag(tok[2:], tokens[i+1:])
		case isShortBundle(tok):
			consumed, err = b.shortFlags(tok[1:], tokens[i+1:])
		case len(b.cmd.Subcommands) > 0:
			return b.dispatch(tok, tokens[i+1:])
		default:
			err = b.positional(tok)
		}
		if err != nil {
			return nil, err
		}
		i += consumed
	}
	if len(b.cmd.Subcommands) > 0 {
		if err := b.finish(); err != nil {
			return nil, err
		}
		return nil, &MissingSubcommandError{Permitted: b.cmd.Commands()}
	}
	if err := b.finish(); err != nil {
		return nil, err
	}
	return b.bound(), nil
}

// rest binds the tokens following a bare --. They are all positional; for
// a command with subcommands the first names the subcommand and the
// remainder stay positional for it. A second -- right after the
// subcommand name is accepted and ignored.
func (b *binder) rest(tokens []string) (*Bound, error) {
	if len(b.cmd.Subcommands) > 0 && len(tokens) > 0 {
		following := tokens[1:]
		if len(following) == 0 || following[0] != "--" {
			following = append([]string{"--"}, following...)
		}
		return b.dispatch(tokens[0], following)
	}
	for _, tok := range tokens {
		if err := b.positional(tok); err != nil {
			return nil, err
		}
	}
	return b.scan(nil)
}

func (b *binder) dispatch(name string, tokens []string) (*Bound, error) {
	sc, ok := b.cmd.Subcommand(name)
	if !ok {
		return nil, &UnknownSubcommandError{Token: name, Permitted: b.cmd.Commands()}
	}
	slog.Debug("subcommand selected", "command", b.cmd.Name, "subcommand", name)
	child, err := newBinder(sc, b.path+" "+name, b.lookup).bind(tokens)
	if err != nil {
		return nil, err
	}
	if err := b.finish(); err != nil {
		return nil, err
	}
	bound := b.bound()
	bound.Subcommand = &Selection{Name: name, Bound: child}
	return bound, nil
}

// isShortBundle reports whether tok is a hyphen followed by a letter. Other
// hyphenated tokens, such as - and -5, are positional.
func isShortBundle(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tok[1:])
	return unicode.IsLetter(r)
}

func (b *binder) longFlag(body string, following []string) (int, error) {
	name, value, hasValue := strings.Cut(body, "=")
	idx, ok := b.long[name]
	if !ok {
		if err := b.builtin(name); err != nil {
			return 0, err
		}
		return 0, &UnknownFlagError{Token: "--" + name}
	}
	f := b.cmd.Flags[idx]
	switch {
	case !f.Kind.takesValue():
		if hasValue {
			return 0, &UnexpectedValueError{Flag: "--" + name, Value: value}
		}
		b.occur(idx)
		return 0, nil
	case hasValue:
		return 0, b.set(idx, value)
	case f.Kind == OptionalMulti:
		if len(following) == 0 || looksLikeFlag(following[0]) {
			b.occur(idx)
			return 0, nil
		}
	case len(following) == 0:
		return 0, &MissingValueError{Flag: "--" + name}
	}
	return 1, b.set(idx, following[0])
}

func (b *binder) shortFlags(body string, following []string) (int, error) {
	var prev rune
	for j, r := range body {
		idx, ok := b.short[r]
		if !ok {
			if prev != 0 && !unicode.IsLetter(r) {
				return 0, &UnexpectedValueError{Flag: "-" + string(prev), Value: body[j:]}
			}
			if err := b.builtin(string(r)); err != nil {
				return 0, err
			}
			return 0, &UnknownFlagError{Token: "-" + string(r)}
		}
		f := b.cmd.Flags[idx]
		if !f.Kind.takesValue() {
			b.occur(idx)
			prev = r
			continue
		}
		// The rest of the bundle, if any, is the value.
		if attached := body[j+utf8.RuneLen(r):]; attached != "" {
			return 0, b.set(idx, strings.TrimPrefix(attached, "="))
		}
		switch {
		case f.Kind == OptionalMulti:
			if len(following) == 0 || looksLikeFlag(following[0]) {
				b.occur(idx)
				return 0, nil
			}
		case len(following) == 0:
			return 0, &MissingValueError{Flag: "-" + string(r)}
		}
		return 1, b.set(idx, following[0])
	}
	return 0, nil
}

func looksLikeFlag(tok string) bool {
	return tok == "--" || strings.HasPrefix(tok, "--") || isShortBundle(tok)
}

// builtin handles -h/--help and, when the command has a version,
// -V/--version. -h asks for the summary, --help for the full text.
func (b *binder) builtin(name string) error {
	switch {
	case name == "h":
		return &HelpRequest{Usage: b.cmd.usage(b.path, false)}
	case name == "help":
		return &HelpRequest{Usage: b.cmd.usage(b.path, true)}
	case b.cmd.Version != "" && (name == "V" || name == "version"):
		return &VersionRequest{Name: b.cmd.Name, Version: b.cmd.Version}
	}
	return nil
}

// occur records an occurrence of a flag that does not take a value on
// this occurrence.
func (b *binder) occur(idx int) {
	fld := &b.flags[idx]
	fld.Present, fld.Source = true, CommandLine
	switch b.cmd.Flags[idx].Kind {
	case Bool:
		fld.Value = true
	case Count:
		fld.Value = fld.Value.(int) + 1
	case OptionalMulti:
		if fld.Value == nil {
			fld.Value = []any{}
		}
	}
}

func (b *binder) set(idx int, raw string) error {
	if err := b.assign(idx, raw); err != nil {
		return err
	}
	b.flags[idx].Source = CommandLine
	return nil
}

func (b *binder) assign(idx int, raw string) error {
	f := b.cmd.Flags[idx]
	fld := &b.flags[idx]
	if f.Kind == Enum {
		for _, label := range f.Choices {
			if label == raw {
				fld.Present, fld.Value = true, label
				return nil
			}
		}
		return &InvalidEnumValueError{Slot: f.display(), Token: raw, Permitted: f.Choices}
	}
	v, err := f.Type.convert(raw)
	if err != nil {
		return &InvalidValueError{Slot: f.display(), Token: raw, Type: f.Type, Err: err}
	}
	switch f.Kind {
	case Multi, OptionalMulti:
		vals, _ := fld.Value.([]any)
		fld.Value = append(vals, v)
	default:
		fld.Value = v
	}
	fld.Present = true
	return nil
}

func (b *binder) positional(tok string) error {
	if b.next >= len(b.cmd.Positionals) {
		return &PositionalOverflowError{Token: tok}
	}
	p := b.cmd.Positionals[b.next]
	v, err := p.Type.convert(tok)
	if err != nil {
		return &InvalidValueError{Slot: p.Name, Token: tok, Type: p.Type, Err: err}
	}
	fld := &b.pos[b.next]
	fld.Present, fld.Source = true, CommandLine
	if p.Rest {
		vals, _ := fld.Value.([]any)
		fld.Value = append(vals, v)
		return nil
	}
	fld.Value = v
	b.next++
	return nil
}

// finish applies environment values and defaults to flags not given on
// the command line and checks that every required slot was filled.
func (b *binder) finish() error {
	for i, f := range b.cmd.Flags {
		if b.flags[i].Present || (f.Kind != Single && f.Kind != Enum) {
			continue
		}
		if f.Env != "" {
			if v, ok := b.lookup(f.Env); ok && v != "" {
				slog.Debug("flag value from environment", "command", b.cmd.Name, "flag", f.display(), "env", f.Env)
				if err := b.assign(i, v); err != nil {
					return err
				}
				b.flags[i].Source = Environment
				continue
			}
		}
		if f.Default != "" {
			if err := b.assign(i, f.Default); err != nil {
				return err
			}
			b.flags[i].Source = Default
			continue
		}
		if f.Required {
			return &MissingRequiredError{Slot: f.display()}
		}
	}
	for i, p := range b.cmd.Positionals {
		if p.Required && !b.pos[i].Present {
			return &MissingPositionalError{Slot: p.Name}
		}
	}
	return nil
}

func (b *binder) bound() *Bound {
	return &Bound{
		Command:     b.cmd.Name,
		Flags:       b.flags,
		Positionals: b.pos,
	}
}
