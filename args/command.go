// Package args binds command line tokens and environment variables to an
// explicitly declared Command, producing a Bound record or a typed error.
package args

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"cloudeng.io/errors"
	"gopkg.in/yaml.v3"
)

// Kind determines how occurrences of a flag are bound.
type Kind int

const (
	// Single binds one value; the last occurrence wins.
	Single Kind = iota
	// Bool binds true when the flag occurs at least once.
	Bool
	// Count binds the number of occurrences.
	Count
	// Multi appends the value of every occurrence.
	Multi
	// OptionalMulti is like Multi but distinguishes "never given" from
	// "given without values". Its value is optional on each occurrence.
	OptionalMulti
	// Enum binds one of a closed set of labels.
	Enum
)

var kindNames = [...]string{
	Single:        "single",
	Bool:          "bool",
	Count:         "count",
	Multi:         "multi",
	OptionalMulti: "optional-multi",
	Enum:          "enum",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for i, name := range kindNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown flag kind %q", node.Line, s)
}

func (k Kind) takesValue() bool {
	return k != Bool && k != Count
}

// Flag declares a flag slot.
type Flag struct {
	// Name identifies the bound field. It defaults to Long, then Short.
	Name string `yaml:"name"`

	Short string    `yaml:"short"`
	Long  string    `yaml:"long"`
	Kind  Kind      `yaml:"kind"`
	Type  ValueType `yaml:"type"`
	// Default is used when neither the command line nor the environment
	// supplies a value. An empty Default means there is none.
	Default  string   `yaml:"default"`
	Required bool     `yaml:"required"`
	Choices  []string `yaml:"choices"`
	// Env names an environment variable consulted when the flag is not
	// given on the command line.
	Env  string `yaml:"env"`
	Help string `yaml:"help"`
}

// FieldName returns the name the flag is bound under.
func (f Flag) FieldName() string {
	switch {
	case f.Name != "":
		return f.Name
	case f.Long != "":
		return f.Long
	}
	return f.Short
}

func (f Flag) display() string {
	if f.Long != "" {
		return "--" + f.Long
	}
	return "-" + f.Short
}

// EnvFromLong returns f with Env derived from its long name, eg.
// --user-name reads USER_NAME.
func (f Flag) EnvFromLong() Flag {
	f.Env = strings.ToUpper(strings.ReplaceAll(f.Long, "-", "_"))
	return f
}

// Positional declares a positional slot.
type Positional struct {
	Name     string    `yaml:"name"`
	Type     ValueType `yaml:"type"`
	Required bool      `yaml:"required"`
	// Rest collects every remaining positional token.
	Rest bool   `yaml:"rest"`
	Help string `yaml:"help"`
}

// Command describes the flags, positionals and subcommands accepted by a
// command. A Command must not be modified once it is in use.
type Command struct {
	Name        string       `yaml:"name"`
	About       string       `yaml:"about"`
	Version     string       `yaml:"version"`
	Flags       []Flag       `yaml:"flags"`
	Positionals []Positional `yaml:"positionals"`
	Subcommands []*Command   `yaml:"commands"`
}

// Subcommand returns the named subcommand, if any.
func (c *Command) Subcommand(name string) (*Command, bool) {
	for _, sc := range c.Subcommands {
		if sc.Name == name {
			return sc, true
		}
	}
	return nil, false
}

// Commands returns the names of the subcommands in declaration order.
func (c *Command) Commands() []string {
	out := make([]string, len(c.Subcommands))
	for i, sc := range c.Subcommands {
		out[i] = sc.Name
	}
	return out
}

// Validate checks the structural invariants of c and all of its
// subcommands, reporting every violation found.
func (c *Command) Validate() error {
	errs := &errors.M{}
	c.validate(c.Name, errs)
	if err := errs.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	return nil
}

func (c *Command) validate(path string, errs *errors.M) {
	if c.Name == "" {
		errs.Append(fmt.Errorf("%s: command has no name", path))
	}
	c.validateFlags(path, errs)
	c.validatePositionals(path, errs)
	if len(c.Subcommands) > 0 && len(c.Positionals) > 0 {
		errs.Append(fmt.Errorf("%s: a command with subcommands cannot declare positionals", path))
	}
	seen := map[string]bool{}
	for _, sc := range c.Subcommands {
		if sc == nil {
			errs.Append(fmt.Errorf("%s: nil subcommand", path))
			continue
		}
		if seen[sc.Name] {
			errs.Append(fmt.Errorf("%s: duplicate subcommand %q", path, sc.Name))
		}
		seen[sc.Name] = true
		sc.validate(path+" "+sc.Name, errs)
	}
}

func (c *Command) validateFlags(path string, errs *errors.M) {
	shorts := map[string]bool{"h": true}
	longs := map[string]bool{"help": true}
	if c.Version != "" {
		shorts["V"], longs["version"] = true, true
	}
	names := map[string]bool{}
	for _, f := range c.Flags {
		id := f.display()
		if f.Short == "" && f.Long == "" {
			errs.Append(fmt.Errorf("%s: flag %q has neither a short nor a long name", path, f.Name))
			continue
		}
		if f.Short != "" {
			r, size := utf8.DecodeRuneInString(f.Short)
			if size != len(f.Short) || !unicode.IsLetter(r) {
				errs.Append(fmt.Errorf("%s: short name %q for %s must be a single letter", path, f.Short, id))
			}
			if shorts[f.Short] {
				errs.Append(fmt.Errorf("%s: duplicate flag -%s", path, f.Short))
			}
			shorts[f.Short] = true
		}
		if f.Long != "" {
			if strings.ContainsAny(f.Long, "= ") || strings.HasPrefix(f.Long, "-") {
				errs.Append(fmt.Errorf("%s: invalid long name %q", path, f.Long))
			}
			if longs[f.Long] {
				errs.Append(fmt.Errorf("%s: duplicate flag --%s", path, f.Long))
			}
			longs[f.Long] = true
		}
		if names[f.FieldName()] {
			errs.Append(fmt.Errorf("%s: duplicate field name %q", path, f.FieldName()))
		}
		names[f.FieldName()] = true
		if !f.Kind.valid() {
			errs.Append(fmt.Errorf("%s: %s has unknown kind %v", path, id, f.Kind))
			continue
		}
		if !f.Type.valid() {
			errs.Append(fmt.Errorf("%s: %s has unknown value type %v", path, id, f.Type))
			continue
		}
		switch f.Kind {
		case Bool, Count, Multi, OptionalMulti:
			if f.Default != "" || f.Env != "" || f.Required {
				errs.Append(fmt.Errorf("%s: %s flag %s cannot have a default, env var or be required", path, f.Kind, id))
			}
		case Enum:
			if len(f.Choices) == 0 {
				errs.Append(fmt.Errorf("%s: enum flag %s has no choices", path, id))
			}
			if f.Default != "" && !slices.Contains(f.Choices, f.Default) {
				errs.Append(fmt.Errorf("%s: default %q for %s is not one of %s", path, f.Default, id, strings.Join(f.Choices, ", ")))
			}
		case Single:
			if f.Default != "" {
				if _, err := f.Type.convert(f.Default); err != nil {
					errs.Append(fmt.Errorf("%s: default %q for %s: %w", path, f.Default, id, err))
				}
			}
		}
		if f.Kind != Enum && len(f.Choices) > 0 {
			errs.Append(fmt.Errorf("%s: only enum flags may declare choices (%s)", path, id))
		}
	}
}

func (c *Command) validatePositionals(path string, errs *errors.M) {
	names := map[string]bool{}
	for _, f := range c.Flags {
		names[f.FieldName()] = true
	}
	optional := false
	for i, p := range c.Positionals {
		if p.Name == "" {
			errs.Append(fmt.Errorf("%s: positional %d has no name", path, i))
		}
		if names[p.Name] {
			errs.Append(fmt.Errorf("%s: duplicate field name %q", path, p.Name))
		}
		names[p.Name] = true
		if !p.Type.valid() {
			errs.Append(fmt.Errorf("%s: positional %s has unknown value type %v", path, p.Name, p.Type))
		}
		if p.Rest && i != len(c.Positionals)-1 {
			errs.Append(fmt.Errorf("%s: %s collects the remaining arguments, %s cannot follow", path, p.Name, c.Positionals[i+1].Name))
		}
		if p.Required && optional {
			errs.Append(fmt.Errorf("%s: required positional %s follows an optional one", path, p.Name))
		}
		if !p.Required {
			optional = true
		}
	}
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}
