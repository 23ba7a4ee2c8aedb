package args

// Source records where a field's value came from.
type Source int

const (
	// Unset fields hold their kind's absent value.
	Unset Source = iota
	CommandLine
	Environment
	Default
)

func (s Source) String() string {
	switch s {
	case CommandLine:
		return "command-line"
	case Environment:
		return "environment"
	case Default:
		return "default"
	}
	return "unset"
}

// Field is one bound flag or positional.
//
// Value holds, by kind: bool for Bool, int for Count, []any for Multi,
// OptionalMulti and Rest positionals, the converted value for Single
// flags and single positionals, and the label string for Enum. Absent
// Single, Enum, OptionalMulti and positional fields have a nil Value.
type Field struct {
	Name    string
	Present bool
	Source  Source
	Value   any
}

// Selection is the subcommand chosen on the command line together with
// its own bound values.
type Selection struct {
	Name  string
	Bound *Bound
}

// Bound is the result of binding tokens against a Command. It mirrors the
// Command: one Field per flag and positional in declaration order, and a
// Selection when the Command declares subcommands.
type Bound struct {
	Command     string
	Flags       []Field
	Positionals []Field
	Subcommand  *Selection
}

// Field returns the flag or positional bound under name.
func (b *Bound) Field(name string) (Field, bool) {
	for _, f := range b.Flags {
		if f.Name == name {
			return f, true
		}
	}
	for _, f := range b.Positionals {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Bool returns the value of a Bool flag.
func (b *Bound) Bool(name string) bool {
	v, _ := Get[bool](b, name)
	return v
}

// Count returns the value of a Count flag.
func (b *Bound) Count(name string) int {
	v, _ := Get[int](b, name)
	return v
}

// Get returns the single value bound under name. It reports false if the
// field is absent or does not hold a T.
func Get[T any](b *Bound, name string) (T, bool) {
	var zero T
	f, ok := b.Field(name)
	if !ok || f.Value == nil {
		return zero, false
	}
	v, ok := f.Value.(T)
	return v, ok
}

// List returns the values of a Multi flag or Rest positional. Values that
// are not a T are skipped.
func List[T any](b *Bound, name string) []T {
	f, ok := b.Field(name)
	if !ok {
		return nil
	}
	return listOf[T](f.Value)
}

// OptionalList returns the values of an OptionalMulti flag. It returns
// (nil, false) when the flag never occurred and a non-nil, possibly empty,
// slice otherwise.
func OptionalList[T any](b *Bound, name string) ([]T, bool) {
	f, ok := b.Field(name)
	if !ok || !f.Present {
		return nil, false
	}
	return listOf[T](f.Value), true
}

func listOf[T any](v any) []T {
	vals, _ := v.([]any)
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		if t, ok := v.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
