package args

import (
	"fmt"
	"strings"
)

// helpIndent aligns continuation lines of a help text with its first line.
var helpIndent = strings.Repeat(" ", 4+20+1)

// Usage returns the full help text for c, as printed for --help: a usage
// line followed by its positionals, flags and subcommands. Multi-line
// About and Help texts are shown in full.
func (c *Command) Usage() string {
	return c.usage(c.Name, true)
}

// ShortUsage is like Usage but shows only the first line of each About and
// Help text, as printed for -h.
func (c *Command) ShortUsage() string {
	return c.usage(c.Name, false)
}

// usage renders the help text for c, which is reached from the root
// command via path.
func (c *Command) usage(path string, long bool) string {
	out := &strings.Builder{}
	if c.About != "" {
		fmt.Fprintf(out, "%s\n\n", helpText(c.About, long, ""))
	}
	fmt.Fprintf(out, "Usage: %s\n", c.usageLine(path))

	if len(c.Positionals) > 0 {
		out.WriteString("\nArguments:\n")
		for _, p := range c.Positionals {
			helpLine := fmt.Sprintf("    %-20s ", positionalName(p))
			if p.Help != "" {
				helpLine += helpText(p.Help, long, helpIndent)
			} else {
				helpLine += fmt.Sprintf("Sets '%s' (%v)", p.Name, p.Type)
			}
			if p.Required {
				helpLine += "; required"
			}
			out.WriteString(strings.TrimRight(helpLine, " ") + "\n")
		}
	}

	out.WriteString("\nOptions:\n")
	for _, f := range c.Flags {
		out.WriteString(flagLine(f, long) + "\n")
	}
	fmt.Fprintf(out, "    %-20s Print help\n", "-h --help")
	if c.Version != "" {
		fmt.Fprintf(out, "    %-20s Print version\n", "-V --version")
	}

	if len(c.Subcommands) > 0 {
		out.WriteString("\nCommands:\n")
		for _, sc := range c.Subcommands {
			fmt.Fprintf(out, "    %-20s %s\n", sc.Name, firstLine(sc.About))
		}
	}
	return out.String()
}

func (c *Command) usageLine(path string) string {
	parts := []string{path}
	if len(c.Flags) > 0 {
		parts = append(parts, "[OPTIONS]")
	}
	for _, p := range c.Positionals {
		name := positionalName(p)
		if !p.Required {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	if len(c.Subcommands) > 0 {
		parts = append(parts, strings.Join(c.Commands(), "|"), "...")
	}
	return strings.Join(parts, " ")
}

func positionalName(p Positional) string {
	name := "<" + p.Name + ">"
	if p.Rest {
		name += "..."
	}
	return name
}

func flagLine(f Flag, long bool) string {
	swParts := make([]string, 0, 2)
	if f.Short != "" {
		swParts = append(swParts, "-"+f.Short)
	}
	if f.Long != "" {
		swParts = append(swParts, "--"+f.Long)
	}
	sw := strings.Join(swParts, " ")
	if f.Kind.takesValue() {
		sw += " <" + strings.ToUpper(f.FieldName()) + ">"
	}
	helpLine := fmt.Sprintf("    %-20s ", sw)
	switch {
	case f.Help != "":
		helpLine += helpText(f.Help, long, helpIndent)
	case f.Kind == Bool:
		helpLine += fmt.Sprintf("Sets '%s'", f.FieldName())
	case f.Kind == Count:
		helpLine += fmt.Sprintf("Counts '%s'", f.FieldName())
	default:
		helpLine += fmt.Sprintf("Sets '%s' (%v)", f.FieldName(), f.Type)
	}
	if f.Kind == Enum {
		helpLine += fmt.Sprintf(" [possible values: %s]", strings.Join(f.Choices, ", "))
	}
	if f.Kind == Multi || f.Kind == OptionalMulti {
		helpLine += "; may be repeated"
	}
	if f.Env != "" {
		helpLine += fmt.Sprintf(" [env: %s]", f.Env)
	}
	if f.Default != "" {
		helpLine += fmt.Sprintf("; defaults to %s", f.Default)
	} else if f.Required {
		helpLine += "; required"
	}
	return helpLine
}

// helpText returns the first line of s, or all of it when long is set with
// every line after the first prefixed by indent.
func helpText(s string, long bool, indent string) string {
	if !long {
		return firstLine(s)
	}
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+indent)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
