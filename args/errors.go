package args

import (
	"fmt"
	"strings"

	"cloudeng.io/errors"
)

var (
	// ErrUsage is wrapped by every error caused by the supplied tokens
	// or environment, as opposed to a malformed Command.
	ErrUsage = errors.New("usage error")

	// ErrInvalidCommand is wrapped by the error returned by Command.Validate.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrHelp is wrapped by *HelpRequest.
	ErrHelp = errors.New("help requested")

	// ErrVersion is wrapped by *VersionRequest.
	ErrVersion = errors.New("version requested")
)

// UnknownFlagError is returned for a flag that the active command does
// not declare.
type UnknownFlagError struct {
	Token string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag %s", e.Token)
}

func (e *UnknownFlagError) Unwrap() error { return ErrUsage }

// MissingRequiredError is returned when a required flag received no value
// from the command line, the environment or a default.
type MissingRequiredError struct {
	Slot string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("missing required flag %s", e.Slot)
}

func (e *MissingRequiredError) Unwrap() error { return ErrUsage }

// MissingPositionalError is returned when a required positional argument
// was not supplied.
type MissingPositionalError struct {
	Slot string
}

func (e *MissingPositionalError) Error() string {
	return fmt.Sprintf("missing required positional argument %s", e.Slot)
}

func (e *MissingPositionalError) Unwrap() error { return ErrUsage }

// InvalidValueError is returned when a token cannot be converted to the
// slot's value type.
type InvalidValueError struct {
	Slot  string
	Token string
	Type  ValueType
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: expected %v: %v", e.Token, e.Slot, e.Type, e.Err)
}

func (e *InvalidValueError) Unwrap() []error { return []error{ErrUsage, e.Err} }

// InvalidEnumValueError is returned when an enumerated flag is given a
// value outside its permitted labels.
type InvalidEnumValueError struct {
	Slot      string
	Token     string
	Permitted []string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: not one of %s", e.Token, e.Slot, strings.Join(e.Permitted, ", "))
}

func (e *InvalidEnumValueError) Unwrap() error { return ErrUsage }

// UnknownSubcommandError is returned when the token in subcommand position
// names no declared subcommand.
type UnknownSubcommandError struct {
	Token     string
	Permitted []string
}

func (e *UnknownSubcommandError) Error() string {
	return fmt.Sprintf("%s is not one of the supported commands: %s", e.Token, strings.Join(e.Permitted, ", "))
}

func (e *UnknownSubcommandError) Unwrap() error { return ErrUsage }

// MissingSubcommandError is returned when a command with subcommands is
// given no subcommand name.
type MissingSubcommandError struct {
	Permitted []string
}

func (e *MissingSubcommandError) Error() string {
	return fmt.Sprintf("missing subcommand: available commands are: %s", strings.Join(e.Permitted, ", "))
}

func (e *MissingSubcommandError) Unwrap() error { return ErrUsage }

// PositionalOverflowError is returned for the first positional token that
// no declared positional slot can absorb.
type PositionalOverflowError struct {
	Token string
}

func (e *PositionalOverflowError) Error() string {
	return fmt.Sprintf("unexpected positional argument %q", e.Token)
}

func (e *PositionalOverflowError) Unwrap() error { return ErrUsage }

// MissingValueError is returned when a value-taking flag is the last token.
type MissingValueError struct {
	Flag string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("flag %s expects a value", e.Flag)
}

func (e *MissingValueError) Unwrap() error { return ErrUsage }

// UnexpectedValueError is returned when a value is attached to a flag that
// does not take one, as in --verbose=yes or -v7.
type UnexpectedValueError struct {
	Flag  string
	Value string
}

func (e *UnexpectedValueError) Error() string {
	return fmt.Sprintf("flag %s does not expect a value (got %q)", e.Flag, e.Value)
}

func (e *UnexpectedValueError) Unwrap() error { return ErrUsage }

// HelpRequest is returned by Bind when -h or --help is seen. Usage holds
// the help text of the command that was active at that point.
type HelpRequest struct {
	Usage string
}

func (e *HelpRequest) Error() string { return ErrHelp.Error() }

func (e *HelpRequest) Unwrap() error { return ErrHelp }

// VersionRequest is returned by Bind when -V or --version is seen on a
// command that declares a version.
type VersionRequest struct {
	Name    string
	Version string
}

func (e *VersionRequest) Error() string { return ErrVersion.Error() }

func (e *VersionRequest) Unwrap() error { return ErrVersion }

// CommandError wraps a usage error raised while binding a subcommand.
// Path names the subcommand from the root, as in "tool add", and
// UsageLine is that subcommand's usage line. The message is that of Err.
type CommandError struct {
	Path      string
	UsageLine string
	Err       error
}

func (e *CommandError) Error() string { return e.Err.Error() }

func (e *CommandError) Unwrap() error { return e.Err }
