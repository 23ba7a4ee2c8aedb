package args

import (
	"fmt"
	"io"

	"cloudeng.io/errors"
)

// Report writes the outcome of a failed Bind and returns the exit status
// a program should use. Help and version requests go to stdout with
// status 0. Usage errors go to stderr with status 2, anything else with
// status 1. A usage error raised by a subcommand is followed by that
// subcommand's usage line. A nil error returns 0 and writes nothing.
func Report(cmd *Command, err error, stdout, stderr io.Writer) int {
	var help *HelpRequest
	var version *VersionRequest
	var cerr *CommandError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &help):
		fmt.Fprint(stdout, help.Usage)
		return 0
	case errors.As(err, &version):
		fmt.Fprintf(stdout, "%s %s\n", version.Name, version.Version)
		return 0
	case errors.As(err, &cerr):
		fmt.Fprintf(stderr, "error: %v\n\nUsage: %s\n\nFor more information, try '--help'.\n", cerr.Err, cerr.UsageLine)
		return 2
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(stderr, "error: %v\n\nUsage: %s\n\nFor more information, try '--help'.\n", err, cmd.usageLine(cmd.Name))
		return 2
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}
