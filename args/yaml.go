package args

import (
	"fmt"

	"cloudeng.io/cmdutil/cmdyaml"
)

// FromYAML decodes and validates a Command tree such as:
//
//	name: tool
//	about: does things
//	flags:
//	  - {short: v, kind: count}
//	  - {long: mode, kind: enum, choices: [fast, slow], default: fast}
//	commands:
//	  - name: add
//	    positionals:
//	      - {name: x, type: int64, required: true}
//	      - {name: y, type: int64, required: true}
//
// Decoding errors quote the offending line of spec.
func FromYAML(spec []byte) (*Command, error) {
	cmd := &Command{}
	if err := cmdyaml.ParseConfig(spec, cmd); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// MustFromYAML is like FromYAML but panics on error. It is intended for
// package-level command declarations.
func MustFromYAML(spec string) *Command {
	cmd, err := FromYAML([]byte(spec))
	if err != nil {
		panic(fmt.Sprintf("%v", err))
	}
	return cmd
}
