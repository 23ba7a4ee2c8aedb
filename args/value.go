package args

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Path is the bound form of a path-typed value. It is kept exactly as
// given on the command line.
type Path string

// ValueType is the type a raw token is converted to. Signed integer types
// bind as int64, unsigned ones as uint64, floats as float64, String as
// string, PathType as Path, Duration as time.Duration and Time as
// time.Time.
type ValueType int

const (
	String ValueType = iota
	PathType
	Int
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Duration
	Time
)

var valueTypeNames = [...]string{
	String:   "string",
	PathType: "path",
	Int:      "int",
	Int8:     "int8",
	Int16:    "int16",
	Int32:    "int32",
	Int64:    "int64",
	Uint:     "uint",
	Uint8:    "uint8",
	Uint16:   "uint16",
	Uint32:   "uint32",
	Uint64:   "uint64",
	Float32:  "float32",
	Float64:  "float64",
	Duration: "duration",
	Time:     "time",
}

var timeLayouts = []string{time.RFC3339, time.RFC1123, time.RFC1123Z, time.RFC822, time.RFC822Z,
	time.UnixDate, time.DateTime, time.DateOnly, time.TimeOnly}

func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
	return valueTypeNames[t]
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *ValueType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for i, name := range valueTypeNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			*t = ValueType(i)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown value type %q", node.Line, s)
}

func (t ValueType) bits() int {
	switch t {
	case Float32:
		return 32
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32:
		return 32
	case Int, Uint:
		return strconv.IntSize
	}
	return 64
}

func (t ValueType) valid() bool {
	return t >= 0 && int(t) < len(valueTypeNames)
}

// convert parses raw as t. Integers must fit the declared width and
// signedness exactly. Paths are kept as given, including the empty path.
func (t ValueType) convert(raw string) (any, error) {
	switch t {
	case String:
		return raw, nil
	case PathType:
		return Path(raw), nil
	case Int, Int8, Int16, Int32, Int64:
		return strconv.ParseInt(raw, 10, t.bits())
	case Uint, Uint8, Uint16, Uint32, Uint64:
		return strconv.ParseUint(raw, 10, t.bits())
	case Float32, Float64:
		return strconv.ParseFloat(strings.TrimSpace(raw), t.bits())
	case Duration:
		dur, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			v, err2 := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err2 != nil {
				return nil, err
			}
			// assume seconds
			dur = time.Duration(v) * time.Second
		}
		return dur, nil
	case Time:
		for _, layout := range timeLayouts {
			if tm, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
				return tm, nil
			}
		}
		return nil, fmt.Errorf("not in any known time format")
	}
	return nil, fmt.Errorf("unsupported value type %v", t)
}
