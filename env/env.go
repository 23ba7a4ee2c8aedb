package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/errors"
)

// Lookup returns the value of the named environment variable and whether
// it was set.
type Lookup func(name string) (string, bool)

// Snapshot captures the process environment once. Later changes to the
// environment are not visible through the returned Lookup.
func Snapshot() Lookup {
	return FromPairs(os.Environ())
}

// FromPairs builds a Lookup from NAME=value pairs, as returned by os.Environ.
// Later pairs override earlier ones.
func FromPairs(pairs []string) Lookup {
	m := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = v
	}
	return FromMap(m)
}

// FromMap builds a Lookup over a copy of m.
func FromMap(m map[string]string) Lookup {
	snap := make(map[string]string, len(m))
	for k, v := range m {
		snap[k] = v
	}
	return func(name string) (string, bool) {
		v, ok := snap[name]
		return v, ok
	}
}

// LoadSpec fills envSpec from a snapshot of the process environment.
func LoadSpec(envSpec any) error {
	return LoadSpecFrom(envSpec, Snapshot())
}

// LoadSpecFrom fills the fields of the struct pointed to by envSpec that
// carry an `env:"NAME"` or `env:"NAME=default"` tag. A tag of `env:"*"`
// descends into a nested struct. Unset or empty variables fall back to the
// default; a variable with neither is reported as missing. All problems are
// returned together.
func LoadSpecFrom(envSpec any, lookup Lookup) error {
	val := reflect.ValueOf(envSpec)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("env spec must be a pointer to a struct, not %T", envSpec)
	}
	errs := &errors.M{}
	loadStruct(val.Elem(), lookup, errs)
	return errs.Err()
}

func loadStruct(val reflect.Value, lookup Lookup, errs *errors.M) {
	tp := val.Type()
	for i := 0; i < tp.NumField(); i++ {
		f := tp.Field(i)
		tag := f.Tag.Get("env")
		if tag == "" {
			continue
		}
		envName, defVal, hasDefault := strings.Cut(tag, "=")
		envName = strings.TrimSpace(envName)
		if envName == "" {
			errs.Append(fmt.Errorf("missing env var name in tag %q (%s)", tag, f.Name))
			continue
		}

		fv := val.Field(i)

		if envName == "*" {
			// nested structs
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					fv.Set(reflect.New(fv.Type().Elem()))
				}
				fv = fv.Elem()
			}
			if fv.Kind() != reflect.Struct {
				errs.Append(fmt.Errorf("%s: env:\"*\" requires a struct, not %s", f.Name, fv.Type()))
				continue
			}
			loadStruct(fv, lookup, errs)
			continue
		}

		envVal, ok := lookup(envName)
		if !ok || envVal == "" {
			if !hasDefault {
				errs.Append(fmt.Errorf("missing required env var %s", envName))
				continue
			}
			// no value, keep the default
			envVal = defVal
		}
		if err := setField(fv, envVal); err != nil {
			errs.Append(fmt.Errorf("parsing %s: %w", envName, err))
		}
	}
}

func setField(fv reflect.Value, envVal string) error {
	if fv.Type() == reflect.TypeOf(time.Duration(0)) {
		dur, err := time.ParseDuration(strings.TrimSpace(envVal))
		if err != nil {
			v, err2 := strconv.ParseInt(strings.TrimSpace(envVal), 10, 64)
			if err2 != nil {
				return err
			}
			// assume seconds
			dur = time.Duration(v) * time.Second
		}
		fv.SetInt(int64(dur))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(envVal)

	case reflect.Bool:
		switch strings.ToLower(strings.TrimSpace(envVal)) {
		case "t", "y", "true", "yes", "1":
			fv.SetBool(true)
		case "f", "n", "false", "no", "0":
			fv.SetBool(false)
		default:
			return fmt.Errorf("%q is not a boolean", envVal)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(strings.TrimSpace(envVal), 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(v)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(strings.TrimSpace(envVal), 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(v)

	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(strings.TrimSpace(envVal), fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(v)

	default:
		return fmt.Errorf("unsupported type %s", fv.Type())
	}
	return nil
}
