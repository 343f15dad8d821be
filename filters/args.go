package filters

import (
	"errors"
	"fmt"
	"strings"
)

// StringArg converts a decoded JSON value into a string.
func StringArg(x interface{}) (string, error) {
	if s, ok := x.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("%v is not a string", x)
}

// IntArg converts a decoded JSON value into an int, accepting a float64
// (as produced by encoding/json) only when it carries no fraction.
func IntArg(x interface{}) (int, error) {
	switch i := x.(type) {
	case int:
		return i, nil
	case float64:
		ii := int(i)
		if float64(ii) == i {
			return ii, nil
		}
	}
	return 0, fmt.Errorf("%v is not an integer", x)
}

// BoolArg converts a decoded JSON value into a bool.
func BoolArg(x interface{}) (bool, error) {
	if b, ok := x.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("%v is not a bool", x)
}

// HookArgs wraps a plugin hook's decoded opts map, giving plugin
// constructors sequential, typed access to named arguments with a single
// accumulated error, in the same spirit as the teacher's FilterArgs.
//
// Example usage:
//
//	a := Opts(opts)
//	header, value, ttl, err := a.String("header"), a.String("value"), a.OptionalInt("ttl", 0), a.Err()
type HookArgs struct {
	opts map[string]interface{}
	errs []error
}

// Opts creates a HookArgs wrapper around a plugin hook's decoded options.
func Opts(opts map[string]interface{}) *HookArgs {
	return &HookArgs{opts: opts}
}

func (a *HookArgs) String(key string) (_ string) {
	x, ok := a.opts[key]
	if !ok {
		a.error(fmt.Errorf("missing required argument %q", key))
		return
	}
	s, err := StringArg(x)
	if err != nil {
		a.error(fmt.Errorf("argument %q: %w", key, err))
		return
	}
	return s
}

func (a *HookArgs) OptionalString(key, defaultValue string) string {
	if _, ok := a.opts[key]; !ok {
		return defaultValue
	}
	return a.String(key)
}

func (a *HookArgs) Int(key string) (_ int) {
	x, ok := a.opts[key]
	if !ok {
		a.error(fmt.Errorf("missing required argument %q", key))
		return
	}
	i, err := IntArg(x)
	if err != nil {
		a.error(fmt.Errorf("argument %q: %w", key, err))
		return
	}
	return i
}

func (a *HookArgs) OptionalInt(key string, defaultValue int) int {
	if _, ok := a.opts[key]; !ok {
		return defaultValue
	}
	return a.Int(key)
}

func (a *HookArgs) OptionalBool(key string, defaultValue bool) bool {
	x, ok := a.opts[key]
	if !ok {
		return defaultValue
	}
	b, err := BoolArg(x)
	if err != nil {
		a.error(fmt.Errorf("argument %q: %w", key, err))
		return defaultValue
	}
	return b
}

// Err returns the accumulated argument errors, if any.
func (a *HookArgs) Err() error {
	if len(a.errs) == 0 {
		return nil
	}
	msgs := make([]string, len(a.errs))
	for i, err := range a.errs {
		msgs[i] = err.Error()
	}
	return errors.New(strings.Join(msgs, ", "))
}

func (a *HookArgs) error(err error) {
	a.errs = append(a.errs, err)
}
