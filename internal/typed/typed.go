// Package typed implements the supplemented "typed parameter binding"
// target: a Go-native in-process Target that skips the CLI/JSON round trip
// of the subprocess runner by binding a run's argument tokens directly onto
// a typed struct via reflection, adapted from the teacher's
// factorsFrom/buildControlAs generic-reflection pattern.
package typed

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/marijaaleksic/taguchi-engine/internal/runner"
)

// tagKey is the struct tag naming the CLI argument a field binds to, e.g.
// `taguchi:"workers"` binds to the ArgToken with Key "--workers" or "-workers".
const tagKey = "taguchi"

// Bind populates a new value of P from args, matching each exported field's
// `taguchi:"name"` tag against an ArgToken whose Key equals "--name" or
// "-name" (dash prefix optional in the tag itself). Supported field kinds:
// string, the signed int kinds, float32/float64, and bool (flag presence).
// A matched field of any other kind, unsigned ints included, is an error.
func Bind[P any](args []runner.ArgToken) (P, error) {
	var out P
	v := reflect.ValueOf(&out).Elem()
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return out, fmt.Errorf("typed.Bind requires a struct type, got %s", t.Kind())
	}

	byKey := make(map[string]*string, len(args))
	for _, a := range args {
		byKey[trimDashes(a.Key)] = a.Value
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get(tagKey)
		if name == "" {
			continue
		}
		value, ok := byKey[trimDashes(name)]
		if !ok {
			continue
		}
		if err := setField(v.Field(i), field.Name, value); err != nil {
			return out, err
		}
	}
	return out, nil
}

func setField(fv reflect.Value, name string, value *string) error {
	switch fv.Kind() {
	case reflect.Bool:
		fv.SetBool(value == nil || *value != "false")
		return nil
	case reflect.String:
		if value == nil {
			return fmt.Errorf("field %s: flag-style argument cannot bind to a string field", name)
		}
		fv.SetString(*value)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value == nil {
			return fmt.Errorf("field %s: flag-style argument cannot bind to an int field", name)
		}
		n, err := strconv.ParseInt(*value, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		fv.SetInt(n)
		return nil
	case reflect.Float32, reflect.Float64:
		if value == nil {
			return fmt.Errorf("field %s: flag-style argument cannot bind to a float field", name)
		}
		f, err := strconv.ParseFloat(*value, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		fv.SetFloat(f)
		return nil
	default:
		return fmt.Errorf("field %s: unsupported kind %s for typed binding", name, fv.Kind())
	}
}

func trimDashes(s string) string {
	return strings.TrimLeft(s, "-")
}

// Func is the in-process equivalent of a subprocess target: given the typed
// parameters for one invocation, compute and return its observed metrics.
type Func[P any] func(ctx context.Context, params P) (map[string]float64, error)

// InProcessTarget adapts a typed Func into runner.Target, binding each
// invocation's argument tokens onto P before calling Run. verbose and env
// are accepted to satisfy the interface but otherwise unused: an in-process
// target has no separate stdout/stderr stream to show, and the environment
// map is not bound onto P, so a factor set only through envVar does not
// reach Run.
type InProcessTarget[P any] struct {
	Run Func[P]
}

// Invoke implements runner.Target.
func (t InProcessTarget[P]) Invoke(ctx context.Context, args []runner.ArgToken, env map[string]string, verbose bool) (map[string]float64, error) {
	params, err := Bind[P](args)
	if err != nil {
		return nil, fmt.Errorf("binding typed parameters: %w", err)
	}
	metrics, err := t.Run(ctx, params)
	if err != nil {
		// A typed in-process target failing is a genuine runtime error for
		// that run, recorded as an empty metric map rather than aborting
		// the whole experiment, mirroring ProcessRunner's policy for a
		// subprocess target's non-zero exit.
		return map[string]float64{}, nil
	}
	return metrics, nil
}
