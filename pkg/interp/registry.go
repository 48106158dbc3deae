// Package interp maps semantic types to interpreters, the functions that turn one raw
// text token into a typed value.
//
// A Registry is owned by one engine and is not safe for concurrent mutation. Register
// every custom interpreter before loading the modules that depend on it.
package interp

import (
	"fmt"
	"reflect"
	"sort"

	"frontdoor/pkg/doortypes"
)

// Interpreter converts a raw token. Malformed input yields a
// *doortypes.InterpretationError.
type Interpreter func(input string) (any, error)

// Registry stores at most one interpreter per type.
type Registry struct {
	interpreters map[reflect.Type]Interpreter
}

// NewEmptyRegistry creates a registry without any interpreters.
func NewEmptyRegistry() *Registry {
	return &Registry{
		interpreters: make(map[reflect.Type]Interpreter),
	}
}

// NewRegistry creates a registry pre-populated with the default interpreters.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	registerDefaults(r)
	return r
}

// Register binds fn to t. Binding a type twice is rejected.
func (r *Registry) Register(t reflect.Type, fn Interpreter) error {
	if t == nil {
		return fmt.Errorf("interpreter type cannot be nil")
	}
	if fn == nil {
		return fmt.Errorf("interpreter for %s cannot be nil", t)
	}
	if _, exists := r.interpreters[t]; exists {
		return fmt.Errorf("%s: %w", t, doortypes.ErrDuplicateInterpreter)
	}
	r.interpreters[t] = fn
	return nil
}

// Lookup returns the interpreter bound to t.
func (r *Registry) Lookup(t reflect.Type) (Interpreter, bool) {
	fn, ok := r.interpreters[t]
	return fn, ok
}

// Has reports whether t has an interpreter.
func (r *Registry) Has(t reflect.Type) bool {
	_, ok := r.interpreters[t]
	return ok
}

// Types returns every bound type sorted by name.
func (r *Registry) Types() []reflect.Type {
	types := make([]reflect.Type, 0, len(r.interpreters))
	for t := range r.interpreters {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
	return types
}

// TypeOf returns the type tag for T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Register binds a typed conversion function to T.
func Register[T any](r *Registry, fn func(string) (T, error)) error {
	if fn == nil {
		return fmt.Errorf("interpreter for %s cannot be nil", TypeOf[T]())
	}
	return r.Register(TypeOf[T](), func(input string) (any, error) {
		return fn(input)
	})
}

// Lookup returns the interpreter bound to T as a typed function.
func Lookup[T any](r *Registry) (func(string) (T, error), bool) {
	fn, ok := r.Lookup(TypeOf[T]())
	if !ok {
		return nil, false
	}
	return func(input string) (T, error) {
		var zero T
		v, err := fn(input)
		if err != nil {
			return zero, err
		}
		typed, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("interpreter for %s returned %T", TypeOf[T](), v)
		}
		return typed, nil
	}, true
}
