package house

import (
	"fmt"
	"reflect"
	"strings"

	"frontdoor/internal/logger"
	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/interp"
)

// HouseCommand is a command backed by a handler function. It binds raw tokens to
// the handler's arguments using the interpreters of its engine.
type HouseCommand struct {
	name         string
	module       string
	meta         doortypes.Metadata
	handler      reflect.Value
	params       []doortypes.Parameter
	usage        []string
	minArguments int

	interpreters *interp.Registry
	settings     *doortypes.Settings
}

// Name returns the primary name of the command.
func (c *HouseCommand) Name() string { return c.name }

// Metadata returns the registration metadata.
func (c *HouseCommand) Metadata() doortypes.Metadata { return c.meta }

// OwningModule returns the ID of the module that declared the command.
func (c *HouseCommand) OwningModule() string { return c.module }

// Parameters returns the bound argument slots, excluding invoker and channel.
func (c *HouseCommand) Parameters() []doortypes.Parameter { return c.params }

// Usage returns one usage entry per parameter.
func (c *HouseCommand) Usage() []string { return c.usage }

// MinArguments returns the number of tokens needed before binding is attempted.
func (c *HouseCommand) MinArguments() int { return c.minArguments }

// Execute checks permission, binds args and runs the handler.
func (c *HouseCommand) Execute(commandName string, inv doortypes.Invoker, ch doortypes.Channel, args []string) error {
	if !inv.HasPermission(c.meta.Permission) {
		doortypes.Sendf(inv, c.settings.PermissionError, c.meta.Permission)
		return nil
	}

	if len(args) < c.minArguments {
		// nothing specific to highlight, just show usage
		doortypes.Sendf(inv, c.settings.UsageErrorFormat, c.formatError(commandName, -1))
		return nil
	}

	values, errIndex, err := c.bind(args)
	if err != nil {
		return err
	}
	if errIndex >= 0 {
		doortypes.Sendf(inv, c.settings.UsageErrorFormat, c.formatError(commandName, errIndex))
		return nil
	}

	return c.invoke(inv, ch, values)
}

// bind walks the parameters with an independent token cursor. A non-negative
// index reports the parameter that could not be bound.
func (c *HouseCommand) bind(args []string) ([]reflect.Value, int, error) {
	values := make([]reflect.Value, len(c.params))
	cursor := 0

	for i, param := range c.params {
		if param.Glob {
			if cursor >= len(args) {
				return nil, i, nil
			}
			joined := strings.TrimSpace(strings.Join(args[cursor:], " "))
			values[i] = reflect.ValueOf(joined).Convert(param.Type)
			cursor = len(args)
			break
		}

		if cursor < len(args) {
			v, ok, err := c.interpret(param.Type, args[cursor])
			if err != nil {
				return nil, -1, err
			}
			if ok {
				values[i] = v
				cursor++
				continue
			}
			// the failed token stays in place for the next parameter
		}

		if !param.Optional {
			return nil, i, nil
		}
		values[i] = defaultValue(param)
	}

	return values, -1, nil
}

// interpret applies the interpreter for t to token. ok is false when the token is
// malformed; err is only set when t has no interpreter at all.
func (c *HouseCommand) interpret(t reflect.Type, token string) (reflect.Value, bool, error) {
	fn, viaPointer, found := resolveInterpreter(c.interpreters, t)
	if !found {
		return reflect.Value{}, false, fmt.Errorf("command %s: parameter type %s: %w", c.name, t, doortypes.ErrNoInterpreter)
	}

	raw, err := fn(token)
	if err != nil {
		logger.Debug("Argument rejected", "command", c.name, "type", t.String(), "token", token, "reason", err)
		return reflect.Value{}, false, nil
	}

	target := t
	if viaPointer {
		target = t.Elem()
	}
	v := reflect.ValueOf(raw)
	switch {
	case !v.IsValid():
		v = reflect.Zero(target)
	case v.Type().AssignableTo(target):
	case v.Type().ConvertibleTo(target):
		v = v.Convert(target)
	default:
		return reflect.Value{}, false, fmt.Errorf("command %s: interpreter for %s returned %s: %w",
			c.name, target, v.Type(), doortypes.ErrNoInterpreter)
	}

	if viaPointer {
		ptr := reflect.New(target)
		ptr.Elem().Set(v)
		return ptr, true, nil
	}
	return v, true, nil
}

func (c *HouseCommand) invoke(inv doortypes.Invoker, ch doortypes.Channel, values []reflect.Value) (err error) {
	fnType := c.handler.Type()
	in := make([]reflect.Value, 0, len(values)+2)

	invValue := reflect.ValueOf(inv)
	if !invValue.IsValid() || !invValue.Type().AssignableTo(fnType.In(0)) {
		return &doortypes.HandlerError{Command: c.name, Err: fmt.Errorf("invoker %T is not a %s", inv, fnType.In(0))}
	}
	in = append(in, invValue)

	if c.meta.RequiresChannel {
		chValue := reflect.ValueOf(ch)
		if !chValue.IsValid() || !chValue.Type().AssignableTo(fnType.In(1)) {
			return &doortypes.HandlerError{Command: c.name, Err: fmt.Errorf("channel %T is not a %s", ch, fnType.In(1))}
		}
		in = append(in, chValue)
	}
	in = append(in, values...)

	defer func() {
		if r := recover(); r != nil {
			err = &doortypes.HandlerError{Command: c.name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	out := c.handler.Call(in)
	if len(out) == 1 && !out[0].IsNil() {
		return &doortypes.HandlerError{Command: c.name, Err: out[0].Interface().(error)}
	}
	return nil
}

func defaultValue(param doortypes.Parameter) reflect.Value {
	if param.Nullable || param.Default == nil {
		return reflect.Zero(param.Type)
	}
	return reflect.ValueOf(param.Default)
}

// resolveInterpreter finds the interpreter for t. Pointer types without their own
// interpreter resolve through their element type.
func resolveInterpreter(reg *interp.Registry, t reflect.Type) (interp.Interpreter, bool, bool) {
	if fn, ok := reg.Lookup(t); ok {
		return fn, false, true
	}
	if t.Kind() == reflect.Pointer {
		if fn, ok := reg.Lookup(t.Elem()); ok {
			return fn, true, true
		}
	}
	return nil, false, false
}
