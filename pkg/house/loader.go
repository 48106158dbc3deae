package house

import (
	"fmt"
	"reflect"

	"frontdoor/internal/logger"
	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/interp"
)

var (
	invokerType = reflect.TypeFor[doortypes.Invoker]()
	channelType = reflect.TypeFor[doortypes.Channel]()
	errorType   = reflect.TypeFor[error]()
)

// builder turns registrations of one module into commands.
type builder struct {
	module       string
	interpreters *interp.Registry
	settings     *doortypes.Settings
}

func (b *builder) build(reg *Registration) (doortypes.Command, error) {
	if reg == nil {
		return nil, &doortypes.SignatureError{Command: "<nil>", Reason: "nil registration"}
	}
	if reg.name == "" {
		return nil, &doortypes.SignatureError{Command: "<unnamed>", Reason: "command name cannot be empty"}
	}

	meta := reg.meta
	if meta.Permission == "" {
		meta.Permission = doortypes.DefaultPermission
	}

	if !reg.IsBranching() {
		if reg.handler == nil {
			return nil, &doortypes.SignatureError{Command: reg.name, Reason: "no handler"}
		}
		return b.buildCommand(reg.name, meta, reg.params, reg.handler, true)
	}

	if reg.handler != nil {
		return nil, &doortypes.SignatureError{Command: reg.name, Reason: "a branching root cannot have its own handler"}
	}

	branches := make(map[string]doortypes.Command, len(reg.branches))
	tokens := make([]string, 0, len(reg.branches))
	for _, br := range reg.branches {
		if br.token == "" {
			return nil, &doortypes.SignatureError{Command: reg.name, Reason: "empty branch token"}
		}
		if _, dup := branches[br.token]; dup {
			return nil, &doortypes.SignatureError{Command: reg.name, Reason: fmt.Sprintf("duplicate branch %q", br.token)}
		}
		// branches synthesize their own usage; the root usage describes nothing bindable
		cmd, err := b.buildCommand(reg.name+" "+br.token, meta, br.params, br.handler, false)
		if err != nil {
			return nil, err
		}
		branches[br.token] = cmd
		tokens = append(tokens, br.token)
	}

	return newBranchingCommand(reg.name, b.module, meta, tokens, branches, b.settings), nil
}

// buildCommand validates the handler signature against the declared parameters.
func (b *builder) buildCommand(name string, meta doortypes.Metadata, specs []ParamSpec,
	handler any, explicitUsage bool) (*HouseCommand, error) {
	fail := func(format string, args ...any) (*HouseCommand, error) {
		return nil, &doortypes.SignatureError{Command: name, Reason: fmt.Sprintf(format, args...)}
	}

	fn := reflect.ValueOf(handler)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return fail("handler is a %T, not a function", handler)
	}
	ft := fn.Type()
	if ft.IsVariadic() {
		return fail("variadic handlers are not supported")
	}

	offset := 1
	if ft.NumIn() < 1 || !ft.In(0).Implements(invokerType) {
		return fail("missing Invoker as first argument")
	}
	if meta.RequiresChannel {
		offset = 2
		if ft.NumIn() < 2 || !ft.In(1).Implements(channelType) {
			return fail("missing Channel as second argument")
		}
	}
	if ft.NumOut() > 1 || (ft.NumOut() == 1 && ft.Out(0) != errorType) {
		return fail("handler may only return an error")
	}

	valueCount := ft.NumIn() - offset
	if specs == nil && valueCount > 0 {
		logger.Warn("Parameter names not declared, falling back to type names", "command", name)
		specs = make([]ParamSpec, valueCount)
	}
	if len(specs) != valueCount {
		return fail("declares %d parameters but the handler takes %d", len(specs), valueCount)
	}

	params := make([]doortypes.Parameter, 0, valueCount)
	minArguments := 0
	for i, spec := range specs {
		t := ft.In(offset + i)
		param := doortypes.Parameter{
			Name:        spec.name,
			Type:        t,
			Optional:    spec.optional,
			Nullable:    spec.nullable,
			DefaultText: spec.defaultText,
			Glob:        spec.glob,
		}
		if param.Name == "" {
			param.Name = typeDisplayName(t)
		}

		if spec.glob {
			if i != valueCount-1 {
				return fail("glob parameter %s must be the last parameter", param.Name)
			}
			if t.Kind() != reflect.String {
				return fail("glob parameter %s must be a string, not %s", param.Name, t)
			}
		} else if _, _, found := resolveInterpreter(b.interpreters, t); !found {
			return nil, fmt.Errorf("command %s: parameter %s of type %s: %w", name, param.Name, t, doortypes.ErrNoInterpreter)
		}

		switch {
		case spec.nullable:
			if !nilable(t) {
				return fail("optional object %s must be a pointer, interface, map or slice, not %s", param.Name, t)
			}
		case spec.optional:
			def, err := convertDefault(spec.def, t)
			if err != nil {
				return fail("default of %s: %v", param.Name, err)
			}
			param.Default = def
		default:
			minArguments++
		}

		params = append(params, param)
	}

	usage := synthesizeUsage(params)
	if explicitUsage && len(meta.Usage) > 0 {
		if len(meta.Usage) != len(params) {
			return fail("usage declares %d entries for %d parameters", len(meta.Usage), len(params))
		}
		usage = append([]string(nil), meta.Usage...)
	}

	return &HouseCommand{
		name:         name,
		module:       b.module,
		meta:         meta,
		handler:      fn,
		params:       params,
		usage:        usage,
		minArguments: minArguments,
		interpreters: b.interpreters,
		settings:     b.settings,
	}, nil
}

// convertDefault converts def to t. Numeric defaults convert between numeric kinds
// so that Optional("n", 5) works for an int64 argument.
func convertDefault(def any, t reflect.Type) (any, error) {
	if def == nil {
		if nilable(t) {
			return nil, nil
		}
		return nil, fmt.Errorf("nil default for %s", t)
	}

	v := reflect.ValueOf(def)
	if v.Type().AssignableTo(t) {
		return def, nil
	}
	if v.Type().ConvertibleTo(t) && sameFamily(v.Kind(), t.Kind()) {
		return v.Convert(t).Interface(), nil
	}
	return nil, fmt.Errorf("%T is not convertible to %s", def, t)
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
	return false
}

func sameFamily(a, b reflect.Kind) bool {
	return kindFamily(a) != 0 && kindFamily(a) == kindFamily(b)
}

func kindFamily(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	}
	return 0
}
