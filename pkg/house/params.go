package house

// ParamSpec declares how one handler argument is bound. The argument's type comes
// from the handler function itself; a ParamSpec only adds the name and the binding mode.
type ParamSpec struct {
	name        string
	optional    bool
	def         any
	nullable    bool
	defaultText string
	glob        bool
}

// Arg declares a required argument.
func Arg(name string) ParamSpec {
	return ParamSpec{name: name}
}

// Optional declares an argument that falls back to def when no token is left or
// the available token cannot be interpreted. def must be convertible to the
// argument's type.
func Optional(name string, def any) ParamSpec {
	return ParamSpec{name: name, optional: true, def: def}
}

// OptionalObject declares an optional argument that binds nil when missing. The
// argument must be of a nilable type, usually a pointer. display is shown as the
// default in usage strings.
func OptionalObject(name, display string) ParamSpec {
	return ParamSpec{name: name, optional: true, nullable: true, defaultText: display}
}

// Glob declares a string argument that absorbs every remaining token. It must be
// the last argument.
func Glob(name string) ParamSpec {
	return ParamSpec{name: name, glob: true}
}

// Name returns the declared argument name.
func (p ParamSpec) Name() string { return p.name }
