package house

import "frontdoor/pkg/doortypes"

// Module is implemented by every loadable module instance. Commands is called once
// per load and declares the handlers the module exposes.
type Module interface {
	Commands() []*Registration
}

// Descriptor declares a loadable module. ID identifies the module for bulk
// unregistration; New produces a fresh instance with no arguments.
type Descriptor struct {
	ID  string
	New func() any
}

// Registration is the declaration of one command, built with Define.
//
// A plain command is declared with Handle:
//
//	house.Define("give", doortypes.Metadata{Permission: "items.give"}).
//		With(house.Arg("item"), house.Optional("amount", 1)).
//		Handle(func(inv doortypes.Invoker, item string, amount int) { ... })
//
// A branching command is declared with Branch and has no handler of its own; the
// root only carries the shared metadata:
//
//	house.Define("warp", meta).
//		Branch("set", m.warpSet, house.Arg("name")).
//		Branch("list", m.warpList)
type Registration struct {
	name     string
	meta     doortypes.Metadata
	params   []ParamSpec
	handler  any
	branches []branch
}

type branch struct {
	token   string
	params  []ParamSpec
	handler any
}

// Define starts a registration for the command name.
func Define(name string, meta doortypes.Metadata) *Registration {
	return &Registration{name: name, meta: meta}
}

// With declares the handler's arguments, in order, after the invoker and channel.
// Without With every argument is required and named after its type.
func (r *Registration) With(params ...ParamSpec) *Registration {
	r.params = append(r.params, params...)
	return r
}

// Handle sets the handler. fn must be a function taking doortypes.Invoker (or an
// implementation of it) first, doortypes.Channel second when the metadata requires
// channel support, and then one argument per parameter. It may return an error.
func (r *Registration) Handle(fn any) *Registration {
	r.handler = fn
	return r
}

// Branch adds a sub-command selected by token and turns the registration into a
// branching root. Branches share the root's metadata.
func (r *Registration) Branch(token string, fn any, params ...ParamSpec) *Registration {
	r.branches = append(r.branches, branch{token: token, params: params, handler: fn})
	return r
}

// Name returns the command name being registered.
func (r *Registration) Name() string { return r.name }

// IsBranching reports whether the registration declares branches.
func (r *Registration) IsBranching() bool { return len(r.branches) > 0 }
