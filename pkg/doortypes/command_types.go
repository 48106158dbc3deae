package doortypes

import "reflect"

// DefaultPermission is the permission node applied when a command declares none.
const DefaultPermission = "operator.only"

// Metadata is the registration data attached to a command.
type Metadata struct {
	// Permission node the invoker must hold. Empty means DefaultPermission.
	Permission  string
	Description string
	// Usage overrides the synthesized usage entries, one per parameter.
	Usage   []string
	Aliases []string
	// Override lets the command replace existing registrations of its name and aliases.
	Override bool
	// RequiresChannel makes the handler receive the channel right after the invoker.
	RequiresChannel bool
}

// Parameter describes one bound argument slot of a command.
type Parameter struct {
	Name string
	// Type is the semantic type tag used to look up an interpreter.
	Type reflect.Type
	// Optional parameters fall back to Default when no usable token is left.
	Optional bool
	Default  any
	// Nullable optional parameters bind nil instead of a default value.
	Nullable bool
	// DefaultText is what usage shows for a nullable parameter.
	DefaultText string
	// Glob parameters absorb every remaining token as one space-joined string.
	Glob bool
}

// Command is one invokable unit.
//
// Execute reports every user-facing failure (missing permission, bad usage,
// unknown sub-command) as a message to the invoker and returns nil. A non-nil
// error always means a configuration or programming defect.
type Command interface {
	Name() string
	Metadata() Metadata
	OwningModule() string
	Parameters() []Parameter
	Usage() []string
	Execute(commandName string, inv Invoker, ch Channel, args []string) error
}
