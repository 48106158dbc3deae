// Package house loads command modules, keeps the command registry and dispatches
// invocations to the right handler.
//
// A House owns its interpreter registry, settings and command registry, so several
// independent engines can live in one process. All operations are synchronous and
// nothing runs in the background. A House is not safe for concurrent mutation:
// Load, Unload and interpreter registration must be serialized by the caller.
// Dispatching distinct commands concurrently is safe once the registry is no
// longer being mutated, as long as the handlers themselves are.
package house

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"frontdoor/internal/logger"
	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/interp"
)

// House is the command engine.
type House struct {
	settings     *doortypes.Settings
	interpreters *interp.Registry
	registry     *Registry
	modules      map[string]any
}

// Option configures a House.
type Option func(*House)

// WithSettings replaces the default message templates.
func WithSettings(settings *doortypes.Settings) Option {
	return func(h *House) {
		if settings != nil {
			h.settings = settings
		}
	}
}

// WithInterpreters replaces the default interpreter registry.
func WithInterpreters(interpreters *interp.Registry) Option {
	return func(h *House) {
		if interpreters != nil {
			h.interpreters = interpreters
		}
	}
}

// WithRegistry replaces the default command registry.
func WithRegistry(registry *Registry) Option {
	return func(h *House) {
		if registry != nil {
			h.registry = registry
		}
	}
}

// New creates an engine with default settings, the default interpreters and an
// empty registry unless overridden by opts.
func New(opts ...Option) *House {
	h := &House{
		settings:     doortypes.DefaultSettings(),
		interpreters: interp.NewRegistry(),
		registry:     NewRegistry(),
		modules:      make(map[string]any),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Settings returns the message templates in use.
func (h *House) Settings() *doortypes.Settings { return h.settings }

// Interpreters returns the interpreter registry. Register custom interpreters
// before loading the modules that need them.
func (h *House) Interpreters() *interp.Registry { return h.interpreters }

// Registry returns the command registry.
func (h *House) Registry() *Registry { return h.registry }

// Load instantiates the module described by d, validates every handler it declares
// and registers the resulting commands. Nothing is registered when any handler is
// invalid; every problem found is reported in the returned error.
func (h *House) Load(d Descriptor) (any, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("descriptor without ID: %w", doortypes.ErrNotAModule)
	}
	if _, loaded := h.modules[d.ID]; loaded {
		return nil, fmt.Errorf("module %s: %w", d.ID, doortypes.ErrModuleLoaded)
	}

	inst, err := construct(d)
	if err != nil {
		return nil, err
	}
	mod, ok := inst.(Module)
	if !ok {
		return nil, fmt.Errorf("module %s: %T does not declare commands: %w", d.ID, inst, doortypes.ErrNotAModule)
	}

	b := &builder{module: d.ID, interpreters: h.interpreters, settings: h.settings}
	var result *multierror.Error
	var commands []doortypes.Command
	for _, reg := range mod.Commands() {
		cmd, err := b.build(reg)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		commands = append(commands, cmd)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("module %s: %w", d.ID, err)
	}

	// overrides replace entries of other modules, so undo by restoring the table
	before := h.registry.snapshot()
	for _, cmd := range commands {
		if err := h.registry.Register(cmd); err != nil {
			h.registry.restore(before)
			return nil, fmt.Errorf("module %s: %w", d.ID, err)
		}
	}

	h.modules[d.ID] = inst
	logger.Info("Loaded module", "module", d.ID, "commands", len(commands))
	return inst, nil
}

// construct runs the descriptor's constructor, turning a panic into an error.
func construct(d Descriptor) (inst any, err error) {
	if d.New == nil {
		return nil, fmt.Errorf("module %s: %w", d.ID, doortypes.ErrNoConstructor)
	}
	defer func() {
		if r := recover(); r != nil {
			inst = nil
			err = fmt.Errorf("module %s: constructor panicked: %v: %w", d.ID, r, doortypes.ErrNoConstructor)
		}
	}()

	inst = d.New()
	if inst == nil {
		return nil, fmt.Errorf("module %s: constructor returned nil: %w", d.ID, doortypes.ErrNoConstructor)
	}
	return inst, nil
}

// Unload unregisters every command owned by the module described by d.
func (h *House) Unload(d Descriptor) []string {
	return h.UnloadID(d.ID)
}

// UnloadID unregisters every command owned by the module id, including aliases,
// and returns the primary names removed. A primary name taken over by another
// module's command is not reported. Unknown modules yield an empty list.
func (h *House) UnloadID(id string) []string {
	unloaded := []string{}
	for _, cmd := range h.registry.Commands() {
		if cmd.OwningModule() != id {
			continue
		}
		if current, ok := h.registry.Get(cmd.Name()); ok && current == cmd {
			unloaded = append(unloaded, cmd.Name())
		}
		h.registry.Unregister(cmd)
	}

	if _, loaded := h.modules[id]; loaded {
		delete(h.modules, id)
		logger.Info("Unloaded module", "module", id, "commands", len(unloaded))
	}
	return unloaded
}

// Module returns the instance of a loaded module.
func (h *House) Module(id string) (any, bool) {
	inst, ok := h.modules[id]
	return inst, ok
}

// Modules returns the IDs of the loaded modules, sorted.
func (h *House) Modules() []string {
	ids := make([]string, 0, len(h.modules))
	for id := range h.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dispatch runs a command outside of any channel. See DispatchIn.
func (h *House) Dispatch(commandName string, inv doortypes.Invoker, args []string) (bool, error) {
	return h.DispatchIn(commandName, inv, doortypes.NullChannel, args)
}

// DispatchIn looks up commandName and executes it. It returns false only when no
// command is registered under that name. Permission, usage and sub-command
// failures are reported to the invoker; the returned error is reserved for
// configuration defects and handler failures.
func (h *House) DispatchIn(commandName string, inv doortypes.Invoker, ch doortypes.Channel, args []string) (bool, error) {
	cmd, ok := h.registry.Get(commandName)
	if !ok {
		return false, nil
	}
	if ch == nil {
		ch = doortypes.NullChannel
	}

	logger.CommandExecution(commandName, inv.ID(), args)
	return true, cmd.Execute(commandName, inv, ch, args)
}
