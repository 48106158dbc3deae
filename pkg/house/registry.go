package house

import (
	"fmt"
	"maps"
	"sort"

	"frontdoor/internal/logger"
	"frontdoor/pkg/doortypes"
)

// Registry maps command names and aliases to commands.
//
// Registry has no locking. Register and Unregister must be serialized by the
// caller, typically by running them on the single command-processing goroutine;
// lookups on a registry that is no longer mutated are safe from any goroutine.
type Registry struct {
	commands map[string]doortypes.Command
}

// NewRegistry creates a new command registry with an empty command map.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]doortypes.Command),
	}
}

// Register installs cmd under its primary name and every alias. It fails when the
// primary name belongs to a different command and cmd does not override. Aliases
// already taken by a different command are skipped unless cmd overrides.
func (r *Registry) Register(cmd doortypes.Command) error {
	if cmd.Name() == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	meta := cmd.Metadata()
	if existing, exists := r.commands[cmd.Name()]; exists && existing != cmd && !meta.Override {
		return fmt.Errorf("%s: %w", cmd.Name(), doortypes.ErrAlreadyRegistered)
	}
	r.commands[cmd.Name()] = cmd

	for _, alias := range meta.Aliases {
		if existing, taken := r.commands[alias]; taken && existing != cmd && !meta.Override {
			logger.Debug("Alias already taken", "alias", alias, "command", cmd.Name(), "owner", existing.Name())
			continue
		}
		r.commands[alias] = cmd
	}

	logger.Debug("Registered command", "command", cmd.Name(), "module", cmd.OwningModule(), "aliases", meta.Aliases)
	return nil
}

// Unregister removes every entry that maps to cmd. Entries holding a different
// command with the same name are left alone.
func (r *Registry) Unregister(cmd doortypes.Command) {
	for name, registered := range r.commands {
		if registered == cmd {
			delete(r.commands, name)
		}
	}
}

// snapshot copies the name table so a failed batch of registrations can be undone.
func (r *Registry) snapshot() map[string]doortypes.Command {
	return maps.Clone(r.commands)
}

// restore puts back a table taken with snapshot.
func (r *Registry) restore(commands map[string]doortypes.Command) {
	r.commands = commands
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) (doortypes.Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// IsRegistered reports whether name or alias is taken.
func (r *Registry) IsRegistered(name string) bool {
	_, exists := r.commands[name]
	return exists
}

// Registered returns a snapshot of every name and alias mapped to the owning module.
func (r *Registry) Registered() map[string]string {
	snapshot := make(map[string]string, len(r.commands))
	for name, cmd := range r.commands {
		snapshot[name] = cmd.OwningModule()
	}
	return snapshot
}

// Commands returns the distinct registered commands sorted by primary name.
func (r *Registry) Commands() []doortypes.Command {
	seen := make(map[doortypes.Command]bool, len(r.commands))
	list := make([]doortypes.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		if seen[cmd] {
			continue
		}
		seen[cmd] = true
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
