package house

import (
	"strings"

	"frontdoor/pkg/doortypes"
)

// BranchingCommand routes to a sub-command chosen by the first argument. The root
// never runs a handler itself; it only carries the metadata shared by its branches.
type BranchingCommand struct {
	name     string
	module   string
	meta     doortypes.Metadata
	branches map[string]doortypes.Command
	tokens   []string
	listing  string
	settings *doortypes.Settings
}

func newBranchingCommand(name, module string, meta doortypes.Metadata, tokens []string,
	branches map[string]doortypes.Command, settings *doortypes.Settings) *BranchingCommand {
	return &BranchingCommand{
		name:     name,
		module:   module,
		meta:     meta,
		branches: branches,
		tokens:   tokens,
		listing:  strings.Join(tokens, ", "),
		settings: settings,
	}
}

// Name returns the primary name of the command.
func (b *BranchingCommand) Name() string { return b.name }

// Metadata returns the metadata shared by every branch.
func (b *BranchingCommand) Metadata() doortypes.Metadata { return b.meta }

// OwningModule returns the ID of the module that declared the command.
func (b *BranchingCommand) OwningModule() string { return b.module }

// Parameters is always empty; arguments belong to the branches.
func (b *BranchingCommand) Parameters() []doortypes.Parameter { return nil }

// Usage is always empty; arguments belong to the branches.
func (b *BranchingCommand) Usage() []string { return nil }

// Branches returns the branch tokens in declaration order.
func (b *BranchingCommand) Branches() []string {
	out := make([]string, len(b.tokens))
	copy(out, b.tokens)
	return out
}

// Branch returns the sub-command selected by token.
func (b *BranchingCommand) Branch(token string) (doortypes.Command, bool) {
	cmd, ok := b.branches[token]
	return cmd, ok
}

// Execute checks the root permission, resolves the branch from the first argument
// and forwards the rest of the arguments to it.
func (b *BranchingCommand) Execute(commandName string, inv doortypes.Invoker, ch doortypes.Channel, args []string) error {
	if !inv.HasPermission(b.meta.Permission) {
		doortypes.Sendf(inv, b.settings.PermissionError, b.meta.Permission)
		return nil
	}

	if len(args) < 1 {
		doortypes.Sendf(inv, b.settings.InvalidSubcommandError, b.listing)
		return nil
	}
	target, ok := b.branches[args[0]]
	if !ok {
		doortypes.Sendf(inv, b.settings.InvalidSubcommandError, b.listing)
		return nil
	}

	return target.Execute(commandName+" "+args[0], inv, ch, args[1:])
}
