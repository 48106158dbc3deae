package shell

import (
	"sort"
	"strings"

	"frontdoor/pkg/house"
)

// Completer completes command names, and branch names after a branching command.
// It satisfies the readline AutoCompleter interface used by ishell.
type Completer struct {
	registry *house.Registry
}

// NewCompleter creates a completer over registry.
func NewCompleter(registry *house.Registry) *Completer {
	return &Completer{registry: registry}
}

// Do returns the suffixes completing the word under the cursor and the length
// of that word.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	before := string(line[:pos])

	wordStart := strings.LastIndexByte(before, ' ') + 1
	current := before[wordStart:]
	words := strings.Fields(before[:wordStart])

	var candidates []string
	switch len(words) {
	case 0:
		for name := range c.registry.Registered() {
			candidates = append(candidates, name)
		}
	case 1:
		cmd, ok := c.registry.Get(strings.TrimPrefix(words[0], "/"))
		if !ok {
			return nil, 0
		}
		if branching, isBranching := cmd.(*house.BranchingCommand); isBranching {
			candidates = branching.Branches()
		}
	}
	sort.Strings(candidates)

	// a leading "/" is kept in the line, so it is not part of the completed prefix
	prefix := strings.TrimPrefix(current, "/")
	var suggestions [][]rune
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, prefix) {
			suggestions = append(suggestions, []rune(strings.TrimPrefix(candidate, prefix)+" "))
		}
	}
	return suggestions, len([]rune(prefix))
}
