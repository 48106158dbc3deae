package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/house"
)

// Help renders the command list as markdown.
type Help struct {
	house    *house.House
	viewer   doortypes.Invoker
	renderer *glamour.TermRenderer
}

// NewHelp creates a help renderer for viewer, who only sees the commands they
// hold the permission for.
func NewHelp(h *house.House, viewer doortypes.Invoker, opts ...glamour.TermRendererOption) (*Help, error) {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle(), glamour.WithWordWrap(80)}
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Help{house: h, viewer: viewer, renderer: renderer}, nil
}

// Render renders the help for name, or the full command list when name is empty.
func (h *Help) Render(name string) (string, error) {
	md, err := h.Markdown(name)
	if err != nil {
		return "", err
	}
	rendered, err := h.renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}

// Markdown builds the help source.
func (h *Help) Markdown(name string) (string, error) {
	if name != "" {
		cmd, ok := h.house.Registry().Get(name)
		if !ok {
			return "", fmt.Errorf("%s: %w", name, ErrUnknownCommand)
		}
		var sb strings.Builder
		writeCommand(&sb, cmd)
		return sb.String(), nil
	}

	var sb strings.Builder
	sb.WriteString("# Commands\n\n")
	hidden := 0
	for _, cmd := range h.house.Registry().Commands() {
		if !h.viewer.HasPermission(cmd.Metadata().Permission) {
			hidden++
			continue
		}
		writeCommand(&sb, cmd)
	}
	if hidden > 0 {
		fmt.Fprintf(&sb, "_%d more commands need permissions you do not have._\n", hidden)
	}
	return sb.String(), nil
}

func writeCommand(sb *strings.Builder, cmd doortypes.Command) {
	meta := cmd.Metadata()
	fmt.Fprintf(sb, "## %s\n\n", cmd.Name())
	if meta.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", meta.Description)
	}

	if branching, ok := cmd.(*house.BranchingCommand); ok {
		for _, token := range branching.Branches() {
			sub, _ := branching.Branch(token)
			fmt.Fprintf(sb, "- `%s`\n", usageLine(sub.Name(), sub.Usage()))
		}
		sb.WriteString("\n")
	} else {
		fmt.Fprintf(sb, "- `%s`\n\n", usageLine(cmd.Name(), cmd.Usage()))
	}

	if len(meta.Aliases) > 0 {
		fmt.Fprintf(sb, "Aliases: %s\n\n", strings.Join(meta.Aliases, ", "))
	}
	fmt.Fprintf(sb, "Permission: `%s`\n\n", meta.Permission)
}

func usageLine(name string, usage []string) string {
	return strings.TrimSpace(name + " " + strings.Join(usage, " "))
}
