// Package shell hosts the command engine in an interactive ishell session. Every
// line that is not a shell builtin is split on whitespace and dispatched as the
// session's user, inside the session's room.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/charmbracelet/log"

	"frontdoor/internal/console"
	"frontdoor/internal/logger"
	"frontdoor/pkg/house"
)

// ErrUnknownCommand is returned by Execute when nothing is registered under the
// first word of the line.
var ErrUnknownCommand = errors.New("unknown command")

// Session binds an engine to the user typing at the terminal.
type Session struct {
	house  *house.House
	user   *console.User
	room   *console.Room
	logger *log.Logger
}

// NewSession creates a session for user. The user joins room, which is the
// channel every command runs in.
func NewSession(h *house.House, user *console.User, room *console.Room) *Session {
	room.AddMember(user)
	return &Session{house: h, user: user, room: room, logger: logger.NewStyledLogger("Shell")}
}

// User returns the session's invoker.
func (s *Session) User() *console.User { return s.user }

// Room returns the session's channel.
func (s *Session) Room() *console.Room { return s.room }

// ProcessInput handles a line that no shell builtin claimed.
func (s *Session) ProcessInput(c *ishell.Context) {
	if len(c.RawArgs) == 0 {
		return
	}

	rawInput := strings.TrimSpace(strings.Join(c.RawArgs, " "))
	// comment lines
	if strings.HasPrefix(rawInput, "#") {
		return
	}

	if err := s.Execute(rawInput); err != nil {
		s.logger.Error("Command failed", "command", rawInput, "error", err)
		c.Printf("Error: %s\n", err.Error())
		if errors.Is(err, ErrUnknownCommand) {
			c.Println("Type help for available commands")
		}
	}
}

// Execute dispatches one command line. A leading "/" on the command name is
// accepted and ignored.
func (s *Session) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.TrimPrefix(fields[0], "/")

	found, err := s.house.DispatchIn(name, s.user, s.room, fields[1:])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	return nil
}

// Attach installs the session on sh: unknown input is dispatched, help lists
// the engine's commands and tab completes command and branch names.
func (s *Session) Attach(sh *ishell.Shell) error {
	help, err := NewHelp(s.house, s.user)
	if err != nil {
		return err
	}

	sh.DeleteCmd("help")
	sh.AddCmd(&ishell.Cmd{
		Name: "help",
		Help: "list commands, or describe one: help <command>",
		Func: func(c *ishell.Context) {
			out, err := help.Render(strings.Join(c.Args, " "))
			if err != nil {
				c.Printf("Error: %s\n", err.Error())
				return
			}
			c.Print(out)
		},
	})
	sh.NotFound(s.ProcessInput)
	sh.CustomCompleter(NewCompleter(s.house.Registry()))
	return nil
}
