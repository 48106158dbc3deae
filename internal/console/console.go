// Package console provides the Invoker and Channel implementations used by the
// command line hosts. An invoker writes its messages to an io.Writer; a room is
// a plain member list that fans messages out.
package console

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"

	"frontdoor/pkg/doortypes"
)

// Wildcard grants every permission node.
const Wildcard = "*"

// User is an invoker backed by a writer.
type User struct {
	id          uuid.UUID
	name        string
	out         io.Writer
	prefix      string
	permissions []string
}

// NewUser creates a user writing to out. Permission nodes may end in ".*" to
// grant a whole subtree, or be "*" to grant everything.
func NewUser(name string, out io.Writer, permissions ...string) *User {
	return &User{
		id:          uuid.New(),
		name:        name,
		out:         out,
		permissions: permissions,
	}
}

// ID returns the user's UUID in its canonical form.
func (u *User) ID() string { return u.id.String() }

// UUID returns the user's identifier.
func (u *User) UUID() uuid.UUID { return u.id }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// SetPrefix sets a string written before every message, e.g. "[alice] ".
func (u *User) SetPrefix(prefix string) { u.prefix = prefix }

// SendMessage writes message followed by a newline.
func (u *User) SendMessage(message string) {
	fmt.Fprintln(u.out, u.prefix+message)
}

// HasPermission reports whether node is granted exactly, by a "prefix.*" entry
// or by the wildcard.
func (u *User) HasPermission(node string) bool {
	for _, p := range u.permissions {
		switch {
		case p == Wildcard, p == node:
			return true
		case strings.HasSuffix(p, ".*") && strings.HasPrefix(node, strings.TrimSuffix(p, "*")):
			return true
		}
	}
	return false
}

// Grant adds permission nodes.
func (u *User) Grant(nodes ...string) {
	for _, n := range nodes {
		if !slices.Contains(u.permissions, n) {
			u.permissions = append(u.permissions, n)
		}
	}
}

// Revoke removes permission nodes.
func (u *User) Revoke(nodes ...string) {
	u.permissions = slices.DeleteFunc(u.permissions, func(p string) bool {
		return slices.Contains(nodes, p)
	})
}

// Permissions returns the granted nodes.
func (u *User) Permissions() []string { return slices.Clone(u.permissions) }

// Room is a channel whose messages reach every member.
type Room struct {
	id      uuid.UUID
	name    string
	members []doortypes.Invoker
}

// NewRoom creates an empty room.
func NewRoom(name string) *Room {
	return &Room{id: uuid.New(), name: name}
}

// ID returns the room's UUID in its canonical form.
func (r *Room) ID() string { return r.id.String() }

// Name returns the room name.
func (r *Room) Name() string { return r.name }

// SendMessage delivers message to every member.
func (r *Room) SendMessage(message string) {
	for _, m := range r.members {
		m.SendMessage(message)
	}
}

// Members yields the current members.
func (r *Room) Members() iter.Seq[doortypes.Invoker] { return slices.Values(r.members) }

// AddMember adds inv unless it already is a member.
func (r *Room) AddMember(inv doortypes.Invoker) {
	if slices.ContainsFunc(r.members, sameInvoker(inv)) {
		return
	}
	r.members = append(r.members, inv)
}

// RemoveMember removes inv.
func (r *Room) RemoveMember(inv doortypes.Invoker) {
	r.members = slices.DeleteFunc(r.members, sameInvoker(inv))
}

// MemberCount returns the number of members.
func (r *Room) MemberCount() int { return len(r.members) }

func sameInvoker(inv doortypes.Invoker) func(doortypes.Invoker) bool {
	return func(m doortypes.Invoker) bool { return m.ID() == inv.ID() }
}
