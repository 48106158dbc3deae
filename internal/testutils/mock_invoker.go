package testutils

import (
	"iter"
	"slices"

	"frontdoor/pkg/doortypes"
)

// MockInvoker records every message it receives and grants a fixed set of permissions.
type MockInvoker struct {
	id          string
	name        string
	permissions map[string]bool
	messages    []string
	checked     []string
}

// NewMockInvoker creates an invoker holding the given permission nodes.
func NewMockInvoker(permissions ...string) *MockInvoker {
	m := &MockInvoker{
		id:          NextID(),
		permissions: make(map[string]bool),
	}
	m.name = "invoker-" + m.id[:8]
	for _, p := range permissions {
		m.permissions[p] = true
	}
	return m
}

// ID returns the invoker ID.
func (m *MockInvoker) ID() string { return m.id }

// Name returns the invoker name.
func (m *MockInvoker) Name() string { return m.name }

// SendMessage records message.
func (m *MockInvoker) SendMessage(message string) {
	m.messages = append(m.messages, message)
}

// HasPermission reports whether node was granted and records the check.
func (m *MockInvoker) HasPermission(node string) bool {
	m.checked = append(m.checked, node)
	return m.permissions[node]
}

// Grant adds permission nodes.
func (m *MockInvoker) Grant(nodes ...string) {
	for _, n := range nodes {
		m.permissions[n] = true
	}
}

// NextMessage pops the oldest unread message. ok is false when none is left.
func (m *MockInvoker) NextMessage() (string, bool) {
	if len(m.messages) == 0 {
		return "", false
	}
	msg := m.messages[0]
	m.messages = m.messages[1:]
	return msg, true
}

// Messages returns every unread message without consuming them.
func (m *MockInvoker) Messages() []string {
	return slices.Clone(m.messages)
}

// PermissionChecks returns every permission node that was checked.
func (m *MockInvoker) PermissionChecks() []string {
	return slices.Clone(m.checked)
}

// MockChannel broadcasts messages to its members and records them.
type MockChannel struct {
	id       string
	members  []doortypes.Invoker
	messages []string
}

// NewMockChannel creates a channel with the given members.
func NewMockChannel(members ...doortypes.Invoker) *MockChannel {
	return &MockChannel{id: NextID(), members: members}
}

// ID returns the channel ID.
func (c *MockChannel) ID() string { return c.id }

// Name returns the channel name.
func (c *MockChannel) Name() string { return "channel-" + c.id[:8] }

// SendMessage records message and delivers it to every member.
func (c *MockChannel) SendMessage(message string) {
	c.messages = append(c.messages, message)
	for _, inv := range c.members {
		inv.SendMessage(message)
	}
}

// Members yields the current members.
func (c *MockChannel) Members() iter.Seq[doortypes.Invoker] {
	return slices.Values(c.members)
}

// AddMember adds inv to the channel.
func (c *MockChannel) AddMember(inv doortypes.Invoker) {
	c.members = append(c.members, inv)
}

// RemoveMember removes every occurrence of inv.
func (c *MockChannel) RemoveMember(inv doortypes.Invoker) {
	c.members = slices.DeleteFunc(c.members, func(m doortypes.Invoker) bool { return m == inv })
}

// MemberCount returns the number of members.
func (c *MockChannel) MemberCount() int { return len(c.members) }

// Broadcasts returns every message sent to the channel.
func (c *MockChannel) Broadcasts() []string {
	return slices.Clone(c.messages)
}
