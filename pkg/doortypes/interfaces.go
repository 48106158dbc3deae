// Package doortypes defines the boundary contracts shared by the frontdoor command engine
// and the applications that embed it.
//
// The engine never owns invokers or channels. Hosts implement Invoker and Channel for
// whatever actually issues commands (a chat user, a console, a bot account) and hand
// them to house.House on every dispatch.
//
// # Package Organization
//
//   - interfaces.go: Identifiable, MessageReceiver, Invoker, Channel, NullChannel
//   - command_types.go: Metadata, Parameter and the Command contract
//   - settings.go: message templates used when a command reports a failure
//   - errors.go: error kinds returned for configuration and programming mistakes
package doortypes

import (
	"fmt"
	"iter"
	"reflect"
	"strings"
)

// Identifiable is anything that carries an ID. Names are optional and need not be unique.
type Identifiable interface {
	ID() string
	Name() string
}

// MessageReceiver can be sent a plain text message.
type MessageReceiver interface {
	SendMessage(message string)
}

// Invoker is an entity that can execute a command and receive messages.
type Invoker interface {
	Identifiable
	MessageReceiver
	HasPermission(node string) bool
}

// Channel is a broadcast group of invokers. Messages sent to a channel are
// expected to reach every member.
type Channel interface {
	Identifiable
	MessageReceiver
	// Members yields the current members. The sequence is not restartable
	// across mutation of the channel.
	Members() iter.Seq[Invoker]
	AddMember(inv Invoker)
	RemoveMember(inv Invoker)
	MemberCount() int
}

// NullChannel is used for invocations that happen outside of any channel.
var NullChannel Channel = nullChannel{}

type nullChannel struct{}

func (nullChannel) ID() string { return "" }
func (nullChannel) Name() string { return "" }
func (nullChannel) SendMessage(string) {}
func (nullChannel) Members() iter.Seq[Invoker] { return func(func(Invoker) bool) {} }
func (nullChannel) AddMember(Invoker) {}
func (nullChannel) RemoveMember(Invoker) {}
func (nullChannel) MemberCount() int { return 0 }

// Format renders a message template. Templates without a formatting verb are
// returned unchanged so that optional interpolation slots stay optional, apart
// from %% which always renders as a literal percent sign. Arguments beyond the
// template's verbs are dropped.
func Format(format string, args ...any) string {
	if len(args) == 0 || !strings.Contains(format, "%") {
		return format
	}
	verbs := countVerbs(format)
	if verbs == 0 {
		return strings.ReplaceAll(format, "%%", "%")
	}
	if len(args) > verbs {
		args = args[:verbs]
	}
	return fmt.Sprintf(format, args...)
}

// countVerbs counts the argument-consuming verbs of a printf template.
func countVerbs(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}

// Sendf formats a template with Format and sends it to r.
func Sendf(r MessageReceiver, format string, args ...any) {
	r.SendMessage(Format(format, args...))
}

// As casts an invoker to a concrete implementation. Hosts use it inside handlers
// to reach their own invoker type.
func As[T any](inv Invoker) (T, error) {
	if v, ok := inv.(T); ok {
		return v, nil
	}
	var zero T
	return zero, &CastError{Expected: reflect.TypeFor[T]().String(), Actual: fmt.Sprintf("%T", inv)}
}
