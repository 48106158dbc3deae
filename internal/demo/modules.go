// Package demo ships the modules loaded by the door CLI. Between them they use
// every binding mode the engine offers: required, optional and nullable
// arguments, globs, custom interpreters, branches and channel-aware handlers.
package demo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/house"
)

// Permission nodes used by the demo modules.
const (
	PermBasic   = "demo.basic"
	PermIDs     = "demo.ids"
	PermRelease = "demo.release"
	PermRoom    = "demo.room"
)

// Descriptors returns every demo module, keyed by ID.
func Descriptors() map[string]house.Descriptor {
	all := []house.Descriptor{
		{ID: "demo.basic", New: func() any { return &Basic{} }},
		{ID: "demo.ids", New: func() any { return &Identifiers{newID: uuid.New} }},
		{ID: "demo.release", New: func() any { return &Release{current: semver.MustParse("0.1.0")} }},
		{ID: "demo.room", New: func() any { return &Room{} }},
	}

	byID := make(map[string]house.Descriptor, len(all))
	for _, d := range all {
		byID[d.ID] = d
	}
	return byID
}

// Lookup returns the descriptors for ids, failing on the first unknown one.
func Lookup(ids []string) ([]house.Descriptor, error) {
	known := Descriptors()
	descriptors := make([]house.Descriptor, 0, len(ids))
	for _, id := range ids {
		d, ok := known[id]
		if !ok {
			return nil, fmt.Errorf("unknown module %q (available: %s)", id, strings.Join(ModuleIDs(), ", "))
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// ModuleIDs returns the demo module IDs, sorted.
func ModuleIDs() []string {
	ids := make([]string, 0, 4)
	for id := range Descriptors() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Basic holds commands built on the default interpreters.
type Basic struct {
	counter int
}

// Commands implements house.Module.
func (b *Basic) Commands() []*house.Registration {
	meta := func(description string, aliases ...string) doortypes.Metadata {
		return doortypes.Metadata{Permission: PermBasic, Description: description, Aliases: aliases}
	}

	return []*house.Registration{
		house.Define("echo", meta("Repeat the text back", "say")).
			With(house.Glob("text")).
			Handle(func(inv doortypes.Invoker, text string) {
				inv.SendMessage(text)
			}),

		house.Define("sum", meta("Add two numbers")).
			With(house.Arg("a"), house.Optional("b", 0)).
			Handle(func(inv doortypes.Invoker, a, b int) {
				doortypes.Sendf(inv, "%d", a+b)
			}),

		house.Define("repeat", meta("Repeat the text a number of times")).
			With(house.Optional("times", 2), house.Glob("text")).
			Handle(func(inv doortypes.Invoker, times int, text string) error {
				if times < 1 || times > 10 {
					return fmt.Errorf("times must be between 1 and 10, got %d", times)
				}
				for range times {
					inv.SendMessage(text)
				}
				return nil
			}),

		house.Define("whoami", meta("Show who is invoking")).
			Handle(func(inv doortypes.Invoker) {
				doortypes.Sendf(inv, "%s (%s)", inv.Name(), inv.ID())
			}),

		house.Define("count", meta("Increment a counter kept by the module")).
			With(house.Optional("step", 1)).
			Handle(func(inv doortypes.Invoker, step int) {
				b.counter += step
				doortypes.Sendf(inv, "counter: %d", b.counter)
			}),

		house.Define("timer", meta("Describe a duration")).
			With(house.Arg("duration"), house.Optional("loud", false)).
			Handle(func(inv doortypes.Invoker, d time.Duration, loud bool) {
				msg := fmt.Sprintf("%s is %d seconds", d, int(d.Seconds()))
				if loud {
					msg = strings.ToUpper(msg)
				}
				inv.SendMessage(msg)
			}),

		house.Define("initial", meta("Show the code point of a character")).
			With(house.Arg("char")).
			Handle(func(inv doortypes.Invoker, r rune) {
				doortypes.Sendf(inv, "%c is U+%04X", r, r)
			}),

		house.Define("shutdown", doortypes.Metadata{Description: "Only operators may run this"}).
			Handle(func(inv doortypes.Invoker) {
				inv.SendMessage("shutting down")
			}),
	}
}

// Identifiers holds commands that take and produce UUIDs.
type Identifiers struct {
	newID func() uuid.UUID
}

// Commands implements house.Module.
func (m *Identifiers) Commands() []*house.Registration {
	meta := doortypes.Metadata{Permission: PermIDs}

	return []*house.Registration{
		house.Define("newid", meta).
			With(house.Optional("count", 1)).
			Handle(func(inv doortypes.Invoker, count int) error {
				if count < 1 || count > 20 {
					return fmt.Errorf("count must be between 1 and 20, got %d", count)
				}
				for range count {
					inv.SendMessage(m.newID().String())
				}
				return nil
			}),

		house.Define("inspect", meta).
			With(house.Arg("id")).
			Handle(func(inv doortypes.Invoker, id uuid.UUID) {
				doortypes.Sendf(inv, "%s: version %d, variant %s", id, id.Version(), id.Variant())
			}),

		house.Define("me", meta).
			With(house.OptionalObject("id", "yourself")).
			Handle(func(inv doortypes.Invoker, id *uuid.UUID) {
				if id == nil || id.String() == inv.ID() {
					inv.SendMessage("that is you")
					return
				}
				doortypes.Sendf(inv, "%s is someone else", id)
			}),
	}
}
