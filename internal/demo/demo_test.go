package demo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdoor/internal/testutils"
	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/house"
)

func newHouse(t *testing.T) *house.House {
	t.Helper()
	h := house.New()
	require.NoError(t, RegisterInterpreters(h.Interpreters()))

	descriptors, err := Lookup(ModuleIDs())
	require.NoError(t, err)
	for _, d := range descriptors {
		_, err := h.Load(d)
		require.NoError(t, err, d.ID)
	}
	return h
}

func run(t *testing.T, h *house.House, inv *testutils.MockInvoker, ch doortypes.Channel, line ...string) []string {
	t.Helper()
	// only report what this dispatch produced
	for _, ok := inv.NextMessage(); ok; _, ok = inv.NextMessage() {
	}

	found, err := h.DispatchIn(line[0], inv, ch, line[1:])
	require.NoError(t, err)
	require.True(t, found, line[0])

	var out []string
	for {
		msg, ok := inv.NextMessage()
		if !ok {
			return out
		}
		out = append(out, msg)
	}
}

func TestModules_LoadAll(t *testing.T) {
	h := newHouse(t)
	assert.Equal(t, []string{"demo.basic", "demo.ids", "demo.release", "demo.room"}, h.Modules())
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup([]string{"demo.basic", "demo.nope"})
	assert.ErrorContains(t, err, `unknown module "demo.nope"`)
}

func TestBasic(t *testing.T) {
	h := newHouse(t)
	inv := testutils.NewMockInvoker(PermBasic)

	tests := []struct {
		name string
		line []string
		want []string
	}{
		{name: "echo", line: []string{"echo", "hello", "world"}, want: []string{"hello world"}},
		{name: "alias", line: []string{"say", "hi"}, want: []string{"hi"}},
		{name: "sum", line: []string{"sum", "2", "40"}, want: []string{"42"}},
		{name: "sum default", line: []string{"sum", "2"}, want: []string{"2"}},
		{name: "sum bad", line: []string{"sum", "two"}, want: []string{"Usage: sum --><a> [b=0]"}},
		{name: "repeat", line: []string{"repeat", "3", "go"}, want: []string{"go", "go", "go"}},
		{name: "repeat default", line: []string{"repeat", "go", "team"}, want: []string{"go team", "go team"}},
		{name: "timer", line: []string{"timer", "1m30s"}, want: []string{"1m30s is 90 seconds"}},
		{name: "timer loud", line: []string{"timer", "2s", "true"}, want: []string{"2S IS 2 SECONDS"}},
		{name: "initial", line: []string{"initial", "A"}, want: []string{"A is U+0041"}},
		{name: "shutdown needs operator", line: []string{"shutdown"}, want: []string{"Permission required not granted."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, h, inv, nil, tt.line...))
		})
	}
}

func TestBasic_Counter(t *testing.T) {
	h := newHouse(t)
	inv := testutils.NewMockInvoker(PermBasic)

	assert.Equal(t, []string{"counter: 1"}, run(t, h, inv, nil, "count"))
	assert.Equal(t, []string{"counter: 6"}, run(t, h, inv, nil, "count", "5"))
}

func TestBasic_HandlerError(t *testing.T) {
	h := newHouse(t)
	inv := testutils.NewMockInvoker(PermBasic)

	found, err := h.Dispatch("repeat", inv, []string{"11", "x"})
	assert.True(t, found)
	assert.ErrorIs(t, err, doortypes.ErrHandlerInvocation)
}

func TestIdentifiers(t *testing.T) {
	fixed := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	h := house.New()
	require.NoError(t, RegisterInterpreters(h.Interpreters()))
	_, err := h.Load(house.Descriptor{ID: "demo.ids", New: func() any {
		return &Identifiers{newID: func() uuid.UUID { return fixed }}
	}})
	require.NoError(t, err)

	inv := testutils.NewMockInvoker(PermIDs)
	assert.Equal(t, []string{fixed.String(), fixed.String()}, run(t, h, inv, nil, "newid", "2"))
	assert.Equal(t, []string{fixed.String() + ": version 1, variant RFC4122"}, run(t, h, inv, nil, "inspect", fixed.String()))
	assert.Equal(t, []string{"Usage: inspect --><id>"}, run(t, h, inv, nil, "inspect", "nope"))

	assert.Equal(t, []string{"that is you"}, run(t, h, inv, nil, "me"))
	assert.Equal(t, []string{"that is you"}, run(t, h, inv, nil, "me", inv.ID()))
	assert.Equal(t, []string{fixed.String() + " is someone else"}, run(t, h, inv, nil, "me", fixed.String()))
}

func TestRelease(t *testing.T) {
	h := newHouse(t)
	inv := testutils.NewMockInvoker(PermRelease)

	tests := []struct {
		name string
		line []string
		want []string
	}{
		{name: "compare", line: []string{"semver", "compare", "1.2.3", "1.10.0"}, want: []string{"1.2.3 < 1.10.0"}},
		{name: "compare equal", line: []string{"semver", "compare", "v1.0", "1.0.0"}, want: []string{"1.0.0 = 1.0.0"}},
		{name: "bump minor", line: []string{"semver", "bump", "minor", "1.2.3"}, want: []string{"1.2.3 -> 1.3.0"}},
		{name: "bump unknown part", line: []string{"semver", "bump", "huge", "1.2.3"}, want: []string{`Unknown part "huge". Parts are: major, minor, patch`}},
		{name: "bad version", line: []string{"semver", "bump", "major", "one"}, want: []string{"Usage: semver bump <part> --><version>"}},
		{name: "satisfies", line: []string{"semver", "satisfies", "1.4.0", "^1.2"}, want: []string{"1.4.0 satisfies ^1.2"}},
		{name: "sort", line: []string{"semver", "sort", "1.10.0", "1.2.0", "0.9.1"}, want: []string{"0.9.1 1.2.0 1.10.0"}},
		{name: "unknown branch", line: []string{"semver", "explode"}, want: []string{"Invalid subcommand. Subcommands are: compare, bump, satisfies, sort"}},
		{name: "show", line: []string{"release", "show"}, want: []string{"current release: 0.1.0"}},
		{name: "newer than nothing", line: []string{"rel", "newer"}, want: []string{"0.1.0 is newer than 0.0.0"}},
		{name: "newer", line: []string{"rel", "newer", "0.2.0"}, want: []string{"0.1.0 is not newer than 0.2.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, h, inv, nil, tt.line...))
		})
	}
}

func TestRelease_Set(t *testing.T) {
	h := newHouse(t)
	inv := testutils.NewMockInvoker(PermRelease)

	assert.Equal(t, []string{"current release: 2.0.0"}, run(t, h, inv, nil, "release", "set", "2.0.0"))
	assert.Equal(t, []string{"current release: 2.0.0"}, run(t, h, inv, nil, "release", "show"))
}

func TestRoom(t *testing.T) {
	h := newHouse(t)
	alice := testutils.NewMockInvoker(PermRoom)
	bob := testutils.NewMockInvoker(PermRoom)
	room := testutils.NewMockChannel()

	run(t, h, alice, room, "room", "join")
	run(t, h, bob, room, "room", "join")
	assert.Equal(t, 2, room.MemberCount())

	run(t, h, bob, room, "shout", "hello", "there")
	assert.Equal(t, []string{
		alice.Name() + " joined",
		bob.Name() + " joined",
		"[" + bob.Name() + "] hello there",
	}, room.Broadcasts())

	assert.Equal(t, []string{"2 in " + room.Name() + ": " + alice.Name() + ", " + bob.Name()},
		run(t, h, alice, room, "who"))

	run(t, h, alice, room, "room", "leave")
	assert.Equal(t, 1, room.MemberCount())
}

func TestRoom_OutsideChannel(t *testing.T) {
	h := newHouse(t)
	inv := testutils.NewMockInvoker(PermRoom)

	assert.Equal(t, []string{"nobody is here"}, run(t, h, inv, nil, "members"))
}
