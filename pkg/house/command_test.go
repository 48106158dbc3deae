package house

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdoor/internal/testutils"
	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/interp"
)

// buildOne builds a single registration against a default engine.
func buildOne(t *testing.T, reg *Registration) doortypes.Command {
	t.Helper()
	b := &builder{module: "mock.build", interpreters: interp.NewRegistry(), settings: doortypes.DefaultSettings()}
	cmd, err := b.build(reg)
	require.NoError(t, err)
	return cmd
}

func TestHouseCommand_Binding(t *testing.T) {
	type result struct {
		word string
		rest string
	}

	tests := []struct {
		name    string
		args    []string
		want    result
		wantMsg string
	}{
		{
			name: "optional consumed before glob",
			args: []string{"first", "second", "third"},
			want: result{word: "first", rest: "second third"},
		},
		{
			name: "only one token goes to the optional",
			args: []string{"only"},
			// the glob is required and nothing is left for it
			wantMsg: "Usage: bind [word=none] --><... rest ...>",
		},
		{
			name:    "nothing at all",
			args:    nil,
			wantMsg: "Usage: bind [word=none] <... rest ...>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got result
			cmd := buildOne(t, Define("bind", doortypes.Metadata{Permission: allowed}).
				With(Optional("word", "none"), Glob("rest")).
				Handle(func(_ doortypes.Invoker, word, rest string) {
					got = result{word: word, rest: rest}
				}))

			inv := testutils.NewMockInvoker(allowed)
			require.NoError(t, cmd.Execute("bind", inv, doortypes.NullChannel, tt.args))

			if tt.wantMsg != "" {
				msg, ok := inv.NextMessage()
				require.True(t, ok)
				assert.Equal(t, tt.wantMsg, msg)
				assert.Equal(t, result{}, got)
				return
			}
			assert.Equal(t, tt.want, got)
			assert.Empty(t, inv.Messages())
		})
	}
}

func TestHouseCommand_FailedOptionalLeavesTokenForGlob(t *testing.T) {
	var gotN int
	var gotRest string
	cmd := buildOne(t, Define("count", doortypes.Metadata{Permission: allowed}).
		With(Optional("n", 3), Glob("rest")).
		Handle(func(_ doortypes.Invoker, n int, rest string) {
			gotN, gotRest = n, rest
		}))

	inv := testutils.NewMockInvoker(allowed)
	require.NoError(t, cmd.Execute("count", inv, doortypes.NullChannel, []string{"apples", "and", "pears"}))
	assert.Equal(t, 3, gotN)
	assert.Equal(t, "apples and pears", gotRest)
}

func TestHouseCommand_ExtraTokensIgnored(t *testing.T) {
	var got string
	cmd := buildOne(t, Define("echo", doortypes.Metadata{Permission: allowed}).
		With(Arg("word")).
		Handle(func(_ doortypes.Invoker, word string) { got = word }))

	require.NoError(t, cmd.Execute("echo", testutils.NewMockInvoker(allowed), doortypes.NullChannel,
		[]string{"one", "two"}))
	assert.Equal(t, "one", got)
}

func TestHouseCommand_PointerFallback(t *testing.T) {
	var got *int
	cmd := buildOne(t, Define("ptr", doortypes.Metadata{Permission: allowed}).
		With(OptionalObject("n", "unset")).
		Handle(func(_ doortypes.Invoker, n *int) { got = n }))
	assert.Equal(t, []string{"[n=unset]"}, cmd.Usage())

	inv := testutils.NewMockInvoker(allowed)
	require.NoError(t, cmd.Execute("ptr", inv, doortypes.NullChannel, []string{"42"}))
	require.NotNil(t, got)
	assert.Equal(t, 42, *got)

	require.NoError(t, cmd.Execute("ptr", inv, doortypes.NullChannel, nil))
	assert.Nil(t, got)

	// a malformed token binds nil too
	got = new(int)
	require.NoError(t, cmd.Execute("ptr", inv, doortypes.NullChannel, []string{"forty-two"}))
	assert.Nil(t, got)
	assert.Empty(t, inv.Messages())
}

func TestHouseCommand_DefaultConversion(t *testing.T) {
	var got int64
	cmd := buildOne(t, Define("wide", doortypes.Metadata{Permission: allowed}).
		With(Optional("n", 5)).
		Handle(func(_ doortypes.Invoker, n int64) { got = n }))

	require.NoError(t, cmd.Execute("wide", testutils.NewMockInvoker(allowed), doortypes.NullChannel, nil))
	assert.Equal(t, int64(5), got)
}

func TestHouseCommand_CustomInterpreter(t *testing.T) {
	reg := interp.NewRegistry()
	require.NoError(t, interp.Register(reg, uuid.Parse))
	h := New(WithInterpreters(reg))

	var got uuid.UUID
	_, err := h.Load(descriptorFor("mock.uuid",
		Define("whois", doortypes.Metadata{Permission: allowed}).
			With(Arg("id")).
			Handle(func(_ doortypes.Invoker, id uuid.UUID) { got = id }),
	))
	require.NoError(t, err)

	id := uuid.New()
	inv := testutils.NewMockInvoker(allowed)
	found, err := h.Dispatch("whois", inv, []string{id.String()})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, got)

	_, err = h.Dispatch("whois", inv, []string{"not-a-uuid"})
	require.NoError(t, err)
	msg, ok := inv.NextMessage()
	require.True(t, ok)
	assert.Equal(t, "Usage: whois --><id>", msg)
}

func TestHouseCommand_ArityCheckBeforeBinding(t *testing.T) {
	calls := 0
	cmd := buildOne(t, Define("pair", doortypes.Metadata{Permission: allowed}).
		With(Arg("a"), Optional("b", time.Second), Arg("c")).
		Handle(func(doortypes.Invoker, string, time.Duration, string) { calls++ }))

	hc, ok := cmd.(*HouseCommand)
	require.True(t, ok)
	assert.Equal(t, 2, hc.MinArguments())

	inv := testutils.NewMockInvoker(allowed)
	require.NoError(t, cmd.Execute("pair", inv, doortypes.NullChannel, []string{"x"}))
	msg, ok := inv.NextMessage()
	require.True(t, ok)
	assert.Equal(t, "Usage: pair <a> [b=1s] <c>", msg)
	assert.Zero(t, calls)

	require.NoError(t, cmd.Execute("pair", inv, doortypes.NullChannel, []string{"x", "2m", "y"}))
	assert.Equal(t, 1, calls)
}

func TestHouseCommand_ExplicitUsage(t *testing.T) {
	cmd := buildOne(t, Define("say", doortypes.Metadata{
		Permission: allowed,
		Usage:      []string{"<words to say>"},
	}).With(Glob("words")).Handle(func(doortypes.Invoker, string) {}))

	assert.Equal(t, []string{"<words to say>"}, cmd.Usage())

	inv := testutils.NewMockInvoker(allowed)
	require.NoError(t, cmd.Execute("say", inv, doortypes.NullChannel, nil))
	msg, _ := inv.NextMessage()
	assert.Equal(t, "Usage: say <words to say>", msg)
}

func TestHouseCommand_CustomSettings(t *testing.T) {
	settings := &doortypes.Settings{
		ErrorPrefix:           "  ",
		InvalidArgumentPrefix: "!",
		UsageErrorFormat:      "usage> %s",
		PermissionError:       "denied",
	}
	b := &builder{module: "mock.settings", interpreters: interp.NewRegistry(), settings: settings}
	cmd, err := b.build(Define("add", doortypes.Metadata{Permission: allowed}).
		With(Arg("a"), Arg("b")).
		Handle(func(doortypes.Invoker, int, int) {}))
	require.NoError(t, err)

	inv := testutils.NewMockInvoker(allowed)
	require.NoError(t, cmd.Execute("add", inv, doortypes.NullChannel, []string{"1", "x"}))
	msg, _ := inv.NextMessage()
	assert.Equal(t, "usage> add   <a> !<b>", msg)
}

func TestHouseCommand_WrongInvokerType(t *testing.T) {
	cmd := buildOne(t, Define("typed", doortypes.Metadata{Permission: allowed}).
		Handle(func(*testutils.MockInvoker) {}))

	err := cmd.Execute("typed", &otherInvoker{}, doortypes.NullChannel, nil)
	assert.ErrorIs(t, err, doortypes.ErrHandlerInvocation)

	assert.NoError(t, cmd.Execute("typed", testutils.NewMockInvoker(allowed), doortypes.NullChannel, nil))
}

type otherInvoker struct{}

func (*otherInvoker) ID() string { return "other" }
func (*otherInvoker) Name() string { return "other" }
func (*otherInvoker) SendMessage(string) {}
func (*otherInvoker) HasPermission(string) bool { return true }
