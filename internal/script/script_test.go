package script

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdoor/internal/demo"
	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/house"
)

const lobbyScript = `
name: lobby
invokers:
  - name: alice
    permissions: ["demo.*"]
  - name: bob
    permissions: ["demo.room"]
channels:
  - name: lobby
    members: [alice, bob]
steps:
  - as: alice
    run: sum 2 40
    expect: ["42"]
  - as: bob
    run: sum 2 40
    expect: ["Permission required not granted."]
  - as: bob
    in: lobby
    run: /shout hello
    expect: ["[bob] hello"]
  - as: alice
    run: repeat 50 x
    fails: true
  - as: alice
    run: teleport home
    unknown: true
  - as: alice
    run: whoami
`

func newHouse(t *testing.T, settings *doortypes.Settings) *house.House {
	t.Helper()
	h := house.New(house.WithSettings(settings))
	require.NoError(t, demo.RegisterInterpreters(h.Interpreters()))
	descriptors, err := demo.Lookup(demo.ModuleIDs())
	require.NoError(t, err)
	for _, d := range descriptors {
		_, err := h.Load(d)
		require.NoError(t, err)
	}
	return h
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(lobbyScript))
	require.NoError(t, err)

	assert.Equal(t, "lobby", s.Name)
	assert.Len(t, s.Invokers, 2)
	assert.Equal(t, []string{"alice", "bob"}, s.Channels[0].Members)
	require.Len(t, s.Steps, 6)
	assert.Equal(t, "lobby", s.Steps[2].In)
	assert.True(t, s.Steps[3].Fails)
	assert.True(t, s.Steps[4].Unknown)
	assert.Nil(t, s.Steps[5].Expect)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{
			name:    "unknown field",
			script:  "steps:\n  - as: a\n    command: x\n",
			wantErr: "field command not found",
		},
		{
			name:    "unknown invoker",
			script:  "steps:\n  - as: ghost\n    run: x\n",
			wantErr: `unknown invoker "ghost"`,
		},
		{
			name:    "unknown channel",
			script:  "invokers: [{name: a}]\nsteps:\n  - as: a\n    in: void\n    run: x\n",
			wantErr: `unknown channel "void"`,
		},
		{
			name:    "unknown member",
			script:  "channels: [{name: c, members: [ghost]}]\n",
			wantErr: `unknown member "ghost"`,
		},
		{
			name:    "empty step",
			script:  "invokers: [{name: a}]\nsteps:\n  - as: a\n",
			wantErr: "nothing to run",
		},
		{
			name:    "duplicate invoker",
			script:  "invokers: [{name: a}, {name: a}]\n",
			wantErr: `invoker "a" declared twice`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.script))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invokers: [{name: a}]\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_MemoryFilesystem(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/scripts/lobby.yaml", []byte(lobbyScript), 0o600))
	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	defer stubs.Reset()

	s, err := Load("/scripts/lobby.yaml")
	require.NoError(t, err)
	assert.Equal(t, "lobby", s.Name)
	assert.Len(t, s.Steps, 6)
}

func TestRunner_Run(t *testing.T) {
	s, err := Parse([]byte(lobbyScript))
	require.NoError(t, err)

	report, err := NewRunner(newHouse(t, nil)).Run(s)
	require.NoError(t, err)
	require.Len(t, report.Results, 6)

	for _, res := range report.Results {
		assert.True(t, res.Passed(), "step %d: %s", res.Step, res.Problem)
	}
	assert.True(t, report.Passed())
	// only the invoker's own messages are captured
	assert.Equal(t, []string{"[bob] hello"}, report.Results[2].Actual)
}

func TestRunner_Mismatch(t *testing.T) {
	s, err := Parse([]byte(`
invokers: [{name: alice, permissions: ["*"]}]
steps:
  - as: alice
    run: repeat 2 hi
    expect: ["hi", "ho"]
  - as: alice
    run: sum 1 1
    expect: []
  - as: alice
    run: nothing
  - as: alice
    run: sum 1
    fails: true
`))
	require.NoError(t, err)

	report, err := NewRunner(newHouse(t, nil)).Run(s)
	require.NoError(t, err)

	failed := report.Failed()
	require.Len(t, failed, 4)
	assert.Equal(t, "output mismatch", failed[0].Problem)
	assert.Equal(t, "  hi\n- ho\n+ hi\n", failed[0].Diff)
	assert.Equal(t, []string{"2"}, failed[1].Actual)
	assert.Equal(t, `unknown command "nothing"`, failed[2].Problem)
	assert.Equal(t, "expected the handler to fail", failed[3].Problem)

	var out bytes.Buffer
	WriteReport(&out, report)
	assert.Contains(t, out.String(), "FAIL step 1 (alice): repeat 2 hi")
	assert.Contains(t, out.String(), "  - ho")
	assert.Contains(t, out.String(), "0/4 steps passed")
}

func TestRunner_StripsANSI(t *testing.T) {
	settings := doortypes.DefaultSettings()
	settings.InvalidArgumentPrefix = "\x1b[31m"
	settings.ErrorPrefix = "\x1b[0m"

	s, err := Parse([]byte(`
invokers: [{name: alice, permissions: ["*"]}]
steps:
  - as: alice
    run: sum x
    expect: ["Usage: sum <a> [b=0]"]
`))
	require.NoError(t, err)

	report, err := NewRunner(newHouse(t, settings)).Run(s)
	require.NoError(t, err)
	assert.True(t, report.Passed(), report.Results[0].Diff)
}

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff("same", "same"))
	assert.Equal(t, "  a\n- b\n+ c\n", Diff("a\nb", "a\nc"))
	assert.Equal(t, "+ extra\n", Diff("", "extra"))
}
