package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	SetBuildInfo(version, commit, date)
	t.Cleanup(func() { SetBuildInfo(oldVersion, oldCommit, oldDate) })
}

func TestFormatted(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{name: "development build", version: "0.1.0", commit: "unknown", date: "unknown", want: "door v0.1.0"},
		{name: "release build", version: "1.2.3", commit: "0123456789abcdef", date: "2026-01-02", want: "door v1.2.3, commit 0123456, built 2026-01-02"},
		{name: "leading v", version: "v2.0.0", commit: "abc", date: "", want: "door v2.0.0, commit abc"},
		{name: "invalid version", version: "banana", commit: "unknown", date: "unknown", want: "door vbanana (invalid version)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, tt.version, tt.commit, tt.date)
			assert.Equal(t, tt.want, Formatted())
		})
	}
}

func TestDetailed(t *testing.T) {
	withBuildInfo(t, "1.0.0-rc.1", "unknown", "unknown")

	info, err := Get()
	require.NoError(t, err)
	detailed := info.Detailed()
	assert.Contains(t, detailed, "door v1.0.0-rc.1")
	assert.Contains(t, detailed, "Prerelease: rc.1")
	assert.Contains(t, detailed, "Platform: ")
}

func TestSatisfies(t *testing.T) {
	withBuildInfo(t, "0.3.1", "unknown", "unknown")

	ok, err := Satisfies(">= 0.3, < 1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Satisfies("^1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Satisfies("not a constraint")
	assert.Error(t, err)
}
