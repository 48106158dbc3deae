// Package version holds the build information of the door binary. Version,
// GitCommit and BuildDate are set at link time:
//
//	go build -ldflags "-X frontdoor/internal/version.Version=1.2.0 -X frontdoor/internal/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Build information, overridden with -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   *semver.Version
	GitCommit string
	BuildDate string
	GoVersion string
	Platform  string
}

// Get parses the build information.
func Get() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}
	return &Info{
		Version:   sv,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}, nil
}

// String renders a one line summary, e.g. "door v0.1.0, commit 1a2b3c4".
func (i *Info) String() string {
	parts := []string{"door v" + i.Version.String()}
	if i.GitCommit != "unknown" && i.GitCommit != "" {
		commit := i.GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		parts = append(parts, "commit "+commit)
	}
	if i.BuildDate != "unknown" && i.BuildDate != "" {
		parts = append(parts, "built "+i.BuildDate)
	}
	return strings.Join(parts, ", ")
}

// Detailed renders every field on its own line.
func (i *Info) Detailed() string {
	lines := []string{
		i.String(),
		"Git Commit: " + i.GitCommit,
		"Build Date: " + i.BuildDate,
		"Go Version: " + i.GoVersion,
		"Platform: " + i.Platform,
	}
	if pre := i.Version.Prerelease(); pre != "" {
		lines = append(lines, "Prerelease: "+pre)
	}
	return strings.Join(lines, "\n")
}

// Formatted returns the one line summary, or a fallback when Version is not a
// semantic version.
func Formatted() string {
	info, err := Get()
	if err != nil {
		return fmt.Sprintf("door v%s (invalid version)", Version)
	}
	return info.String()
}

// Satisfies reports whether the running version matches constraint, e.g. ">= 0.1, < 1".
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint '%s': %w", constraint, err)
	}
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return false, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}
	return c.Check(sv), nil
}

// SetBuildInfo overrides the build information.
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}
