package demo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/house"
)

// Release tracks the version of an imaginary product and answers questions
// about semantic versions.
type Release struct {
	current *semver.Version
}

// Commands implements house.Module.
func (r *Release) Commands() []*house.Registration {
	meta := doortypes.Metadata{Permission: PermRelease, Description: "Work with semantic versions"}

	return []*house.Registration{
		house.Define("semver", meta).
			Branch("compare", r.compare, house.Arg("a"), house.Arg("b")).
			Branch("bump", r.bump, house.Arg("part"), house.Arg("version")).
			Branch("satisfies", r.satisfies, house.Arg("version"), house.Arg("constraint")).
			Branch("sort", r.sort, house.Glob("versions")),

		house.Define("release", doortypes.Metadata{Permission: PermRelease, Aliases: []string{"rel"}}).
			Branch("show", func(inv doortypes.Invoker) {
				doortypes.Sendf(inv, "current release: %s", r.current)
			}).
			Branch("set", func(inv doortypes.Invoker, v *semver.Version) {
				r.current = v
				doortypes.Sendf(inv, "current release: %s", r.current)
			}, house.Arg("version")).
			Branch("newer", func(inv doortypes.Invoker, v *semver.Version) {
				if v == nil {
					v = semver.MustParse("0.0.0")
				}
				if r.current.GreaterThan(v) {
					doortypes.Sendf(inv, "%s is newer than %s", r.current, v)
					return
				}
				doortypes.Sendf(inv, "%s is not newer than %s", r.current, v)
			}, house.OptionalObject("version", "0.0.0")),
	}
}

func (r *Release) compare(inv doortypes.Invoker, a, b *semver.Version) {
	op := "="
	switch a.Compare(b) {
	case -1:
		op = "<"
	case 1:
		op = ">"
	}
	doortypes.Sendf(inv, "%s %s %s", a, op, b)
}

func (r *Release) bump(inv doortypes.Invoker, part string, v *semver.Version) {
	var next semver.Version
	switch strings.ToLower(part) {
	case "major":
		next = v.IncMajor()
	case "minor":
		next = v.IncMinor()
	case "patch":
		next = v.IncPatch()
	default:
		doortypes.Sendf(inv, "Unknown part %q. Parts are: major, minor, patch", part)
		return
	}
	doortypes.Sendf(inv, "%s -> %s", v, &next)
}

func (r *Release) satisfies(inv doortypes.Invoker, v *semver.Version, c *semver.Constraints) {
	ok, errs := c.Validate(v)
	if ok {
		doortypes.Sendf(inv, "%s satisfies %s", v, c)
		return
	}
	reasons := make([]string, 0, len(errs))
	for _, err := range errs {
		reasons = append(reasons, err.Error())
	}
	doortypes.Sendf(inv, "%s does not satisfy %s: %s", v, c, strings.Join(reasons, "; "))
}

func (r *Release) sort(inv doortypes.Invoker, versions string) error {
	fields := strings.Fields(versions)
	collection := make(semver.Collection, 0, len(fields))
	for _, f := range fields {
		v, err := semver.NewVersion(f)
		if err != nil {
			return fmt.Errorf("version %q: %w", f, err)
		}
		collection = append(collection, v)
	}
	sort.Sort(collection)

	sorted := make([]string, len(collection))
	for i, v := range collection {
		sorted[i] = v.String()
	}
	inv.SendMessage(strings.Join(sorted, " "))
	return nil
}
