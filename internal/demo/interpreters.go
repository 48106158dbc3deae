package demo

import (
	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/interp"
)

// RegisterInterpreters adds the interpreters the demo modules need. It must run
// before the modules are loaded.
func RegisterInterpreters(reg *interp.Registry) error {
	if err := interp.Register(reg, parseUUID); err != nil {
		return err
	}
	if err := interp.Register(reg, parseVersion); err != nil {
		return err
	}
	return interp.Register(reg, parseConstraint)
}

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, doortypes.NewInterpretationError(s, `Non-UUID input: "%s"`, err)
	}
	return id, nil
}

func parseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, doortypes.NewInterpretationError(s, `Non-version input: "%s"`, err)
	}
	return v, nil
}

func parseConstraint(s string) (*semver.Constraints, error) {
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, doortypes.NewInterpretationError(s, `Non-constraint input: "%s"`, err)
	}
	return c, nil
}
