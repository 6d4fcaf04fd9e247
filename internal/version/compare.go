package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// CheckConstraint checks that engineVersion satisfies the semver constraint a
// strategy declares in its engine_version field.
//
// Rules:
//   - An empty constraint accepts every engine
//   - If the engine version is "main" (development build), the check is skipped
//   - Otherwise the constraint is evaluated with the usual semver range syntax
//
// Examples:
//   - Engine 1.2.0, constraint ">=1.0.0" -> OK
//   - Engine 1.2.0, constraint "~1.2" -> OK
//   - Engine 2.0.0, constraint "^1.0.0" -> ERROR (version mismatch)
//   - Engine main, constraint ">=9.0.0" -> OK (dev build, skip check)
func CheckConstraint(engineVersion, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}

	// Strip 'v' prefix if present for consistency
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	if engineVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version constraint '%s'", constraint)
	}

	if !c.Check(engineSemver) {
		return errors.Newf(errors.ErrCodeVersionMismatch, "version mismatch: engine is %s but strategy requires %s", engineSemver.String(), constraint)
	}

	return nil
}
