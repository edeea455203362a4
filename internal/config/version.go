package config

import (
	"github.com/Masterminds/semver/v3"
)

// FormatVersion is the version of the configuration file format written by
// this package.
const FormatVersion = "1.0.0"

// Files of any 1.x format version are accepted.
var versionConstraint *semver.Constraints

func init() {
	var err error
	versionConstraint, err = semver.NewConstraint("^1.0.0")
	if err != nil {
		panic(err)
	}
}

// IsVersionCompatible reports whether a config file declaring version can
// be read. Invalid version strings are never compatible.
func IsVersionCompatible(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return versionConstraint.Check(v)
}
