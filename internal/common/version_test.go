package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	defer func() { Version, Build, GitCommit = origVersion, origBuild, origCommit }()

	Version = "1.2.3"
	Build = "2026-08-31"
	GitCommit = "abc1234"

	assert.Equal(t, "1.2.3 (build: 2026-08-31, commit: abc1234)", GetFullVersion())
}

func TestLoadVersionFromFileMissing(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	// No .version file next to the test binary: the compiled-in version wins.
	Version = "dev"
	assert.Equal(t, "dev", LoadVersionFromFile())
}
