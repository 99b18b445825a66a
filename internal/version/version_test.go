package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldV, oldSHA, oldTime := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldV, oldSHA, oldTime })

	assert.Equal(t, "stripcam dev (commit unknown, built unknown)", String())

	Version, GitSHA, BuildTime = "v1.2.0", "abc123", "2026-01-02"
	assert.Equal(t, "stripcam v1.2.0 (commit abc123, built 2026-01-02)", String())
}
