package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldV, oldSHA, oldBT := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldV, oldSHA, oldBT })

	Version, GitSHA, BuildTime = "0.3.1", "0123456789abcdef", "2026-10-19T09:00:00Z"
	assert.Equal(t, "shapegrid 0.3.1 (0123456, built 2026-10-19T09:00:00Z)", String())

	GitSHA = "abc"
	assert.Equal(t, "shapegrid 0.3.1 (abc, built 2026-10-19T09:00:00Z)", String())
}
