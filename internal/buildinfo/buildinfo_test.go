package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	oldV, oldD, oldC := Version, Date, Commit
	defer func() { Version, Date, Commit = oldV, oldD, oldC }()

	Version, Date, Commit = "v1.2.3", "2025-01-01", "abc123"

	var buf bytes.Buffer
	Print(&buf, "clipshare")

	assert.Equal(t, "clipshare\nBuild version: v1.2.3\nBuild date: 2025-01-01\nBuild commit: abc123\n", buf.String())
}
