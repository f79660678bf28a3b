package cli

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/clipshare/internal/fieldcrypt"
	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "5 B", formatSize(fieldcrypt.Ok[int64](5)))
	assert.Equal(t, "1.0 KiB", formatSize(fieldcrypt.Ok[int64](1024)))
	assert.Equal(t, "2.5 MiB", formatSize(fieldcrypt.Ok[int64](5<<19)))
	assert.Equal(t, "unknown size", formatSize(fieldcrypt.Unavailable[int64](0)))
	assert.Equal(t, "unknown size", formatSize(fieldcrypt.Absent[int64]()))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "one line", preview("one line"))
	assert.Equal(t, "first …", preview("first\nsecond"))
	assert.Equal(t, "first", preview("first\n  "))

	long := preview(strings.Repeat("ж", 100))
	assert.True(t, strings.HasSuffix(long, "…"))
	assert.LessOrEqual(t, len([]rune(long)), previewWidth)

	// wide runes take two cells
	wide := preview(strings.Repeat("漢", 40))
	assert.LessOrEqual(t, len([]rune(wide)), previewWidth/2)
}
