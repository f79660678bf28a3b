package fieldcrypt

import "time"

// Placeholders substituted for fields that cannot be decrypted. They are
// never empty so "empty" and "unreadable" stay distinguishable.
const (
	ContentPlaceholder  = "[Unable to decrypt]"
	FileNamePlaceholder = "[Encrypted File]"
	DefaultMimeType     = "application/octet-stream"
	AnonymousDeviceName = "Anonymous Device"
)

// timeLayout matches ISO-8601 with millisecond precision in UTC,
// e.g. 2025-01-01T00:00:00.000Z.
const timeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t the way timestamps are encrypted.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime parses a decrypted timestamp. Any RFC 3339 form is accepted.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
