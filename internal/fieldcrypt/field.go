// Package fieldcrypt maps clipshare domain objects to sets of independently
// encrypted fields and reconstructs them from rows that may be only partly
// decryptable.
//
// Each field is opened on its own. A failure is converted into a Field state
// right where it happens and never stops the sibling fields or the sibling
// items from being decoded.
package fieldcrypt

// Status describes how a Field value was obtained.
type Status int

const (
	// StatusAbsent: the column was NULL, the field was never set.
	StatusAbsent Status = iota
	// StatusOK: the envelope was decrypted and parsed.
	StatusOK
	// StatusUnavailable: decryption failed and the field has no other source;
	// Value holds a clearly labeled placeholder.
	StatusUnavailable
	// StatusFallback: decryption failed and Value comes from a less precise
	// cleartext source of the row.
	StatusFallback
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	case StatusFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Field is the per-field decode result.
type Field[T any] struct {
	Value  T
	Status Status
}

// Ok wraps a successfully decrypted value.
func Ok[T any](v T) Field[T] { return Field[T]{Value: v, Status: StatusOK} }

// Unavailable marks a failed field, carrying a placeholder value.
func Unavailable[T any](placeholder T) Field[T] {
	return Field[T]{Value: placeholder, Status: StatusUnavailable}
}

// Fallback marks a failed field whose value was recovered elsewhere.
func Fallback[T any](v T) Field[T] { return Field[T]{Value: v, Status: StatusFallback} }

// Absent marks a field that was never set.
func Absent[T any]() Field[T] { return Field[T]{Status: StatusAbsent} }

// OK reports whether the field decrypted successfully.
func (f Field[T]) OK() bool { return f.Status == StatusOK }

// Failed reports whether the field was present but could not be decrypted.
func (f Field[T]) Failed() bool {
	return f.Status == StatusUnavailable || f.Status == StatusFallback
}

// Present reports whether the row carried the field at all.
func (f Field[T]) Present() bool { return f.Status != StatusAbsent }
