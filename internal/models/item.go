// Package models defines the clipshare domain objects and the storage row
// shapes exchanged with the relay. Rows carry only envelopes and the few
// cleartext columns the relay needs for routing.
package models

import "time"

// ItemKind classifies a shared clipboard entry.
type ItemKind string

const (
	ItemKindText ItemKind = "text"
	ItemKindCode ItemKind = "code"
	ItemKindFile ItemKind = "file"
)

// Valid reports whether k is one of the known kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindText, ItemKindCode, ItemKindFile:
		return true
	}
	return false
}

// Item is the plaintext metadata of a clipboard entry as composed on a device
// before it is encrypted. The file body travels separately (see filecrypt).
// Zero values mean "not set": empty strings, a nil FileSize and zero times are
// left out of the encrypted row.
type Item struct {
	// ID is the storage primary key (assigned by the writer, uuid).
	ID          string
	SessionCode string
	Kind        ItemKind
	// DeviceID identifies the originating device and is stored in clear.
	DeviceID string

	Content string

	FileName     string
	FileMimeType string
	FileSize     *int64

	CreatedAt time.Time
	UpdatedAt time.Time

	// DisplayID is the user-facing identifier, independent of ID.
	DisplayID string
}

// ItemRow is the storage shape of an item. Every *Encrypted column holds an
// independently produced envelope; nil means the field was never set.
type ItemRow struct {
	ID          string    `json:"id"`
	SessionCode string    `json:"session_code"`
	Kind        ItemKind  `json:"kind"`
	DeviceID    string    `json:"device_id"`
	CreatedAt   time.Time `json:"created_at"`

	ContentEncrypted      *string `json:"content_encrypted,omitempty"`
	FileDataEncrypted     *string `json:"file_data_encrypted,omitempty"`
	FileNameEncrypted     *string `json:"file_name_encrypted,omitempty"`
	FileMimeTypeEncrypted *string `json:"file_mime_type_encrypted,omitempty"`
	FileSizeEncrypted     *string `json:"file_size_encrypted,omitempty"`
	CreatedAtEncrypted    *string `json:"created_at_encrypted,omitempty"`
	UpdatedAtEncrypted    *string `json:"updated_at_encrypted,omitempty"`
	DisplayIDEncrypted    *string `json:"display_id_encrypted,omitempty"`
}

// ItemCursor is a position in the (created_at, id) order items are listed
// in. The zero cursor precedes every row.
type ItemCursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id,omitempty"`
}

// CursorOf returns the position of row.
func CursorOf(row ItemRow) ItemCursor {
	return ItemCursor{CreatedAt: row.CreatedAt, ID: row.ID}
}

// Before reports whether row comes strictly after c.
func (c ItemCursor) Before(row ItemRow) bool {
	if !row.CreatedAt.Equal(c.CreatedAt) {
		return row.CreatedAt.After(c.CreatedAt)
	}
	return row.ID > c.ID
}
