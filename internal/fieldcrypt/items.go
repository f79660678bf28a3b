package fieldcrypt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/models"
)

// DecryptedItem is an item reconstructed from an ItemRow. Cleartext columns
// are copied as is; every encrypted column is a Field.
type DecryptedItem struct {
	ID          string
	SessionCode string
	Kind        models.ItemKind
	DeviceID    string
	// StoredAt is the coarse cleartext created_at of the row.
	StoredAt time.Time

	Content      Field[string]
	FileName     Field[string]
	FileMimeType Field[string]
	FileSize     Field[int64]
	CreatedAt    Field[time.Time]
	UpdatedAt    Field[time.Time]
	DisplayID    Field[string]

	// FileData is left sealed; it is opened on demand by filecrypt.
	FileData *cryptox.Envelope
}

// EncryptItemFields encrypts every populated field of item on its own. Fields
// that are not set stay NULL. The file body is not part of item and must be
// attached by the caller (see filecrypt.EncryptFile).
func EncryptItemFields(item models.Item, key cryptox.SessionKey) (models.ItemRow, error) {
	if !item.Kind.Valid() {
		return models.ItemRow{}, fmt.Errorf("%w: %q", common.ErrorInvalidItemKind, item.Kind)
	}

	row := models.ItemRow{
		ID:          item.ID,
		SessionCode: item.SessionCode,
		Kind:        item.Kind,
		DeviceID:    item.DeviceID,
		CreatedAt:   item.CreatedAt.UTC().Truncate(time.Second),
	}

	type plainField struct {
		name  string
		value string
		set   bool
		dst   **string
	}

	var size string
	if item.FileSize != nil {
		size = strconv.FormatInt(*item.FileSize, 10)
	}

	fields := []plainField{
		{"content", item.Content, item.Content != "", &row.ContentEncrypted},
		{"file_name", item.FileName, item.FileName != "", &row.FileNameEncrypted},
		{"file_mime_type", item.FileMimeType, item.FileMimeType != "", &row.FileMimeTypeEncrypted},
		{"file_size", size, item.FileSize != nil, &row.FileSizeEncrypted},
		{"created_at", FormatTime(item.CreatedAt), !item.CreatedAt.IsZero(), &row.CreatedAtEncrypted},
		{"updated_at", FormatTime(item.UpdatedAt), !item.UpdatedAt.IsZero(), &row.UpdatedAtEncrypted},
		{"display_id", item.DisplayID, item.DisplayID != "", &row.DisplayIDEncrypted},
	}

	for _, f := range fields {
		if !f.set {
			continue
		}
		env, err := cryptox.EncryptString(f.value, key)
		if err != nil {
			return models.ItemRow{}, fmt.Errorf("encrypt %s: %w", f.name, err)
		}
		s := string(env)
		*f.dst = &s
	}

	return row, nil
}

// DecryptItemFields opens every encrypted column of row independently and
// substitutes a field-specific fallback for each one that fails. It never
// returns an error: an item whose fields all fail still comes back, made of
// placeholders.
func DecryptItemFields(row models.ItemRow, key cryptox.SessionKey) DecryptedItem {
	item := DecryptedItem{
		ID:          row.ID,
		SessionCode: row.SessionCode,
		Kind:        row.Kind,
		DeviceID:    row.DeviceID,
		StoredAt:    row.CreatedAt,
	}

	item.Content = decryptString(row.ContentEncrypted, key, func() Field[string] {
		return Unavailable(ContentPlaceholder)
	})
	item.FileName = decryptString(row.FileNameEncrypted, key, func() Field[string] {
		return Unavailable(FileNamePlaceholder)
	})
	item.FileMimeType = decryptString(row.FileMimeTypeEncrypted, key, func() Field[string] {
		return Fallback(DefaultMimeType)
	})
	item.FileSize = decryptParsed(row.FileSizeEncrypted, key, parseSize, func() Field[int64] {
		return Unavailable[int64](0)
	})
	item.CreatedAt = decryptParsed(row.CreatedAtEncrypted, key, ParseTime, func() Field[time.Time] {
		return Fallback(row.CreatedAt)
	})
	item.UpdatedAt = decryptParsed(row.UpdatedAtEncrypted, key, ParseTime, func() Field[time.Time] {
		if item.CreatedAt.OK() {
			return Fallback(item.CreatedAt.Value)
		}
		return Fallback(row.CreatedAt)
	})
	item.DisplayID = decryptString(row.DisplayIDEncrypted, key, func() Field[string] {
		return Fallback(row.ID)
	})

	if row.FileDataEncrypted != nil && *row.FileDataEncrypted != "" {
		env := cryptox.Envelope(*row.FileDataEncrypted)
		item.FileData = &env
	}

	return item
}

func decryptString(col *string, key cryptox.SessionKey, onFail func() Field[string]) Field[string] {
	return decryptParsed(col, key, func(s string) (string, error) { return s, nil }, onFail)
}

// decryptParsed opens col and parses the plaintext. A parse error counts as a
// decryption failure of that field. NULL and empty columns are both absent.
func decryptParsed[T any](col *string, key cryptox.SessionKey, parse func(string) (T, error), onFail func() Field[T]) Field[T] {
	if col == nil || *col == "" {
		return Absent[T]()
	}
	plain, err := cryptox.DecryptString(cryptox.Envelope(*col), key)
	if err != nil {
		return onFail()
	}
	v, err := parse(plain)
	if err != nil {
		return onFail()
	}
	return Ok(v)
}

func parseSize(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// Label is the identifier shown to users: the display id when present,
// otherwise the storage primary key.
func (it DecryptedItem) Label() string {
	if it.DisplayID.Present() && it.DisplayID.Value != "" {
		if it.DisplayID.OK() {
			return "#" + it.DisplayID.Value
		}
		return it.DisplayID.Value
	}
	return it.ID
}

// Time is the best known creation time of the item.
func (it DecryptedItem) Time() time.Time {
	if it.CreatedAt.Present() {
		return it.CreatedAt.Value
	}
	return it.StoredAt
}

// Decryptable reports whether every present field decrypted successfully.
func (it DecryptedItem) Decryptable() bool {
	for _, st := range it.statuses() {
		if st == StatusUnavailable || st == StatusFallback {
			return false
		}
	}
	return true
}

// Unreadable reports whether at least one field was present and none of the
// present fields could be decrypted.
func (it DecryptedItem) Unreadable() bool {
	present := 0
	for _, st := range it.statuses() {
		switch st {
		case StatusOK:
			return false
		case StatusUnavailable, StatusFallback:
			present++
		}
	}
	return present > 0
}

func (it DecryptedItem) statuses() []Status {
	return []Status{
		it.Content.Status, it.FileName.Status, it.FileMimeType.Status, it.FileSize.Status,
		it.CreatedAt.Status, it.UpdatedAt.Status, it.DisplayID.Status,
	}
}
