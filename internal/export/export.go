// Package export writes a session's items in a portable form. Items that
// cannot be decrypted are still written, flagged as unreadable, so an export
// never fails because of a key mismatch.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/fieldcrypt"
	"github.com/dmitrijs2005/clipshare/internal/filecrypt"
	"github.com/dmitrijs2005/clipshare/internal/models"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// UnreadableMarker prefixes text records that could not be fully decrypted.
const UnreadableMarker = "[UNREADABLE]"

// Concurrency bounds the decrypt workers used by Export.
var Concurrency = 8

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Record is one exported item.
type Record struct {
	ID                  string          `json:"id"`
	DisplayID           string          `json:"display_id"`
	Kind                models.ItemKind `json:"kind"`
	DeviceID            string          `json:"device_id"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
	Content             *string         `json:"content,omitempty"`
	FileName            *string         `json:"file_name,omitempty"`
	FileMimeType        *string         `json:"file_mime_type,omitempty"`
	FileSize            *int64          `json:"file_size,omitempty"`
	// FileData is the decrypted body, base64 in JSON. Text exports omit it.
	FileData            []byte          `json:"file_data,omitempty"`
	FileDataUnavailable bool            `json:"file_data_unavailable,omitempty"`
	Decryptable         bool            `json:"decryptable"`
}

type document struct {
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Items      []Record  `json:"items"`
}

var now = time.Now

// Export decrypts rows with key and writes them to w in format.
func Export(ctx context.Context, rows []models.ItemRow, key cryptox.SessionKey, format Format, w io.Writer) error {
	items, err := fieldcrypt.DecryptItems(ctx, rows, key, Concurrency)
	if err != nil {
		return err
	}

	records := make([]Record, 0, len(items))
	for _, it := range items {
		records = append(records, toRecord(it, key))
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{ExportedAt: now().UTC(), Count: len(records), Items: records})
	case FormatText:
		return writeText(w, records)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// FileBodyPlaceholder replaces the body line of a text record whose file
// could not be opened.
const FileBodyPlaceholder = "[file body unavailable]"

func toRecord(it fieldcrypt.DecryptedItem, key cryptox.SessionKey) Record {
	r := Record{
		ID:          it.ID,
		DisplayID:   it.Label(),
		Kind:        it.Kind,
		DeviceID:    it.DeviceID,
		CreatedAt:   it.Time().UTC(),
		Decryptable: it.Decryptable(),
	}
	if it.UpdatedAt.Present() {
		t := it.UpdatedAt.Value.UTC()
		r.UpdatedAt = &t
	}
	if it.Content.Present() {
		r.Content = &it.Content.Value
	}
	if it.FileName.Present() {
		r.FileName = &it.FileName.Value
	}
	if it.FileMimeType.Present() {
		r.FileMimeType = &it.FileMimeType.Value
	}
	if it.FileSize.OK() {
		r.FileSize = &it.FileSize.Value
	}
	if it.FileData != nil {
		data, err := filecrypt.DecryptFile(*it.FileData, key, r.mimeType())
		if err != nil {
			r.FileDataUnavailable = true
			r.Decryptable = false
		} else {
			r.FileData = data
		}
	}
	return r
}

func (r Record) mimeType() string {
	if r.FileMimeType != nil {
		return *r.FileMimeType
	}
	return fieldcrypt.DefaultMimeType
}

func writeText(w io.Writer, records []Record) error {
	for i, r := range records {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		var sb strings.Builder
		if !r.Decryptable {
			sb.WriteString(UnreadableMarker + " ")
		}
		fmt.Fprintf(&sb, "%s  %s  %s  %s\n", r.DisplayID, r.Kind, r.CreatedAt.Format(time.RFC3339), r.DeviceID)

		switch {
		case r.Kind == models.ItemKindFile:
			name := ""
			if r.FileName != nil {
				name = *r.FileName
			}
			size := "unknown size"
			if r.FileSize != nil {
				size = fmt.Sprintf("%d bytes", *r.FileSize)
			}
			fmt.Fprintf(&sb, "file: %s (%s)\n", name, size)
			if r.FileDataUnavailable {
				sb.WriteString(FileBodyPlaceholder + "\n")
			}
		case r.Content != nil:
			sb.WriteString(*r.Content)
			sb.WriteString("\n")
		}

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
