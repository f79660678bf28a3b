// Package filecrypt encrypts whole file bodies and turns decrypted bodies into
// short-lived, explicitly released download resources.
//
// File metadata (name, MIME type, size) is returned in clear by EncryptFile so
// the caller can seal it through fieldcrypt independently of the body.
package filecrypt

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clipshare/internal/cryptox"
)

// ErrFileUnavailable is returned when a file body cannot be decrypted. It is
// recoverable: only the affected file fails to open.
var ErrFileUnavailable = errors.New("file is unavailable")

// EncryptedFile is the result of EncryptFile.
type EncryptedFile struct {
	EncryptedData cryptox.Envelope
	MimeType      string
	FileName      string
	Size          int64
}

// EncryptFile seals data. Only the body is encrypted.
func EncryptFile(data []byte, mimeType, fileName string, key cryptox.SessionKey) (EncryptedFile, error) {
	env, err := cryptox.Encrypt(data, key)
	if err != nil {
		return EncryptedFile{}, fmt.Errorf("encrypt file body: %w", err)
	}

	return EncryptedFile{
		EncryptedData: env,
		MimeType:      mimeType,
		FileName:      fileName,
		Size:          int64(len(data)),
	}, nil
}

// DecryptFile opens a file body. mimeType is not authenticated; it only
// labels the error.
func DecryptFile(env cryptox.Envelope, key cryptox.SessionKey, mimeType string) ([]byte, error) {
	data, err := cryptox.Decrypt(env, key)
	if err != nil {
		if mimeType == "" {
			mimeType = "unknown type"
		}
		return nil, fmt.Errorf("%w (%s): %w", ErrFileUnavailable, mimeType, err)
	}
	return data, nil
}
