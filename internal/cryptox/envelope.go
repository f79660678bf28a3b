package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// NonceSize is the length of the random nonce prefix of every envelope.
const NonceSize = 12

// ErrDecrypt marks any failure to open an envelope: malformed base64, an
// envelope too short to hold a nonce and tag, or a tag that does not verify
// (wrong key, corrupted data). It is an expected outcome, not a crash.
var ErrDecrypt = errors.New("unable to decrypt envelope")

// Envelope is base64(nonce || ciphertext || tag), suitable for a text column.
type Envelope string

// randReader is a test seam for the nonce source.
var randReader io.Reader = rand.Reader

// Encrypt seals plain under key with a fresh random nonce.
func Encrypt(plain []byte, key SessionKey) (Envelope, error) {
	if key.IsZero() {
		return "", ErrNoKey
	}

	buf := make([]byte, NonceSize, NonceSize+len(plain)+key.aead.Overhead())
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}

	// nonce is both the IV and the output prefix
	out := key.aead.Seal(buf, buf[:NonceSize], plain, nil)

	return Envelope(base64.StdEncoding.EncodeToString(out)), nil
}

// Decrypt opens env with key. Every failure wraps ErrDecrypt.
func Decrypt(env Envelope, key SessionKey) ([]byte, error) {
	if key.IsZero() {
		return nil, ErrNoKey
	}

	raw, err := base64.StdEncoding.DecodeString(string(env))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrDecrypt, err)
	}
	if len(raw) < NonceSize+key.aead.Overhead() {
		return nil, fmt.Errorf("%w: envelope too short (%d bytes)", ErrDecrypt, len(raw))
	}

	nonce, ct := raw[:NonceSize], raw[NonceSize:]
	plain, err := key.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if plain == nil {
		plain = []byte{}
	}
	return plain, nil
}

// EncryptString is Encrypt for UTF-8 text.
func EncryptString(s string, key SessionKey) (Envelope, error) {
	return Encrypt([]byte(s), key)
}

// DecryptString is Decrypt for UTF-8 text.
func DecryptString(env Envelope, key SessionKey) (string, error) {
	b, err := Decrypt(env, key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
