// Package cryptox implements the client-side cryptography of clipshare:
// deriving a session key from a public session code, sealing and opening
// self-describing AES-256-GCM envelopes, and caching derived keys per session.
//
// The session code is the only shared secret. Anyone who knows (or guesses)
// the code can recompute the key offline, so the size of the code space is
// the real security boundary, not the cost of the KDF.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

// Derivation parameters. Changing any of them makes every envelope stored
// under the previous values undecryptable.
const (
	keyMaterialSuffix = "clipboard-sync-secret"
	keySalt           = "clipboard-sync-salt"
	kdfIterations     = 100000
	keyLen            = 32
)

// ErrNoKey is returned when an operation is attempted with a zero SessionKey.
var ErrNoKey = errors.New("session key is not initialized")

// SessionKey is an AES-256-GCM key scoped to one session code. It is
// immutable after derivation and safe for concurrent use. The raw key bytes
// are not retained.
type SessionKey struct {
	aead cipher.AEAD
}

// DeriveSessionKey derives the key for code with PBKDF2-HMAC-SHA256 over
// code+suffix and a fixed salt. The code is not validated here.
//
// Same code, same key: devices never exchange key material.
func DeriveSessionKey(code string) (SessionKey, error) {
	raw := pbkdf2.Key([]byte(code+keyMaterialSuffix), []byte(keySalt), kdfIterations, keyLen, sha256.New)
	defer common.WipeByteArray(raw)

	return newSessionKey(raw)
}

func newSessionKey(raw []byte) (SessionKey, error) {
	block, err := aes.NewCipher(raw)
	if err != nil {
		return SessionKey{}, fmt.Errorf("aes init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return SessionKey{}, fmt.Errorf("gcm init: %w", err)
	}
	return SessionKey{aead: aead}, nil
}

// IsZero reports whether k was never derived.
func (k SessionKey) IsZero() bool {
	return k.aead == nil
}
