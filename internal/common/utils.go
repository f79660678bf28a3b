package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes. The resulting string is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns size bytes from crypto/rand.
// It panics if the system random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return b
}

// WipeByteArray overwrites b with zeros. Nil is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NewSessionCode returns a uniformly random numeric session code of
// SessionCodeLength digits. The first digit is never zero so codes survive
// being handled as numbers.
func NewSessionCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < SessionCodeLength; i++ {
		max := int64(10)
		offset := int64(0)
		if i == 0 {
			max, offset = 9, 1
		}
		n, err := rand.Int(rand.Reader, big.NewInt(max))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64() + offset))
	}
	return sb.String(), nil
}

// ValidateSessionCode checks that code consists of exactly SessionCodeLength
// decimal digits.
func ValidateSessionCode(code string) error {
	if len(code) != SessionCodeLength {
		return ErrorInvalidSessionCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrorInvalidSessionCode
		}
	}
	return nil
}

// MaskSessionCode hides all but the first two digits of a session code so it
// can appear in logs.
func MaskSessionCode(code string) string {
	if len(code) <= 2 {
		return strings.Repeat("*", len(code))
	}
	return code[:2] + strings.Repeat("*", len(code)-2)
}
