// Package identity generates and persists the anonymous identity of a device:
// a random device id and a human-friendly display name.
//
// Neither value is derived from a session key. The id travels in clear; the
// name is sealed by fieldcrypt before it leaves the device.
package identity

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// DeviceIDLength is the length of ids returned by GenerateAnonymousDeviceID.
const DeviceIDLength = 12

// randReader is a test seam.
var randReader io.Reader = rand.Reader

// GenerateAnonymousDeviceID returns a 12 character id made of base64
// alphanumerics. Uniqueness is probabilistic.
func GenerateAnonymousDeviceID() (string, error) {
	for {
		b := make([]byte, 16)
		if _, err := io.ReadFull(randReader, b); err != nil {
			return "", fmt.Errorf("device id: %w", err)
		}

		s := base64.StdEncoding.EncodeToString(b)
		s = strings.NewReplacer("+", "", "/", "", "=", "").Replace(s)

		// 16 bytes give 22 characters before filtering; retry on the rare
		// draw that leaves fewer than 12.
		if len(s) >= DeviceIDLength {
			return s[:DeviceIDLength], nil
		}
	}
}

// ValidDeviceID reports whether id looks like a GenerateAnonymousDeviceID
// result.
func ValidDeviceID(id string) bool {
	if len(id) != DeviceIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// RandomDeviceName picks a name uniformly from the pool.
func RandomDeviceName() string {
	n, err := rand.Int(randReader, big.NewInt(int64(len(deviceNames))))
	if err != nil {
		return deviceNames[0]
	}
	return deviceNames[n.Int64()]
}
