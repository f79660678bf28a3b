package fieldcrypt

import (
	"fmt"

	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/models"
)

// EncryptDeviceName seals a device display name. The device id is never
// encrypted and never derived from the key.
func EncryptDeviceName(name string, key cryptox.SessionKey) (*string, error) {
	if name == "" {
		return nil, nil
	}
	env, err := cryptox.EncryptString(name, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt device name: %w", err)
	}
	s := string(env)
	return &s, nil
}

// DecryptDeviceName opens a device name column. A missing or undecryptable
// name becomes AnonymousDeviceName.
func DecryptDeviceName(col *string, key cryptox.SessionKey) Field[string] {
	f := decryptString(col, key, func() Field[string] {
		return Fallback(AnonymousDeviceName)
	})
	if f.Status == StatusAbsent {
		return Fallback(AnonymousDeviceName)
	}
	return f
}

// DecryptDevice converts a storage row into a Device.
func DecryptDevice(row models.DeviceRow, key cryptox.SessionKey) models.Device {
	name := DecryptDeviceName(row.DeviceNameEncrypted, key)
	return models.Device{
		DeviceID:   row.DeviceID,
		Name:       name.Value,
		NameOK:     name.OK(),
		IsHost:     row.IsHost,
		JoinedAt:   row.JoinedAt,
		LastSeenAt: row.LastSeenAt,
	}
}
