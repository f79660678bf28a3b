package identity

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	deviceIDKey   = "device_id"
	deviceNameKey = "device_name"

	// MaxNameLength bounds a user chosen device name, in runes.
	MaxNameLength = 64
)

// MetadataStore is the slice of the local metadata repository used here.
type MetadataStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Identity is the persisted identity of this install.
type Identity struct {
	DeviceID   string
	DeviceName string
}

// Store persists the identity in the local metadata repository.
type Store struct {
	meta MetadataStore
}

func NewStore(meta MetadataStore) *Store {
	return &Store{meta: meta}
}

// LoadOrCreate returns the stored identity, generating and saving whatever
// part of it is missing. Generation happens at most once per install.
func (s *Store) LoadOrCreate(ctx context.Context) (Identity, error) {
	var id Identity

	raw, err := s.meta.Get(ctx, deviceIDKey)
	if err != nil {
		return Identity{}, err
	}
	id.DeviceID = string(raw)

	if !ValidDeviceID(id.DeviceID) {
		id.DeviceID, err = GenerateAnonymousDeviceID()
		if err != nil {
			return Identity{}, err
		}
		if err := s.meta.Set(ctx, deviceIDKey, []byte(id.DeviceID)); err != nil {
			return Identity{}, err
		}
	}

	raw, err = s.meta.Get(ctx, deviceNameKey)
	if err != nil {
		return Identity{}, err
	}
	id.DeviceName = string(raw)

	if id.DeviceName == "" {
		id.DeviceName = RandomDeviceName()
		if err := s.meta.Set(ctx, deviceNameKey, []byte(id.DeviceName)); err != nil {
			return Identity{}, err
		}
	}

	return id, nil
}

// Rename stores a new display name and returns the normalized value.
func (s *Store) Rename(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("device name must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("device name is longer than %d characters", MaxNameLength)
	}

	if err := s.meta.Set(ctx, deviceNameKey, []byte(name)); err != nil {
		return "", err
	}
	return name, nil
}
