package models

import "time"

// DeviceRow is the storage shape of a device participating in a session.
// Only the display name is confidential.
type DeviceRow struct {
	DeviceID            string    `json:"device_id"`
	SessionCode         string    `json:"session_code"`
	IsHost              bool      `json:"is_host"`
	JoinedAt            time.Time `json:"joined_at"`
	LastSeenAt          time.Time `json:"last_seen_at"`
	DeviceNameEncrypted *string   `json:"device_name_encrypted,omitempty"`
}

// Device is a DeviceRow with its name decrypted (or replaced by a fallback).
type Device struct {
	DeviceID   string
	Name       string
	NameOK     bool
	IsHost     bool
	JoinedAt   time.Time
	LastSeenAt time.Time
}

// Session is a sharing session known to the relay.
type Session struct {
	Code         string    `json:"code"`
	HostDeviceID string    `json:"host_device_id"`
	CreatedAt    time.Time `json:"created_at"`
}
