// Package relay defines the wire contract between clipshare clients and the
// relay server: request and response messages, a JSON gRPC codec and the
// Relay service description.
//
// The relay only ever sees models.ItemRow and models.DeviceRow values, that
// is envelopes plus routing columns.
package relay

import (
	"time"

	"github.com/dmitrijs2005/clipshare/internal/models"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// JoinSessionRequest joins SessionCode as DeviceID. With Create set the
// session must not exist yet and the caller becomes its host.
type JoinSessionRequest struct {
	SessionCode         string  `json:"session_code"`
	DeviceID            string  `json:"device_id"`
	DeviceNameEncrypted *string `json:"device_name_encrypted,omitempty"`
	Create              bool    `json:"create,omitempty"`
}

type JoinSessionResponse struct {
	AccessToken string         `json:"access_token"`
	Session     models.Session `json:"session"`
	IsHost      bool           `json:"is_host"`
}

type PutItemRequest struct {
	Item models.ItemRow `json:"item"`
}

type PutItemResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// ListItemsRequest returns items positioned after (Since, AfterID) in
// (created_at, id) order, oldest first. An empty AfterID includes rows stored
// exactly at Since.
type ListItemsRequest struct {
	Since   time.Time `json:"since"`
	AfterID string    `json:"after_id,omitempty"`
	Limit   int       `json:"limit,omitempty"`
}

type ListItemsResponse struct {
	Items []models.ItemRow `json:"items"`
}

type DeleteItemRequest struct {
	ID string `json:"id"`
}

type DeleteItemResponse struct{}

type ListDevicesRequest struct{}

type ListDevicesResponse struct {
	Devices []models.DeviceRow `json:"devices"`
}

type UpdateDeviceRequest struct {
	DeviceNameEncrypted *string `json:"device_name_encrypted,omitempty"`
}

type UpdateDeviceResponse struct{}

type TouchRequest struct{}

type TouchResponse struct {
	ServerTime time.Time `json:"server_time"`
}
