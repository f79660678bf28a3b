package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/relay"
)

// Client is the relay API as seen by the CLI. Methods other than Ping and
// JoinSession act on the session joined last.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	JoinSession(ctx context.Context, code, deviceID string, nameEncrypted *string, create bool) (*relay.JoinSessionResponse, error)
	Leave()
	PutItem(ctx context.Context, row models.ItemRow) (*relay.PutItemResponse, error)
	ListItems(ctx context.Context, after models.ItemCursor, limit int) ([]models.ItemRow, error)
	DeleteItem(ctx context.Context, id string) error
	ListDevices(ctx context.Context) ([]models.DeviceRow, error)
	UpdateDevice(ctx context.Context, nameEncrypted *string) error
	Touch(ctx context.Context) (time.Time, error)
}
