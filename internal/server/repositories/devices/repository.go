package devices

import (
	"context"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/models"
)

type Repository interface {
	Upsert(ctx context.Context, d *models.DeviceRow) error
	Get(ctx context.Context, sessionCode, deviceID string) (*models.DeviceRow, error)
	List(ctx context.Context, sessionCode string) ([]models.DeviceRow, error)
	UpdateName(ctx context.Context, sessionCode, deviceID string, nameEncrypted *string) error
	Touch(ctx context.Context, sessionCode, deviceID string, at time.Time) error
}
