package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/repomanager"
)

type DeviceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDeviceService(db *sql.DB, m repomanager.RepositoryManager) *DeviceService {
	return &DeviceService{db: db, repomanager: m}
}

func (s *DeviceService) List(ctx context.Context, code string) ([]models.DeviceRow, error) {
	return s.repomanager.Devices(s.db).List(ctx, code)
}

// Rename replaces the encrypted display name of the calling device.
func (s *DeviceService) Rename(ctx context.Context, code, deviceID string, nameEncrypted *string) error {
	return s.repomanager.Devices(s.db).UpdateName(ctx, code, deviceID, nameEncrypted)
}
