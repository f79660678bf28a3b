package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MaxListLimit caps a single ListItems page.
const MaxListLimit = 500

type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager) *ItemService {
	return &ItemService{db: db, repomanager: m}
}

// Put stores row on behalf of deviceID in session code. The routing columns
// are taken from the caller's token, not from the row; a missing id is
// assigned here.
func (s *ItemService) Put(ctx context.Context, code, deviceID string, row models.ItemRow) (*models.ItemRow, error) {
	if !row.Kind.Valid() {
		return nil, common.ErrorInvalidItemKind
	}
	if row.SessionCode != "" && row.SessionCode != code {
		return nil, common.ErrorForbidden
	}

	if row.ID == "" {
		row.ID = uuid.NewString()
	} else if _, err := uuid.Parse(row.ID); err != nil {
		return nil, common.ErrorInvalidItemID
	}

	row.SessionCode = code
	row.DeviceID = deviceID

	if err := s.repomanager.Items(s.db).Create(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns rows positioned after the cursor, oldest first.
func (s *ItemService) List(ctx context.Context, code string, after models.ItemCursor, limit int) ([]models.ItemRow, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repomanager.Items(s.db).ListAfter(ctx, code, after, limit)
}

// Delete removes an item. Only the device that stored it or the session host
// may do so.
func (s *ItemService) Delete(ctx context.Context, code, deviceID, id string) error {
	items := s.repomanager.Items(s.db)

	item, err := items.Get(ctx, code, id)
	if err != nil {
		return err
	}

	if item.DeviceID != deviceID {
		dev, err := s.repomanager.Devices(s.db).Get(ctx, code, deviceID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorForbidden
			}
			return err
		}
		if !dev.IsHost {
			return common.ErrorForbidden
		}
	}

	return items.Delete(ctx, code, id)
}
