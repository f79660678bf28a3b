package items

import (
	"context"

	"github.com/dmitrijs2005/clipshare/internal/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.ItemRow) error
	Get(ctx context.Context, sessionCode, id string) (*models.ItemRow, error)
	ListAfter(ctx context.Context, sessionCode string, after models.ItemCursor, limit int) ([]models.ItemRow, error)
	Delete(ctx context.Context, sessionCode, id string) error
}
