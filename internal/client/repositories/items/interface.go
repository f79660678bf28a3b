package items

import (
	"context"

	"github.com/dmitrijs2005/clipshare/internal/models"
)

// Repository mirrors the encrypted rows of joined sessions so they can be
// listed offline. Rows are stored exactly as received from the relay.
type Repository interface {
	Upsert(ctx context.Context, rows ...models.ItemRow) error
	Get(ctx context.Context, sessionCode, id string) (*models.ItemRow, error)
	List(ctx context.Context, sessionCode string) ([]models.ItemRow, error)
	Delete(ctx context.Context, sessionCode, id string) error
	DeleteSession(ctx context.Context, sessionCode string) error
}
