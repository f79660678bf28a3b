package sessions

import (
	"context"

	"github.com/dmitrijs2005/clipshare/internal/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, code string) (*models.Session, error)
}
