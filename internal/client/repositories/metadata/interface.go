package metadata

import (
	"context"
	"time"
)

// Repository is a small key/value store for local client state: the device
// identity, the last joined session and per-session sync cursors.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	LastSession(ctx context.Context) (string, error)
	SetLastSession(ctx context.Context, code string) error
	Cursor(ctx context.Context, code string) (time.Time, error)
	SetCursor(ctx context.Context, code string, t time.Time) error
}
