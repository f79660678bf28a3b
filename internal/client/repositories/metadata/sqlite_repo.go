package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/dbx"
)

const (
	lastSessionKey = "last_session_code"
	cursorPrefix   = "cursor:"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns (nil, nil) for a missing key.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("metadata get %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("metadata set %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("metadata delete %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("metadata clear: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("metadata list: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("metadata scan: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("metadata rows: %w", err)
	}

	return result, nil
}

// LastSession is the code of the session joined most recently, "" if none.
func (r *SQLiteRepository) LastSession(ctx context.Context) (string, error) {
	v, err := r.Get(ctx, lastSessionKey)
	return string(v), err
}

// SetLastSession remembers code; an empty code forgets it.
func (r *SQLiteRepository) SetLastSession(ctx context.Context, code string) error {
	if code == "" {
		return r.Delete(ctx, lastSessionKey)
	}
	return r.Set(ctx, lastSessionKey, []byte(code))
}

// Cursor is the relay created_at of the newest item mirrored for code. The
// zero time means nothing has been synced yet.
func (r *SQLiteRepository) Cursor(ctx context.Context, code string) (time.Time, error) {
	v, err := r.Get(ctx, cursorPrefix+code)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(v))
	if err != nil {
		// a corrupt cursor only costs a full resync
		return time.Time{}, nil
	}
	return t, nil
}

func (r *SQLiteRepository) SetCursor(ctx context.Context, code string, t time.Time) error {
	return r.Set(ctx, cursorPrefix+code, []byte(t.UTC().Format(time.RFC3339Nano)))
}
