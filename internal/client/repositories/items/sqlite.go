package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/dbx"
	"github.com/dmitrijs2005/clipshare/internal/models"
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const columns = `id, session_code, kind, device_id, created_at,
	content_encrypted, file_data_encrypted, file_name_encrypted, file_mime_type_encrypted,
	file_size_encrypted, created_at_encrypted, updated_at_encrypted, display_id_encrypted`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert stores rows keyed by id, replacing any earlier copy.
func (r *SQLiteRepository) Upsert(ctx context.Context, rows ...models.ItemRow) error {
	query := `INSERT INTO items (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_code = excluded.session_code,
			kind = excluded.kind,
			device_id = excluded.device_id,
			created_at = excluded.created_at,
			content_encrypted = excluded.content_encrypted,
			file_data_encrypted = excluded.file_data_encrypted,
			file_name_encrypted = excluded.file_name_encrypted,
			file_mime_type_encrypted = excluded.file_mime_type_encrypted,
			file_size_encrypted = excluded.file_size_encrypted,
			created_at_encrypted = excluded.created_at_encrypted,
			updated_at_encrypted = excluded.updated_at_encrypted,
			display_id_encrypted = excluded.display_id_encrypted`

	for _, it := range rows {
		_, err := r.db.ExecContext(ctx, query,
			it.ID, it.SessionCode, string(it.Kind), it.DeviceID, it.CreatedAt.UTC().Format(timeLayout),
			it.ContentEncrypted, it.FileDataEncrypted, it.FileNameEncrypted, it.FileMimeTypeEncrypted,
			it.FileSizeEncrypted, it.CreatedAtEncrypted, it.UpdatedAtEncrypted, it.DisplayIDEncrypted,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert item %s: %w", it.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, sessionCode, id string) (*models.ItemRow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM items WHERE session_code = ? AND id = ?`, sessionCode, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &it, nil
}

// List returns the mirrored rows of a session, newest first.
func (r *SQLiteRepository) List(ctx context.Context, sessionCode string) ([]models.ItemRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columns+` FROM items WHERE session_code = ? ORDER BY created_at DESC, id DESC`, sessionCode)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []models.ItemRow
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes one mirrored row. Missing rows are not an error: the relay
// is authoritative and the mirror may simply be behind.
func (r *SQLiteRepository) Delete(ctx context.Context, sessionCode, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE session_code = ? AND id = ?`, sessionCode, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, sessionCode string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE session_code = ?`, sessionCode); err != nil {
		return fmt.Errorf("failed to delete session items: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (models.ItemRow, error) {
	var (
		it        models.ItemRow
		kind      string
		createdAt string
	)
	err := s.Scan(&it.ID, &it.SessionCode, &kind, &it.DeviceID, &createdAt,
		&it.ContentEncrypted, &it.FileDataEncrypted, &it.FileNameEncrypted, &it.FileMimeTypeEncrypted,
		&it.FileSizeEncrypted, &it.CreatedAtEncrypted, &it.UpdatedAtEncrypted, &it.DisplayIDEncrypted)
	if err != nil {
		return models.ItemRow{}, err
	}
	it.Kind = models.ItemKind(kind)
	if it.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return models.ItemRow{}, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	return it, nil
}
