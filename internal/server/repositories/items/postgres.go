// Package items stores encrypted clipboard items. Every *_encrypted column is
// opaque to this package.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/dbx"
	"github.com/dmitrijs2005/clipshare/internal/models"
)

const selectColumns = `id::text, session_code, kind, device_id, created_at,
	content_encrypted, file_data_encrypted, file_name_encrypted, file_mime_type_encrypted,
	file_size_encrypted, created_at_encrypted, updated_at_encrypted, display_id_encrypted`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores item and sets its server created_at.
func (r *PostgresRepository) Create(ctx context.Context, item *models.ItemRow) error {
	query := `
		INSERT INTO items (id, session_code, kind, device_id,
			content_encrypted, file_data_encrypted, file_name_encrypted, file_mime_type_encrypted,
			file_size_encrypted, created_at_encrypted, updated_at_encrypted, display_id_encrypted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.SessionCode, string(item.Kind), item.DeviceID,
		item.ContentEncrypted, item.FileDataEncrypted, item.FileNameEncrypted, item.FileMimeTypeEncrypted,
		item.FileSizeEncrypted, item.CreatedAtEncrypted, item.UpdatedAtEncrypted, item.DisplayIDEncrypted,
	).Scan(&item.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, sessionCode, id string) (*models.ItemRow, error) {
	query := `SELECT ` + selectColumns + ` FROM items WHERE session_code = $1 AND id::text = $2`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, sessionCode, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

// ListAfter returns items of a session positioned strictly after the cursor
// in (created_at, id) order. limit <= 0 means no limit.
func (r *PostgresRepository) ListAfter(ctx context.Context, sessionCode string, after models.ItemCursor, limit int) ([]models.ItemRow, error) {
	query := `SELECT ` + selectColumns + `
		FROM items
		WHERE session_code = $1 AND (created_at, id::text) > ($2, $3)
		ORDER BY created_at, id::text
		LIMIT NULLIF($4, 0)`

	if limit < 0 {
		limit = 0
	}

	rows, err := r.db.QueryContext(ctx, query, sessionCode, after.CreatedAt, after.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []models.ItemRow
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, sessionCode, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE session_code = $1 AND id::text = $2`, sessionCode, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (models.ItemRow, error) {
	var (
		item models.ItemRow
		kind string
	)
	err := s.Scan(
		&item.ID, &item.SessionCode, &kind, &item.DeviceID, &item.CreatedAt,
		&item.ContentEncrypted, &item.FileDataEncrypted, &item.FileNameEncrypted, &item.FileMimeTypeEncrypted,
		&item.FileSizeEncrypted, &item.CreatedAtEncrypted, &item.UpdatedAtEncrypted, &item.DisplayIDEncrypted,
	)
	item.Kind = models.ItemKind(kind)
	return item, err
}
