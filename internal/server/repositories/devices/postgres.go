// Package devices stores the devices participating in sessions.
package devices

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert registers d in its session. A device that joins again keeps its
// joined_at and host flag; its name is replaced only when a new one is given.
func (r *PostgresRepository) Upsert(ctx context.Context, d *models.DeviceRow) error {
	query := `
		INSERT INTO devices (session_code, device_id, is_host, device_name_encrypted)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_code, device_id)
		DO UPDATE SET
			last_seen_at = now(),
			device_name_encrypted = COALESCE(EXCLUDED.device_name_encrypted, devices.device_name_encrypted)
		RETURNING is_host, joined_at, last_seen_at, device_name_encrypted`

	err := r.db.QueryRowContext(ctx, query, d.SessionCode, d.DeviceID, d.IsHost, d.DeviceNameEncrypted).
		Scan(&d.IsHost, &d.JoinedAt, &d.LastSeenAt, &d.DeviceNameEncrypted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, sessionCode, deviceID string) (*models.DeviceRow, error) {
	query := `
		SELECT session_code, device_id, is_host, joined_at, last_seen_at, device_name_encrypted
		FROM devices
		WHERE session_code = $1 AND device_id = $2`

	d := &models.DeviceRow{}
	err := r.db.QueryRowContext(ctx, query, sessionCode, deviceID).
		Scan(&d.SessionCode, &d.DeviceID, &d.IsHost, &d.JoinedAt, &d.LastSeenAt, &d.DeviceNameEncrypted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// List returns the devices of a session, host first, then by join time.
func (r *PostgresRepository) List(ctx context.Context, sessionCode string) ([]models.DeviceRow, error) {
	query := `
		SELECT session_code, device_id, is_host, joined_at, last_seen_at, device_name_encrypted
		FROM devices
		WHERE session_code = $1
		ORDER BY is_host DESC, joined_at, device_id`

	rows, err := r.db.QueryContext(ctx, query, sessionCode)
	if err != nil {
		return nil, fmt.Errorf("failed to select devices: %w", err)
	}
	defer rows.Close()

	var result []models.DeviceRow
	for rows.Next() {
		var d models.DeviceRow
		if err := rows.Scan(&d.SessionCode, &d.DeviceID, &d.IsHost, &d.JoinedAt, &d.LastSeenAt, &d.DeviceNameEncrypted); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, sessionCode, deviceID string, nameEncrypted *string) error {
	query := `UPDATE devices SET device_name_encrypted = $3 WHERE session_code = $1 AND device_id = $2`
	return r.execOne(ctx, query, sessionCode, deviceID, nameEncrypted)
}

func (r *PostgresRepository) Touch(ctx context.Context, sessionCode, deviceID string, at time.Time) error {
	query := `UPDATE devices SET last_seen_at = $3 WHERE session_code = $1 AND device_id = $2`
	return r.execOne(ctx, query, sessionCode, deviceID, at)
}

// execOne runs an UPDATE that must hit exactly one device.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
