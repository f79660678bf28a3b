package items

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/client/migrations"
	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func str(s string) *string { return &s }

func row(id string, sec int) models.ItemRow {
	return models.ItemRow{
		ID:               id,
		SessionCode:      "4821093",
		Kind:             models.ItemKindText,
		DeviceID:         "dev",
		CreatedAt:        time.Date(2025, 1, 1, 0, 0, sec, 500, time.UTC),
		ContentEncrypted: str("env-" + id),
	}
}

func TestUpsertAndGet_RoundTripsNulls(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := row("a", 1)
	want.Kind = models.ItemKindFile
	want.FileNameEncrypted = str("n")
	want.DisplayIDEncrypted = str("d")
	require.NoError(t, r.Upsert(ctx, want))

	got, err := r.Get(ctx, "4821093", "a")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, *got))
	assert.Nil(t, got.FileDataEncrypted)
}

func TestUpsert_ReplacesExisting(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	first := row("a", 1)
	require.NoError(t, r.Upsert(ctx, first))
	second := first
	second.ContentEncrypted = nil
	second.UpdatedAtEncrypted = str("u")
	require.NoError(t, r.Upsert(ctx, second))

	got, err := r.Get(ctx, "4821093", "a")
	require.NoError(t, err)
	assert.Nil(t, got.ContentEncrypted)
	assert.Equal(t, "u", *got.UpdatedAtEncrypted)
}

func TestList_NewestFirstPerSession(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	other := row("x", 5)
	other.SessionCode = "1111111"
	require.NoError(t, r.Upsert(ctx, row("a", 1), row("c", 30), row("b", 9), other))

	list, err := r.List(ctx, "4821093")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})

	empty, err := r.List(ctx, "0000000")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, row("a", 1), row("b", 2)))
	require.NoError(t, r.Delete(ctx, "4821093", "a"))
	require.NoError(t, r.Delete(ctx, "4821093", "a"))

	_, err := r.Get(ctx, "4821093", "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.DeleteSession(ctx, "4821093"))
	list, err := r.List(ctx, "4821093")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestErrorsOnClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	assert.ErrorContains(t, r.Upsert(ctx, row("a", 1)), "failed to upsert item a")
	_, err := r.List(ctx, "4821093")
	assert.ErrorContains(t, err, "failed to select items")
	_, err = r.Get(ctx, "4821093", "a")
	assert.ErrorContains(t, err, "failed to get item")
	assert.Error(t, r.Delete(ctx, "4821093", "a"))
	assert.Error(t, r.DeleteSession(ctx, "4821093"))
}
