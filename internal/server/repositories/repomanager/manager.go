package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/clipshare/internal/dbx"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/devices"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/items"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/sessions"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Sessions(db dbx.DBTX) sessions.Repository
	Devices(db dbx.DBTX) devices.Repository
	Items(db dbx.DBTX) items.Repository
}
