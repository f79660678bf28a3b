// Package server wires the relay: it opens Postgres, applies migrations and
// runs the gRPC relay next to the HTTP health endpoint until a signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/clipshare/internal/logging"
	"github.com/dmitrijs2005/clipshare/internal/server/config"
	"github.com/dmitrijs2005/clipshare/internal/server/httpapi"
	"github.com/dmitrijs2005/clipshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clipshare/internal/server/services"

	gs "github.com/dmitrijs2005/clipshare/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	grpc     *gs.GRPCServer
	http     *httpapi.Handler
	shutdown chan os.Signal
}

// openDB is a seam for tests.
var openDB = repomanager.OpenPostgres

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	ss := services.NewSessionService(db, rm, c)
	is := services.NewItemService(db, rm)
	ds := services.NewDeviceService(db, rm)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		grpc:     gs.NewGRPCServer(c.EndpointAddrGRPC, logger, ss, is, ds, c.SecretKey),
		http:     httpapi.NewHandler(db, logger),
		shutdown: make(chan os.Signal, 1),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	signal.Notify(app.shutdown, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-app.shutdown
		cancelFunc()
	}()
}

// Run blocks until a shutdown signal arrives, ctx is cancelled or one of the
// servers fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)
	defer signal.Stop(app.shutdown)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.grpc.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server failed", "error", err)
			cancelFunc()
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx, app.config.EndpointAddrHTTP); err != nil {
			app.logger.Error(ctx, "http server failed", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
