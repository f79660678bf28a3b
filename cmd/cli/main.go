package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/clipshare/internal/buildinfo"
	"github.com/dmitrijs2005/clipshare/internal/client/cli"
	"github.com/dmitrijs2005/clipshare/internal/client/client"
	"github.com/dmitrijs2005/clipshare/internal/client/config"
	"github.com/dmitrijs2005/clipshare/internal/client/services"
	"github.com/dmitrijs2005/clipshare/internal/cryptox"
	"github.com/dmitrijs2005/clipshare/internal/export"
	"github.com/dmitrijs2005/clipshare/internal/filecrypt"
	"github.com/dmitrijs2005/clipshare/internal/logging"
)

func main() {
	buildinfo.Print(os.Stdout, "clipshare")

	ctx := context.Background()
	cfg := config.LoadConfig()

	// logs go to stderr so they never mix with exports written to stdout
	logger, err := logging.New(os.Stderr, cfg.LogLevel, "text")
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	apiClient, err := client.NewClipshareClient(cfg.ServerEndpointAddr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	keys, err := cryptox.NewKeyRing(cfg.KeyRingSize)
	if err != nil {
		log.Fatalf("%v", err)
	}
	files := filecrypt.NewRegistry()

	ss := services.NewSessionService(apiClient, db, keys, files, logger)
	cs := services.NewClipService(apiClient, db, ss, files, services.ClipOptions{
		Concurrency: cfg.DecryptConcurrency,
		DownloadDir: cfg.DownloadDir,
		S3: export.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		},
	}, logger)

	app := cli.NewApp(cfg, ss, cs, logger, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
