package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/dmitrijs2005/clipshare/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv loads the -env-file (or ./.env when present) into the process
// environment and overlays every CLIPSHARE_* variable that is set.
func parseEnv(config *Config, args []string) {
	if path := flagx.EnvFilePath(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
