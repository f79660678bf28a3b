// Command server runs the clipshare relay.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/clipshare/internal/buildinfo"
	"github.com/dmitrijs2005/clipshare/internal/server"
	"github.com/dmitrijs2005/clipshare/internal/server/config"
)

func main() {
	buildinfo.Print(os.Stdout, "clipshare relay")

	ctx := context.Background()
	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
