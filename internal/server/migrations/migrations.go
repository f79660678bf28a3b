// Package migrations embeds the relay schema for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
