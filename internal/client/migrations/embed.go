// Package migrations embeds the local database schema applied with goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
