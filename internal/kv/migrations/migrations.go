// Package migrations embeds the goose migrations of the SQL store adapters,
// one directory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS
