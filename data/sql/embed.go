// Package sqldata embeds the schema migrations and applies them with goose.
package sqldata

import "embed"

//go:embed migrations/*.sql
var migrationsFS embed.FS
