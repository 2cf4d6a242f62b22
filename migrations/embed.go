// Package migrations embeds the SQL migration files so the binary can
// migrate the database it connects to.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
