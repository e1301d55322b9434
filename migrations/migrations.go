// Package migrations embeds the SQL migration files so the runner and
// integration tests apply the same schema.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
