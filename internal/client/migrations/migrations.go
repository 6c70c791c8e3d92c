// Package migrations embeds the goose SQL migrations for the local SQLite
// database. Schema evolution is strictly additive: new tables or optional
// fields arrive in new migration files, existing rows are never rewritten.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
