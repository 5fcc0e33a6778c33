// Package migrations holds the embedded goose SQL migrations for the
// Twendy schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
