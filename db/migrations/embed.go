// Package migrations embeds the goose SQL migrations of the books table.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
