// Package migrations embeds the goose SQL migrations so they can be applied
// programmatically on startup and in the test harness.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
