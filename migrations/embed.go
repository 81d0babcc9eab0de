// Package migrations embeds the SQL migration files so the goose programmatic
// API can apply them in tests and at server bootstrap without shipping loose
// files next to the binary.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.NewProvider instead of a filesystem path.
//
//go:embed *.sql
var FS embed.FS
