// Package migrations embeds the versioned PostgreSQL schema so the migrate
// binary carries its own SQL.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
