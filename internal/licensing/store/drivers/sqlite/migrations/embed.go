package migrations

import "embed"

// Migrations holds the sqlite schema, applied in filename order.
//
//go:embed *.sql
var Migrations embed.FS
