package migrations

import "embed"

// Migrations holds the postgres schema, applied in filename order.
//
//go:embed *.sql
var Migrations embed.FS
