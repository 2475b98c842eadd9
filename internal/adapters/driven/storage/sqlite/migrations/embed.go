// Package migrations holds the schema for the sqlite document store and
// vector index, applied in filename order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
