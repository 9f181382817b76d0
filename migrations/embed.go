// Package migrations contiene el esquema SQL embebido para golang-migrate.
package migrations

import "embed"

// FS archivos NNNN_nombre.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS
