// Package assets embeds the SQL migrations for the sqlite ledger backend.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var FS embed.FS

// Migrations returns the migration scripts rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// "sql" is a fixed, embedded directory.
		panic(err)
	}
	return sub
}
