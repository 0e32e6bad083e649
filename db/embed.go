// Package db ships the SQL schema migrations.
package db

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns dir when it exists on disk, otherwise the migrations
// compiled into the binary.
func Migrations(dir string) fs.FS {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
