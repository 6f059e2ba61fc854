// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests, the CLI and server bootstrap.
package migrations

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS

// NewProvider returns a goose provider running the embedded migrations
// against db, which must be a Postgres database/sql handle.
func NewProvider(db *sql.DB) (*goose.Provider, error) {
	return goose.NewProvider(goose.DialectPostgres, db, FS)
}
