package sqlite

import (
	"context"
	"database/sql"

	"github.com/kailas-cloud/patentsim/internal/db"
)

// schema is the single corpus table. number is the natural key; id fixes list order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS patents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		number TEXT UNIQUE,
		title TEXT,
		abstract TEXT,
		claims TEXT
	)`,
}

// Migrate applies the schema. It is idempotent.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	for _, stmt := range schema {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	return nil
}
