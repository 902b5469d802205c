package storage

import (
	"context"
	"embed"

	"github.com/md-rashed-zaman/openhours/libs/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies this service's schema migrations.
func Migrate(ctx context.Context, pool *db.Pool) error {
	return db.Migrate(ctx, pool, migrationsFS, "migrations")
}
