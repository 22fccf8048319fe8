package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/arcadmin/internal/client/migrations"
	"github.com/dmitrijs2005/arcadmin/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/arcadmin/internal/client/repositories/templatecache"
)

// Repositories bundles the local stores backed by one SQLite database.
type Repositories struct {
	Drafts    drafts.Repository
	Templates templatecache.Repository
	DB        *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local database at dsn, applies pending migrations
// and wires the repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Drafts:    drafts.NewSQLiteRepository(db),
		Templates: templatecache.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}
