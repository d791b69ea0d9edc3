// Package migrations embeds the schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib" // registers the "pgx" database/sql driver goose opens
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var schemaFS embed.FS

const dir = "sql"

func open(dbURL string) (*sql.DB, error) {
	goose.SetBaseFS(schemaFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	db, err := goose.OpenDBWithDriver("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open db for migrations: %w", err)
	}
	return db, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, dbURL string) error {
	db, err := open(dbURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Down rolls back the last steps migrations.
func Down(ctx context.Context, dbURL string, steps int) error {
	db, err := open(dbURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for range steps {
		if err := goose.DownContext(ctx, db, dir); err != nil {
			return fmt.Errorf("rollback: %w", err)
		}
	}
	return nil
}

// Version reports the currently applied schema version.
func Version(ctx context.Context, dbURL string) (int64, error) {
	db, err := open(dbURL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}
