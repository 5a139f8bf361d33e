package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// requiredTables must exist once the schema is applied.
var requiredTables = []string{"trips"}

// Run applies pending up migrations from sourceURL (e.g. "file://database/migrations")
// to the database at dbURL.
func Run(sourceURL, dbURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return fmt.Errorf("could not start migrations: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("Schema is up to date.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations applied successfully!")
	return nil
}

// Querier is the subset of *sql.DB CheckSchema needs.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// CheckSchema verifies that the tables the service reads and writes exist.
func CheckSchema(ctx context.Context, db Querier) error {
	for _, table := range requiredTables {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (
                SELECT 1
                FROM information_schema.tables
                WHERE table_schema = 'public'
                  AND table_name   = $1
            )`,
			table,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("migration: check table %q: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("migration: required table %q is missing", table)
		}
	}
	return nil
}
