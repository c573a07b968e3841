package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/iliyamo/glamping-reservation/internal/model"
	"github.com/iliyamo/glamping-reservation/internal/repository"
)

//go:embed schema.sql
var schema string

// Statements splits the embedded schema into individual statements.
func Statements() []string {
	var out []string
	for _, stmt := range strings.Split(schema, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Migrate creates any missing table.  Every statement is idempotent, so it is
// safe to run on each start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SeedCabins inserts the given cabins when the store has none.  It returns
// the number of cabins created.
func SeedCabins(ctx context.Context, cabins repository.CabinStore, defaults ...model.Cabin) (int, error) {
	existing, err := cabins.ListCabins(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, c := range defaults {
		if _, err := cabins.CreateCabin(ctx, c); err != nil {
			return 0, fmt.Errorf("seed cabin %q: %w", c.Name, err)
		}
	}
	return len(defaults), nil
}
