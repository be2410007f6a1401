package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the reference catalogue table. unit_cost is NULL for
// carbon-only entries; the ALTER brings tables created with a NOT NULL cost up
// to date.
const Schema = `
	CREATE TABLE IF NOT EXISTS ingredient_references (
		name_key TEXT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		unit_cost NUMERIC(16, 8) CHECK (unit_cost >= 0),
		unit VARCHAR(20) NOT NULL DEFAULT 'g',
		carbon_factor DOUBLE PRECISION CHECK (carbon_factor >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	ALTER TABLE ingredient_references ALTER COLUMN unit_cost DROP NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_ingredient_references_name ON ingredient_references(name);
`

// EnsureSchema applies Schema. It is safe to call on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply catalogue schema: %w", err)
	}
	return nil
}
