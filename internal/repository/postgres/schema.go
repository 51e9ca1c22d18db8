package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS areas (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	city       TEXT NOT NULL,
	center_lat DOUBLE PRECISION NOT NULL,
	center_lng DOUBLE PRECISION NOT NULL,
	boundary   JSONB NOT NULL DEFAULT '[]',
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS delivery_zones (
	id                  UUID PRIMARY KEY,
	area_id             UUID NOT NULL UNIQUE REFERENCES areas(id) ON DELETE CASCADE,
	fee_kind            TEXT NOT NULL,
	flat_fee            DOUBLE PRECISION NOT NULL DEFAULT 0,
	base_fee            DOUBLE PRECISION NOT NULL DEFAULT 0,
	per_km_fee          DOUBLE PRECISION NOT NULL DEFAULT 0,
	max_km              DOUBLE PRECISION NOT NULL DEFAULT 0,
	min_order_amount    DOUBLE PRECISION NOT NULL DEFAULT 0,
	estimated_time      INTEGER NOT NULL DEFAULT 0,
	free_delivery_above DOUBLE PRECISION,
	is_active           BOOLEAN NOT NULL DEFAULT FALSE
);
`

// Migrate creates the areas and delivery_zones tables if absent
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to apply schema: %w", err)
	}
	return nil
}
