package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/footprint/internal/models"
)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS public.building_addresses (
		id             BIGSERIAL PRIMARY KEY,
		source         TEXT NOT NULL,
		label          TEXT NOT NULL,
		latitude       DOUBLE PRECISION NOT NULL,
		longitude      DOUBLE PRECISION NOT NULL,
		street_address TEXT NOT NULL,
		resolved_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

const insertBuildingQuery = `
	INSERT INTO public.building_addresses (source, label, latitude, longitude, street_address)
	VALUES ($1, $2, $3, $4, $5);
`

// SaveBuildings stores a resolved batch in the building_addresses table.
// The table is created on first use. All rows are written in a single
// transaction; any failure rolls the whole batch back.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - source: The input file the batch was read from.
// - buildings: The resolved buildings, stored in order.
func (r *Repository) SaveBuildings(ctx context.Context, source string, buildings []models.ResolvedBuilding) error {
	if _, err := r.db.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create building_addresses table: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for idx, b := range buildings {
		_, err = tx.Exec(ctx, insertBuildingQuery, source, b.Label, b.Latitude, b.Longitude, b.StreetAddress)
		if err != nil {
			if errRollback := tx.Rollback(ctx); errRollback != nil {
				r.log.ErrorContext(ctx, "Failed to rollback transaction", "error", errRollback)
			}
			return fmt.Errorf("failed to insert building %d: %w", idx, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit building addresses: %w", err)
	}

	r.log.DebugContext(ctx, "Stored resolved buildings", "source", source, "rows", len(buildings))

	return nil
}
