package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dastarkhwan/backend/internal/domain"
)

// PostgresRepository implements domain.AreaRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveArea upserts the area row and its owned delivery zone in one
// transaction. The boundary is stored as jsonb [lng, lat] rings with the
// closing vertex retained, so reads round-trip the stored shape exactly.
func (r *PostgresRepository) SaveArea(ctx context.Context, area domain.Area) error {
	boundary, err := area.Boundary.MarshalBoundary()
	if err != nil {
		return fmt.Errorf("postgres: failed to encode boundary: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO areas (id, name, city, center_lat, center_lng, boundary, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			center_lat = EXCLUDED.center_lat,
			center_lng = EXCLUDED.center_lng,
			boundary = EXCLUDED.boundary,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`
	_, err = tx.Exec(ctx, query,
		area.ID, area.Name, area.City, area.Center.Lat, area.Center.Lng,
		boundary, area.IsActive, area.CreatedAt, area.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save area: %w", err)
	}

	if area.Zone != nil {
		z := area.Zone
		zoneQuery := `
			INSERT INTO delivery_zones (
				id, area_id, fee_kind, flat_fee, base_fee, per_km_fee, max_km,
				min_order_amount, estimated_time, free_delivery_above, is_active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (area_id) DO UPDATE SET
				fee_kind = EXCLUDED.fee_kind,
				flat_fee = EXCLUDED.flat_fee,
				base_fee = EXCLUDED.base_fee,
				per_km_fee = EXCLUDED.per_km_fee,
				max_km = EXCLUDED.max_km,
				min_order_amount = EXCLUDED.min_order_amount,
				estimated_time = EXCLUDED.estimated_time,
				free_delivery_above = EXCLUDED.free_delivery_above,
				is_active = EXCLUDED.is_active
		`
		_, err = tx.Exec(ctx, zoneQuery,
			z.ID, z.AreaID, string(z.Fee.Kind), z.Fee.Fee, z.Fee.BaseFee, z.Fee.PerKmFee, z.Fee.MaxKm,
			z.MinOrderAmount, z.EstimatedTime, z.FreeDeliveryAbove, z.IsActive,
		)
		if err != nil {
			return fmt.Errorf("postgres: failed to save delivery zone: %w", err)
		}
	} else {
		if _, err := tx.Exec(ctx, `DELETE FROM delivery_zones WHERE area_id = $1`, area.ID); err != nil {
			return fmt.Errorf("postgres: failed to clear delivery zone: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit area save: %w", err)
	}
	return nil
}

// DeleteArea removes an area; the zone row goes with it via cascade
func (r *PostgresRepository) DeleteArea(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAreaNotFound
	}
	return nil
}

const areaColumns = `
	a.id, a.name, a.city, a.center_lat, a.center_lng, a.boundary, a.is_active, a.created_at, a.updated_at,
	z.id, z.fee_kind, z.flat_fee, z.base_fee, z.per_km_fee, z.max_km,
	z.min_order_amount, z.estimated_time, z.free_delivery_above, z.is_active
`

// GetArea retrieves a single area with its zone
func (r *PostgresRepository) GetArea(ctx context.Context, id uuid.UUID) (domain.Area, error) {
	query := `
		SELECT ` + areaColumns + `
		FROM areas a
		LEFT JOIN delivery_zones z ON z.area_id = a.id
		WHERE a.id = $1
	`
	area, err := scanArea(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	if err != nil {
		return domain.Area{}, fmt.Errorf("postgres: failed to get area: %w", err)
	}
	return area, nil
}

// ListAreas retrieves every area with its zone
func (r *PostgresRepository) ListAreas(ctx context.Context) ([]domain.Area, error) {
	query := `
		SELECT ` + areaColumns + `
		FROM areas a
		LEFT JOIN delivery_zones z ON z.area_id = a.id
		ORDER BY a.created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query areas: %w", err)
	}
	defer rows.Close()

	var results []domain.Area
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan area row: %w", err)
		}
		results = append(results, area)
	}
	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArea(row rowScanner) (domain.Area, error) {
	var (
		a         domain.Area
		boundary  []byte
		zoneID    *uuid.UUID
		feeKind   *string
		flatFee   *float64
		baseFee   *float64
		perKmFee  *float64
		maxKm     *float64
		minOrder  *float64
		eta       *int
		freeAbove *float64
		zoneOn    *bool
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.City, &a.Center.Lat, &a.Center.Lng, &boundary, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		&zoneID, &feeKind, &flatFee, &baseFee, &perKmFee, &maxKm,
		&minOrder, &eta, &freeAbove, &zoneOn,
	)
	if err != nil {
		return domain.Area{}, err
	}
	if a.Boundary, err = domain.UnmarshalBoundary(boundary); err != nil {
		return domain.Area{}, err
	}
	if zoneID != nil {
		a.Zone = &domain.DeliveryZone{
			ID:     *zoneID,
			AreaID: a.ID,
			Fee: domain.FeeStructure{
				Kind:     domain.FeeKind(*feeKind),
				Fee:      *flatFee,
				BaseFee:  *baseFee,
				PerKmFee: *perKmFee,
				MaxKm:    *maxKm,
			},
			MinOrderAmount:    *minOrder,
			EstimatedTime:     *eta,
			FreeDeliveryAbove: freeAbove,
			IsActive:          *zoneOn,
		}
	}
	return a, nil
}
