package domain

import (
	"context"

	"github.com/google/uuid"
)

// AreaRepository defines the interface for area persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type AreaRepository interface {
	// SaveArea upserts an area together with its delivery zone
	SaveArea(ctx context.Context, area Area) error

	// DeleteArea removes an area and its owned zone
	DeleteArea(ctx context.Context, id uuid.UUID) error

	// GetArea retrieves a single area by id
	GetArea(ctx context.Context, id uuid.UUID) (Area, error)

	// ListAreas retrieves every persisted area with its zone
	ListAreas(ctx context.Context) ([]Area, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
