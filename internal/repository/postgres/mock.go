package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dastarkhwan/backend/internal/domain"
)

// MockRepository implements domain.AreaRepository in memory for
// testing/demo mode. Unlike the database it keeps whatever is written,
// so authoring flows read back their own commits.
type MockRepository struct {
	mu    sync.RWMutex
	areas map[uuid.UUID]domain.Area
}

// NewMockRepository creates an empty in-memory repository
func NewMockRepository() *MockRepository {
	return &MockRepository{areas: make(map[uuid.UUID]domain.Area)}
}

// SaveArea stores a deep copy of the area
func (r *MockRepository) SaveArea(ctx context.Context, area domain.Area) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.areas[area.ID] = area.Clone()
	return nil
}

// DeleteArea removes an area and its owned zone
func (r *MockRepository) DeleteArea(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.areas[id]; !ok {
		return domain.ErrAreaNotFound
	}
	delete(r.areas, id)
	return nil
}

// GetArea retrieves a single area
func (r *MockRepository) GetArea(ctx context.Context, id uuid.UUID) (domain.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	area, ok := r.areas[id]
	if !ok {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	return area.Clone(), nil
}

// ListAreas retrieves every stored area
func (r *MockRepository) ListAreas(ctx context.Context) ([]domain.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Area, 0, len(r.areas))
	for _, a := range r.areas {
		out = append(out, a.Clone())
	}
	return out, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}

// SeedDemo loads two reference areas so demo mode answers queries out of
// the box: a flat-fee zone in Lahore and a distance-based zone in Karachi.
func (r *MockRepository) SeedDemo() {
	freeAbove := 2000.0
	dhaID := uuid.New()
	cliftonID := uuid.New()
	now := time.Now()

	dha := domain.Area{
		ID:     dhaID,
		Name:   "DHA Phase 8",
		City:   "Lahore",
		Center: domain.Coordinate{Lat: 31.505, Lng: 74.355},
		Boundary: domain.Polygon{Rings: []domain.Ring{{
			{Lat: 31.50, Lng: 74.35},
			{Lat: 31.51, Lng: 74.35},
			{Lat: 31.51, Lng: 74.36},
			{Lat: 31.50, Lng: 74.36},
			{Lat: 31.50, Lng: 74.35},
		}}},
		IsActive: true,
		Zone: &domain.DeliveryZone{
			ID:                uuid.New(),
			AreaID:            dhaID,
			Fee:               domain.FeeStructure{Kind: domain.FeeFlat, Fee: 149},
			MinOrderAmount:    500,
			EstimatedTime:     35,
			FreeDeliveryAbove: &freeAbove,
			IsActive:          true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	clifton := domain.Area{
		ID:     cliftonID,
		Name:   "Clifton",
		City:   "Karachi",
		Center: domain.Coordinate{Lat: 24.86, Lng: 67.00},
		Boundary: domain.Polygon{Rings: []domain.Ring{{
			{Lat: 24.76, Lng: 66.90},
			{Lat: 24.96, Lng: 66.90},
			{Lat: 24.96, Lng: 67.10},
			{Lat: 24.76, Lng: 67.10},
			{Lat: 24.76, Lng: 66.90},
		}}},
		IsActive: true,
		Zone: &domain.DeliveryZone{
			ID:             uuid.New(),
			AreaID:         cliftonID,
			Fee:            domain.FeeStructure{Kind: domain.FeeDistance, BaseFee: 100, PerKmFee: 20, MaxKm: 8},
			MinOrderAmount: 300,
			EstimatedTime:  45,
			IsActive:       true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.areas[dha.ID] = dha
	r.areas[clifton.ID] = clifton
}
