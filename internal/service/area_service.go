package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dastarkhwan/backend/internal/cache"
	"github.com/dastarkhwan/backend/internal/catalog"
	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
	"github.com/dastarkhwan/backend/pkg/utils"
)

// AreaService commits authoring-tool output (editor rings, pasted
// coordinate lists) into persistent storage and keeps the in-memory
// catalog in sync. Every mutation invalidates the verdict cache.
type AreaService struct {
	repo    domain.AreaRepository
	catalog *catalog.Catalog
	cache   *cache.VerdictCache
	bounds  geo.Bounds
}

// NewAreaService creates a new area service. cache may be nil.
func NewAreaService(repo domain.AreaRepository, cat *catalog.Catalog, vc *cache.VerdictCache, bounds geo.Bounds) *AreaService {
	return &AreaService{repo: repo, catalog: cat, cache: vc, bounds: bounds}
}

// LoadCatalog rebuilds the catalog snapshot from persistent storage,
// called once at boot before the engine starts answering queries.
func (s *AreaService) LoadCatalog(ctx context.Context) error {
	areas, err := s.repo.ListAreas(ctx)
	if err != nil {
		return fmt.Errorf("area: failed to load catalog: %w", err)
	}
	s.catalog.Load(areas)
	return nil
}

// CreateArea persists a new area. boundary may be nil while the operator
// is still drawing; an area without a boundary cannot activate its zone.
func (s *AreaService) CreateArea(ctx context.Context, name, city string, center domain.Coordinate, boundary *domain.Polygon) (domain.Area, error) {
	if !geo.IsValidCoordinate(center, s.bounds) {
		return domain.Area{}, domain.ErrInvalidCoordinate
	}
	area := domain.Area{
		ID:        uuid.New(),
		Name:      name,
		City:      city,
		Center:    center,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if boundary != nil {
		if err := s.validateBoundary(*boundary); err != nil {
			return domain.Area{}, err
		}
		area.Boundary = boundary.Clone()
	}
	if err := s.repo.SaveArea(ctx, area); err != nil {
		return domain.Area{}, err
	}
	s.applyMutation(area)
	return area, nil
}

// UpdateArea renames or recenters an existing area
func (s *AreaService) UpdateArea(ctx context.Context, id uuid.UUID, name, city string, center domain.Coordinate) (domain.Area, error) {
	area, ok := s.catalog.AreaByID(id)
	if !ok {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	if !geo.IsValidCoordinate(center, s.bounds) {
		return domain.Area{}, domain.ErrInvalidCoordinate
	}
	area.Name = name
	area.City = city
	area.Center = center
	area.UpdatedAt = time.Now()
	if err := s.repo.SaveArea(ctx, area); err != nil {
		return domain.Area{}, err
	}
	s.applyMutation(area)
	return area, nil
}

// UpdateBoundary replaces an area's boundary with a freshly committed ring
func (s *AreaService) UpdateBoundary(ctx context.Context, id uuid.UUID, boundary domain.Polygon) (domain.Area, error) {
	area, ok := s.catalog.AreaByID(id)
	if !ok {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	if err := s.validateBoundary(boundary); err != nil {
		return domain.Area{}, err
	}
	area.Boundary = boundary.Clone()
	area.UpdatedAt = time.Now()
	if err := s.repo.SaveArea(ctx, area); err != nil {
		return domain.Area{}, err
	}
	s.applyMutation(area)
	return area, nil
}

// DeleteArea removes an area; its delivery zone is destroyed with it
func (s *AreaService) DeleteArea(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.catalog.AreaByID(id); !ok {
		return domain.ErrAreaNotFound
	}
	if err := s.repo.DeleteArea(ctx, id); err != nil {
		return err
	}
	s.catalog.RemoveArea(id)
	s.cache.Invalidate()
	return nil
}

// ConfigureZone creates or updates the area's delivery zone fee settings.
// A reconfigured zone keeps its active flag; a new zone starts inactive.
func (s *AreaService) ConfigureZone(ctx context.Context, areaID uuid.UUID, fee domain.FeeStructure, minOrder float64, etaMinutes int, freeAbove *float64) (domain.Area, error) {
	area, ok := s.catalog.AreaByID(areaID)
	if !ok {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	zone := domain.DeliveryZone{
		ID:                uuid.New(),
		AreaID:            areaID,
		Fee:               fee,
		MinOrderAmount:    minOrder,
		EstimatedTime:     etaMinutes,
		FreeDeliveryAbove: freeAbove,
	}
	if area.Zone != nil {
		zone.ID = area.Zone.ID
		zone.IsActive = area.Zone.IsActive
	}
	area.Zone = &zone
	area.UpdatedAt = time.Now()
	if err := s.repo.SaveArea(ctx, area); err != nil {
		return domain.Area{}, err
	}
	s.applyMutation(area)
	return area, nil
}

// SetAreaActive toggles the area's active flag. The catalog change is
// rolled back if the flag cannot be persisted, so the in-memory view
// never runs ahead of storage.
func (s *AreaService) SetAreaActive(ctx context.Context, id uuid.UUID, active bool) error {
	prev, ok := s.catalog.AreaByID(id)
	if !ok {
		return domain.ErrAreaNotFound
	}
	if err := s.catalog.SetAreaActive(id, active); err != nil {
		return err
	}
	if err := s.persistFromCatalog(ctx, id); err != nil {
		s.catalog.UpsertArea(prev)
		return err
	}
	s.cache.Invalidate()
	return nil
}

// SetZoneActive toggles the zone's active flag, enforcing the boundary
// and area-active guards. Rolled back like SetAreaActive when the
// repository write fails.
func (s *AreaService) SetZoneActive(ctx context.Context, areaID uuid.UUID, active bool) error {
	prev, ok := s.catalog.AreaByID(areaID)
	if !ok {
		return domain.ErrAreaNotFound
	}
	if err := s.catalog.SetZoneActive(areaID, active); err != nil {
		return err
	}
	if err := s.persistFromCatalog(ctx, areaID); err != nil {
		s.catalog.UpsertArea(prev)
		return err
	}
	s.cache.Invalidate()
	return nil
}

// GetArea returns a single area from the catalog
func (s *AreaService) GetArea(id uuid.UUID) (domain.Area, error) {
	area, ok := s.catalog.AreaByID(id)
	if !ok {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	return area, nil
}

// ListAreas returns every area in the catalog
func (s *AreaService) ListAreas() []domain.Area {
	return s.catalog.Areas()
}

// AreaSummary returns the authoring readout for an area's boundary
func (s *AreaService) AreaSummary(id uuid.UUID) (domain.AreaSummary, error) {
	area, ok := s.catalog.AreaByID(id)
	if !ok {
		return domain.AreaSummary{}, domain.ErrAreaNotFound
	}
	ring := area.Boundary.OuterRing()
	return domain.AreaSummary{
		AreaID:      id,
		VertexCount: ring.DistinctCount(),
		AreaSqKm:    utils.RoundTo(geo.GeodesicArea(ring)/1e6, 3),
		PerimeterKm: utils.RoundTo(geo.RingPerimeterKm(ring), 3),
		HasBoundary: area.Boundary.HasBoundary(),
	}, nil
}

// validateBoundary checks ring closure, the distinct-vertex minimum and
// coordinate bounds for every vertex of every ring.
func (s *AreaService) validateBoundary(p domain.Polygon) error {
	if !p.HasBoundary() {
		return domain.ErrIncompleteRing
	}
	for _, ring := range p.Rings {
		if geo.DistinctVertexCount(ring) < geo.MinRingVertices {
			return domain.ErrDegenerateRing
		}
		for _, c := range ring {
			if !geo.IsValidCoordinate(c, s.bounds) {
				return domain.ErrInvalidCoordinate
			}
		}
	}
	return nil
}

func (s *AreaService) applyMutation(area domain.Area) {
	s.catalog.UpsertArea(area)
	s.cache.Invalidate()
}

// persistFromCatalog writes the catalog's current view of an area back
// to storage after a flag toggle.
func (s *AreaService) persistFromCatalog(ctx context.Context, id uuid.UUID) error {
	area, ok := s.catalog.AreaByID(id)
	if !ok {
		return domain.ErrAreaNotFound
	}
	if err := s.repo.SaveArea(ctx, area); err != nil {
		return fmt.Errorf("area: failed to persist flag change: %w", err)
	}
	return nil
}
