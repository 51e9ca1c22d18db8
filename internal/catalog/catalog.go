// Package catalog holds the process-wide read model of delivery areas.
// Mutations are applied as atomic swaps of an immutable snapshot, so a
// serviceability query sees either the old or the new catalog in full,
// never a partial one.
package catalog

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dastarkhwan/backend/internal/domain"
)

// ZoneEntry pairs an area with its delivery zone for engine scans
type ZoneEntry struct {
	Area domain.Area
	Zone domain.DeliveryZone
}

type snapshot struct {
	areas []domain.Area
	index map[uuid.UUID]int
}

// Catalog is safe for concurrent readers. Writers are serialized by a
// mutex; readers load the current snapshot without coordination.
type Catalog struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

// New creates an empty catalog
func New() *Catalog {
	c := &Catalog{}
	c.snap.Store(emptySnapshot())
	return c
}

func emptySnapshot() *snapshot {
	return &snapshot{index: map[uuid.UUID]int{}}
}

func buildSnapshot(areas []domain.Area) *snapshot {
	s := &snapshot{
		areas: areas,
		index: make(map[uuid.UUID]int, len(areas)),
	}
	for i, a := range areas {
		s.index[a.ID] = i
	}
	return s
}

// clone deep-copies the current snapshot's areas for mutation
func (c *Catalog) clone() []domain.Area {
	cur := c.snap.Load()
	areas := make([]domain.Area, len(cur.areas))
	for i, a := range cur.areas {
		areas[i] = a.Clone()
	}
	return areas
}

// Load rebuilds the whole catalog from persisted storage
func (c *Catalog) Load(areas []domain.Area) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]domain.Area, len(areas))
	for i, a := range areas {
		cp[i] = a.Clone()
	}
	c.snap.Store(buildSnapshot(cp))
}

// UpsertArea inserts or replaces an area
func (c *Catalog) UpsertArea(area domain.Area) {
	c.mu.Lock()
	defer c.mu.Unlock()
	areas := c.clone()
	if i, ok := c.snap.Load().index[area.ID]; ok {
		areas[i] = area.Clone()
	} else {
		areas = append(areas, area.Clone())
	}
	c.snap.Store(buildSnapshot(areas))
}

// RemoveArea deletes an area and its owned zone
func (c *Catalog) RemoveArea(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	areas := c.clone()
	i, ok := c.snap.Load().index[id]
	if !ok {
		return
	}
	areas = append(areas[:i], areas[i+1:]...)
	c.snap.Store(buildSnapshot(areas))
}

// SetAreaActive toggles an area's active flag. Deactivating an area
// takes its zone out of serviceability scans regardless of the zone flag.
func (c *Catalog) SetAreaActive(id uuid.UUID, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	areas := c.clone()
	i, ok := c.snap.Load().index[id]
	if !ok {
		return domain.ErrAreaNotFound
	}
	areas[i].IsActive = active
	c.snap.Store(buildSnapshot(areas))
	return nil
}

// SetZoneActive toggles a zone's active flag. Activation is guarded:
// it fails with ErrNoBoundary when the area has no committed ring and
// with ErrAreaInactive when the owning area is not active.
func (c *Catalog) SetZoneActive(areaID uuid.UUID, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	areas := c.clone()
	i, ok := c.snap.Load().index[areaID]
	if !ok {
		return domain.ErrAreaNotFound
	}
	if areas[i].Zone == nil {
		return domain.ErrZoneNotFound
	}
	if active {
		if !areas[i].Boundary.HasBoundary() {
			return domain.ErrNoBoundary
		}
		if !areas[i].IsActive {
			return domain.ErrAreaInactive
		}
	}
	areas[i].Zone.IsActive = active
	c.snap.Store(buildSnapshot(areas))
	return nil
}

// AreaByID returns a copy of the area with the given id
func (c *Catalog) AreaByID(id uuid.UUID) (domain.Area, bool) {
	s := c.snap.Load()
	i, ok := s.index[id]
	if !ok {
		return domain.Area{}, false
	}
	return s.areas[i].Clone(), true
}

// Areas returns a copy of every area in the catalog
func (c *Catalog) Areas() []domain.Area {
	s := c.snap.Load()
	out := make([]domain.Area, len(s.areas))
	for i, a := range s.areas {
		out[i] = a.Clone()
	}
	return out
}

// ActiveZones returns the zones eligible for serviceability queries:
// both the area and its zone must be active. The slice is built from a
// single snapshot, so iteration is stable and restartable.
func (c *Catalog) ActiveZones() []ZoneEntry {
	s := c.snap.Load()
	var out []ZoneEntry
	for _, a := range s.areas {
		if !a.IsActive || a.Zone == nil || !a.Zone.IsActive {
			continue
		}
		cp := a.Clone()
		out = append(out, ZoneEntry{Area: cp, Zone: *cp.Zone})
	}
	return out
}

// Len returns the number of areas in the catalog
func (c *Catalog) Len() int {
	return len(c.snap.Load().areas)
}
