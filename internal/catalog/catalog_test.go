package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastarkhwan/backend/internal/domain"
)

func squareBoundary() domain.Polygon {
	return domain.Polygon{Rings: []domain.Ring{{
		{Lat: 31.50, Lng: 74.35},
		{Lat: 31.51, Lng: 74.35},
		{Lat: 31.51, Lng: 74.36},
		{Lat: 31.50, Lng: 74.35},
	}}}
}

func makeArea(name string, withBoundary, areaActive, zoneActive bool) domain.Area {
	a := domain.Area{
		ID:       uuid.New(),
		Name:     name,
		City:     "Lahore",
		Center:   domain.Coordinate{Lat: 31.505, Lng: 74.355},
		IsActive: areaActive,
		Zone: &domain.DeliveryZone{
			ID:             uuid.New(),
			Fee:            domain.FeeStructure{Kind: domain.FeeFlat, Fee: 149},
			MinOrderAmount: 500,
			EstimatedTime:  35,
			IsActive:       zoneActive,
		},
	}
	a.Zone.AreaID = a.ID
	if withBoundary {
		a.Boundary = squareBoundary()
	}
	return a
}

func TestUpsertAndLookup(t *testing.T) {
	c := New()
	a := makeArea("DHA Phase 8", true, true, true)

	c.UpsertArea(a)
	assert.Equal(t, 1, c.Len())

	got, ok := c.AreaByID(a.ID)
	require.True(t, ok)
	assert.Equal(t, a.Name, got.Name)

	// replace on same id
	a.Name = "DHA Phase 8 Extension"
	c.UpsertArea(a)
	assert.Equal(t, 1, c.Len())
	got, _ = c.AreaByID(a.ID)
	assert.Equal(t, "DHA Phase 8 Extension", got.Name)

	_, ok = c.AreaByID(uuid.New())
	assert.False(t, ok)
}

func TestRemoveArea(t *testing.T) {
	c := New()
	a := makeArea("Clifton", true, true, true)
	c.UpsertArea(a)

	c.RemoveArea(a.ID)
	assert.Zero(t, c.Len())

	// removing an unknown id is a no-op
	c.RemoveArea(uuid.New())
	assert.Zero(t, c.Len())
}

func TestLoadReplacesEverything(t *testing.T) {
	c := New()
	c.UpsertArea(makeArea("Old", true, true, true))

	fresh := []domain.Area{
		makeArea("A", true, true, true),
		makeArea("B", true, true, false),
	}
	c.Load(fresh)

	assert.Equal(t, 2, c.Len())
	_, ok := c.AreaByID(fresh[0].ID)
	assert.True(t, ok)
}

func TestSetAreaActive(t *testing.T) {
	c := New()
	a := makeArea("Gulberg", true, true, true)
	c.UpsertArea(a)

	require.NoError(t, c.SetAreaActive(a.ID, false))
	got, _ := c.AreaByID(a.ID)
	assert.False(t, got.IsActive)
	assert.Empty(t, c.ActiveZones(), "inactive area hides its zone")

	assert.ErrorIs(t, c.SetAreaActive(uuid.New(), true), domain.ErrAreaNotFound)
}

func TestSetZoneActiveGuards(t *testing.T) {
	c := New()

	t.Run("unknown area", func(t *testing.T) {
		assert.ErrorIs(t, c.SetZoneActive(uuid.New(), true), domain.ErrAreaNotFound)
	})

	t.Run("no zone configured", func(t *testing.T) {
		a := makeArea("NoZone", true, true, false)
		a.Zone = nil
		c.UpsertArea(a)
		assert.ErrorIs(t, c.SetZoneActive(a.ID, true), domain.ErrZoneNotFound)
	})

	t.Run("no committed boundary", func(t *testing.T) {
		a := makeArea("NoBoundary", false, true, false)
		c.UpsertArea(a)
		assert.ErrorIs(t, c.SetZoneActive(a.ID, true), domain.ErrNoBoundary)
	})

	t.Run("owning area inactive", func(t *testing.T) {
		a := makeArea("Dormant", true, false, false)
		c.UpsertArea(a)
		assert.ErrorIs(t, c.SetZoneActive(a.ID, true), domain.ErrAreaInactive)
	})

	t.Run("activation succeeds when guarded conditions hold", func(t *testing.T) {
		a := makeArea("Ready", true, true, false)
		c.UpsertArea(a)
		require.NoError(t, c.SetZoneActive(a.ID, true))
		got, _ := c.AreaByID(a.ID)
		assert.True(t, got.Zone.IsActive)
	})

	t.Run("deactivation is never guarded", func(t *testing.T) {
		a := makeArea("WindDown", false, false, true)
		c.UpsertArea(a)
		require.NoError(t, c.SetZoneActive(a.ID, false))
	})
}

func TestActiveZonesFiltering(t *testing.T) {
	c := New()
	eligible := makeArea("Eligible", true, true, true)
	zoneOff := makeArea("ZoneOff", true, true, false)
	areaOff := makeArea("AreaOff", true, false, true)
	noZone := makeArea("NoZone", true, true, true)
	noZone.Zone = nil

	for _, a := range []domain.Area{eligible, zoneOff, areaOff, noZone} {
		c.UpsertArea(a)
	}

	entries := c.ActiveZones()
	require.Len(t, entries, 1)
	assert.Equal(t, eligible.ID, entries[0].Area.ID)
	assert.Equal(t, eligible.Zone.ID, entries[0].Zone.ID)
}

// Readers holding a slice from before a mutation must not observe the change.
func TestSnapshotIsolation(t *testing.T) {
	c := New()
	a := makeArea("Stable", true, true, true)
	c.UpsertArea(a)

	before := c.ActiveZones()
	require.Len(t, before, 1)

	require.NoError(t, c.SetZoneActive(a.ID, false))
	c.RemoveArea(a.ID)

	assert.Len(t, before, 1)
	assert.True(t, before[0].Zone.IsActive)
	assert.True(t, before[0].Area.Boundary.HasBoundary())
}

func TestReturnedCopiesDoNotAliasCatalogState(t *testing.T) {
	c := New()
	a := makeArea("Isolated", true, true, true)
	free := 2000.0
	a.Zone.FreeDeliveryAbove = &free
	c.UpsertArea(a)

	got, _ := c.AreaByID(a.ID)
	got.Boundary.Rings[0][0].Lat = 0
	got.Zone.IsActive = false
	*got.Zone.FreeDeliveryAbove = 1

	fresh, _ := c.AreaByID(a.ID)
	assert.Equal(t, 31.50, fresh.Boundary.Rings[0][0].Lat)
	assert.True(t, fresh.Zone.IsActive)
	assert.Equal(t, 2000.0, *fresh.Zone.FreeDeliveryAbove)

	entries := c.ActiveZones()
	entries[0].Zone.IsActive = false
	*entries[0].Zone.FreeDeliveryAbove = 1
	fresh, _ = c.AreaByID(a.ID)
	assert.True(t, fresh.Zone.IsActive)
	assert.Equal(t, 2000.0, *fresh.Zone.FreeDeliveryAbove)
}
