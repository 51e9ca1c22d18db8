package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
)

var (
	p1 = domain.Coordinate{Lat: 31.50, Lng: 74.35}
	p2 = domain.Coordinate{Lat: 31.51, Lng: 74.35}
	p3 = domain.Coordinate{Lat: 31.51, Lng: 74.36}
	p4 = domain.Coordinate{Lat: 31.50, Lng: 74.36}
)

func newSquareEditor(t *testing.T) *Editor {
	t.Helper()
	e := New(geo.DefaultBounds)
	for _, p := range []domain.Coordinate{p1, p2, p3, p4} {
		require.NoError(t, e.AppendVertex(p))
	}
	return e
}

func TestStateTransitions(t *testing.T) {
	e := New(geo.DefaultBounds)
	assert.Equal(t, StateEmpty, e.State())

	require.NoError(t, e.AppendVertex(p1))
	assert.Equal(t, StatePlacingFirstPoint, e.State())

	require.NoError(t, e.AppendVertex(p2))
	assert.Equal(t, StateEditing, e.State())

	require.NoError(t, e.AppendVertex(p3))
	assert.Equal(t, StateClosed, e.State())

	e.Reset()
	assert.Equal(t, StateEmpty, e.State())
	assert.Zero(t, e.VertexCount())
}

func TestAddFirstVertex(t *testing.T) {
	e := New(geo.DefaultBounds)
	require.NoError(t, e.AddFirstVertex(p1))

	ring := e.Ring()
	require.Len(t, ring, 2)
	assert.Equal(t, p1, ring[0])
	assert.Equal(t, p1, ring[1], "single point closes onto itself")

	assert.Error(t, e.AddFirstVertex(p2), "ring already started")
}

func TestAddFirstVertexRejectsOutOfBounds(t *testing.T) {
	e := New(geo.DefaultBounds)
	err := e.AddFirstVertex(domain.Coordinate{Lat: 51.5, Lng: -0.12})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)
	assert.Equal(t, StateEmpty, e.State())
}

// The ring must stay closed after every single mutation, not only at commit.
func TestAppendVertexKeepsRingClosed(t *testing.T) {
	e := New(geo.DefaultBounds)
	for i, p := range []domain.Coordinate{p1, p2, p3, p4} {
		require.NoError(t, e.AppendVertex(p))
		ring := e.Ring()
		assert.True(t, ring.Closed(), "ring open after vertex %d", i+1)
		assert.Equal(t, i+1, ring.DistinctCount())
	}
	// insertion order preserved, closing duplicate last
	assert.Equal(t, domain.Ring{p1, p2, p3, p4, p1}, e.Ring())
}

// A double click, or a click back onto any placed vertex, must not plant
// a duplicate that inflates the vertex count.
func TestAppendVertexIgnoresDuplicates(t *testing.T) {
	e := New(geo.DefaultBounds)
	require.NoError(t, e.AppendVertex(p1))
	require.NoError(t, e.AppendVertex(p1))
	assert.Equal(t, 1, e.VertexCount())
	assert.Equal(t, StatePlacingFirstPoint, e.State())

	require.NoError(t, e.AppendVertex(p2))
	require.NoError(t, e.AppendVertex(p1), "click back on the first vertex")
	assert.Equal(t, 2, e.VertexCount())
	assert.Equal(t, StateEditing, e.State())

	_, err := e.Commit()
	assert.ErrorIs(t, err, domain.ErrIncompleteRing)

	require.NoError(t, e.AppendVertex(p3))
	assert.Equal(t, StateClosed, e.State())
	assert.Equal(t, domain.Ring{p1, p2, p3, p1}, e.Ring())
}

// Dragging vertices onto each other collapses the distinct count; the
// ring must drop out of Closed and refuse to commit.
func TestCommitRequiresThreeDistinctVertexValues(t *testing.T) {
	e := newSquareEditor(t)
	require.NoError(t, e.MoveVertex(1, p1))
	require.NoError(t, e.MoveVertex(2, p1))

	assert.Equal(t, StateEditing, e.State())
	_, err := e.Commit()
	assert.ErrorIs(t, err, domain.ErrIncompleteRing)

	// drag one back out and the ring completes again
	require.NoError(t, e.MoveVertex(2, p3))
	assert.Equal(t, StateClosed, e.State())
	_, err = e.Commit()
	assert.NoError(t, err)
}

func TestDeleteVertexGuardCountsDistinctValues(t *testing.T) {
	e := newSquareEditor(t)
	require.NoError(t, e.MoveVertex(3, p3)) // ring now holds p3 twice
	before := e.Ring()

	// removing p2 would leave only the values p1 and p3
	assert.ErrorIs(t, e.DeleteVertex(1), domain.ErrMinimumVertexCount)
	assert.Equal(t, before, e.Ring())

	// removing one of the duplicates is fine
	require.NoError(t, e.DeleteVertex(3))
	assert.Equal(t, domain.Ring{p1, p2, p3, p1}, e.Ring())
}

func TestMoveVertex(t *testing.T) {
	e := newSquareEditor(t)
	moved := domain.Coordinate{Lat: 31.512, Lng: 74.352}

	require.NoError(t, e.MoveVertex(1, moved))
	assert.Equal(t, moved, e.Ring()[1])
	assert.True(t, e.Ring().Closed())
}

func TestMoveVertexIndexZeroUpdatesClosingDuplicate(t *testing.T) {
	e := newSquareEditor(t)
	moved := domain.Coordinate{Lat: 31.499, Lng: 74.349}

	require.NoError(t, e.MoveVertex(0, moved))
	ring := e.Ring()
	assert.Equal(t, moved, ring[0])
	assert.Equal(t, moved, ring[len(ring)-1])
	assert.True(t, ring.Closed())
}

func TestMoveVertexBadIndex(t *testing.T) {
	e := newSquareEditor(t)
	assert.ErrorIs(t, e.MoveVertex(-1, p1), domain.ErrVertexIndex)
	assert.ErrorIs(t, e.MoveVertex(4, p1), domain.ErrVertexIndex)
}

func TestDeleteVertex(t *testing.T) {
	e := newSquareEditor(t)
	require.NoError(t, e.DeleteVertex(2))

	ring := e.Ring()
	assert.Equal(t, 3, ring.DistinctCount())
	assert.True(t, ring.Closed())
	assert.Equal(t, domain.Ring{p1, p2, p4, p1}, ring)
}

func TestDeleteVertexZeroReanchorsClosure(t *testing.T) {
	e := newSquareEditor(t)
	require.NoError(t, e.DeleteVertex(0))

	ring := e.Ring()
	assert.True(t, ring.Closed())
	assert.Equal(t, domain.Ring{p2, p3, p4, p2}, ring)
}

func TestDeleteVertexRefusesBelowMinimum(t *testing.T) {
	e := New(geo.DefaultBounds)
	for _, p := range []domain.Coordinate{p1, p2, p3} {
		require.NoError(t, e.AppendVertex(p))
	}
	before := e.Ring()

	assert.ErrorIs(t, e.DeleteVertex(1), domain.ErrMinimumVertexCount)
	assert.Equal(t, before, e.Ring(), "failed delete must not alter the ring")
}

func TestNearestVertexIndex(t *testing.T) {
	e := newSquareEditor(t)

	idx, ok := e.NearestVertexIndex(domain.Coordinate{Lat: 31.5099, Lng: 74.3601})
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = e.NearestVertexIndex(domain.Coordinate{Lat: 31.5001, Lng: 74.3501})
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = New(geo.DefaultBounds).NearestVertexIndex(p1)
	assert.False(t, ok)
}

func TestMeasurements(t *testing.T) {
	e := newSquareEditor(t)
	area, perimeter := e.Measurements()
	assert.Greater(t, area, 0.0)
	assert.Greater(t, perimeter, 0.0)

	area, perimeter = New(geo.DefaultBounds).Measurements()
	assert.Zero(t, area)
	assert.Zero(t, perimeter)
}

func TestCommit(t *testing.T) {
	e := newSquareEditor(t)
	poly, err := e.Commit()
	require.NoError(t, err)
	require.True(t, poly.HasBoundary())
	assert.Equal(t, 4, poly.OuterRing().DistinctCount())

	// commit hands out a copy; later edits must not leak into it
	require.NoError(t, e.MoveVertex(1, domain.Coordinate{Lat: 31.52, Lng: 74.34}))
	assert.Equal(t, p2, poly.OuterRing()[1])
}

func TestCommitIncomplete(t *testing.T) {
	e := New(geo.DefaultBounds)
	require.NoError(t, e.AppendVertex(p1))
	require.NoError(t, e.AppendVertex(p2))

	_, err := e.Commit()
	assert.ErrorIs(t, err, domain.ErrIncompleteRing)
}

func TestLoadRing(t *testing.T) {
	e := New(geo.DefaultBounds)
	ring := domain.Ring{p1, p2, p3, p1}

	require.NoError(t, e.LoadRing(ring))
	assert.Equal(t, StateClosed, e.State())
	assert.Equal(t, 3, e.VertexCount())

	// loaded ring is cloned
	ring[1] = domain.Coordinate{Lat: 31.52, Lng: 74.34}
	assert.Equal(t, p2, e.Ring()[1])
}

func TestLoadRingRejectsOpenRing(t *testing.T) {
	e := New(geo.DefaultBounds)
	err := e.LoadRing(domain.Ring{p1, p2, p3})
	assert.ErrorIs(t, err, domain.ErrIncompleteRing)
}
