// Package editor implements the polygon-authoring state machine. One
// editor holds one in-progress ring and guarantees the closed-ring
// invariant after every mutation. Single-writer: one operator edits one
// polygon at a time, so there is no internal locking.
package editor

import (
	"fmt"

	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
)

// State describes how far the in-progress ring has advanced
type State string

const (
	StateEmpty             State = "empty"
	StatePlacingFirstPoint State = "placing_first_point"
	StateEditing           State = "editing"
	StateClosed            State = "closed"
)

// Editor maintains a single in-progress ring. The ring is kept closed
// (first vertex duplicated at the end) from the very first vertex on.
type Editor struct {
	ring   domain.Ring
	bounds geo.Bounds
}

// New creates an empty editor validating against the given bounding box
func New(bounds geo.Bounds) *Editor {
	return &Editor{bounds: bounds}
}

// State reports the editing phase. Vertices are counted by value, so a
// vertex dragged onto another one never promotes the ring to Closed.
func (e *Editor) State() State {
	switch geo.DistinctVertexCount(e.ring) {
	case 0:
		return StateEmpty
	case 1:
		return StatePlacingFirstPoint
	case 2:
		return StateEditing
	default:
		return StateClosed
	}
}

// Ring returns a snapshot of the in-progress ring
func (e *Editor) Ring() domain.Ring {
	return e.ring.Clone()
}

// VertexCount returns the number of distinct vertices
func (e *Editor) VertexCount() int {
	return e.ring.DistinctCount()
}

// Reset discards the in-progress ring
func (e *Editor) Reset() {
	e.ring = nil
}

// LoadRing opens an existing committed ring for editing, e.g. when the
// operator re-draws a persisted area boundary.
func (e *Editor) LoadRing(ring domain.Ring) error {
	if len(ring) < 4 || !ring.Closed() {
		return domain.ErrIncompleteRing
	}
	for _, c := range ring {
		if !geo.IsValidCoordinate(c, e.bounds) {
			return domain.ErrInvalidCoordinate
		}
	}
	e.ring = ring.Clone()
	return nil
}

// AddFirstVertex initializes the ring as [p, p]: a single self-closed
// point, the placeholder state before a real polygon exists.
func (e *Editor) AddFirstVertex(p domain.Coordinate) error {
	if len(e.ring) > 0 {
		return fmt.Errorf("editor: ring already started")
	}
	if !geo.IsValidCoordinate(p, e.bounds) {
		return domain.ErrInvalidCoordinate
	}
	e.ring = domain.Ring{p, p}
	return nil
}

// AppendVertex inserts p immediately before the closing duplicate. On an
// empty ring it behaves as AddFirstVertex, so a map click handler can
// call it unconditionally. Appending a vertex the ring already contains
// is a no-op: a double click or a click back on the first point must not
// plant duplicates that would fake polygon progress.
func (e *Editor) AppendVertex(p domain.Coordinate) error {
	if len(e.ring) == 0 {
		return e.AddFirstVertex(p)
	}
	if !geo.IsValidCoordinate(p, e.bounds) {
		return domain.ErrInvalidCoordinate
	}
	for _, v := range e.ring {
		if v == p {
			return nil
		}
	}
	last := len(e.ring) - 1
	e.ring = append(e.ring[:last], p, e.ring[0])
	return nil
}

// MoveVertex replaces the vertex at index. Moving index 0 updates the
// closing duplicate in lockstep so the invariant never breaks mid-drag.
func (e *Editor) MoveVertex(index int, newPos domain.Coordinate) error {
	if index < 0 || index >= e.ring.DistinctCount() {
		return domain.ErrVertexIndex
	}
	if !geo.IsValidCoordinate(newPos, e.bounds) {
		return domain.ErrInvalidCoordinate
	}
	e.ring[index] = newPos
	if index == 0 {
		e.ring[len(e.ring)-1] = newPos
	}
	return nil
}

// DeleteVertex removes the vertex at index. Refuses the edit with
// ErrMinimumVertexCount when the ring would be left with fewer than 3
// distinct vertex values, leaving the ring unchanged.
func (e *Editor) DeleteVertex(index int) error {
	verts := e.ring.Vertices()
	if index < 0 || index >= len(verts) {
		return domain.ErrVertexIndex
	}
	remaining := append(append([]domain.Coordinate{}, verts[:index]...), verts[index+1:]...)
	if geo.DistinctVertexCount(remaining) < geo.MinRingVertices {
		return domain.ErrMinimumVertexCount
	}
	e.ring = append(domain.Ring(remaining), remaining[0])
	return nil
}

// NearestVertexIndex returns the index of the distinct vertex nearest to
// the cursor, for interactive highlight. ok is false on an empty ring.
func (e *Editor) NearestVertexIndex(cursor domain.Coordinate) (int, bool) {
	distinct := e.ring.DistinctCount()
	if distinct == 0 {
		return 0, false
	}
	best := 0
	bestKm := geo.HaversineKm(cursor, e.ring[0])
	for i := 1; i < distinct; i++ {
		if d := geo.HaversineKm(cursor, e.ring[i]); d < bestKm {
			best, bestKm = i, d
		}
	}
	return best, true
}

// Measurements returns the authoring readout: geodesic area in square
// meters and perimeter in kilometers of the in-progress ring.
func (e *Editor) Measurements() (areaSqM, perimeterKm float64) {
	return geo.GeodesicArea(e.ring), geo.RingPerimeterKm(e.ring)
}

// Commit returns the finished single-ring polygon. Only a closed ring of
// at least 3 distinct vertex values plus closure may be committed; a ring
// whose vertices collapse onto each other stays uncommittable no matter
// how many entries it holds.
func (e *Editor) Commit() (domain.Polygon, error) {
	if len(e.ring) < 4 || geo.DistinctVertexCount(e.ring) < geo.MinRingVertices {
		return domain.Polygon{}, domain.ErrIncompleteRing
	}
	return domain.Polygon{Rings: []domain.Ring{e.ring.Clone()}}, nil
}
