package domain

import (
	"encoding/json"
	"fmt"
)

// Coordinate represents a geodetic point in WGS84
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ring is an ordered vertex sequence describing a simple polygon boundary.
// A committed ring is closed: the first vertex is duplicated as the last,
// so a valid boundary has at least 4 entries (3 distinct + closure).
type Ring []Coordinate

// Closed reports whether the ring's first vertex is duplicated at the end
func (r Ring) Closed() bool {
	return len(r) >= 2 && r[0] == r[len(r)-1]
}

// DistinctCount returns the number of vertices excluding the closing duplicate
func (r Ring) DistinctCount() int {
	if r.Closed() {
		return len(r) - 1
	}
	return len(r)
}

// Vertices returns the ring's vertices without the closing duplicate
func (r Ring) Vertices() []Coordinate {
	return append([]Coordinate(nil), r[:r.DistinctCount()]...)
}

// Clone returns an independent copy of the ring
func (r Ring) Clone() Ring {
	return append(Ring(nil), r...)
}

// Polygon holds one or more rings. The first ring is the outer boundary;
// this system only produces single-ring polygons, but the shape allows
// holes for forward compatibility with the stored format.
type Polygon struct {
	Rings []Ring `json:"rings"`
}

// OuterRing returns the boundary ring, or nil if the polygon is empty
func (p Polygon) OuterRing() Ring {
	if len(p.Rings) == 0 {
		return nil
	}
	return p.Rings[0]
}

// HasBoundary reports whether the polygon carries a committed outer ring
func (p Polygon) HasBoundary() bool {
	outer := p.OuterRing()
	return len(outer) >= 4 && outer.Closed()
}

// Clone returns a deep copy of the polygon
func (p Polygon) Clone() Polygon {
	if len(p.Rings) == 0 {
		return Polygon{}
	}
	rings := make([]Ring, len(p.Rings))
	for i, r := range p.Rings {
		rings[i] = r.Clone()
	}
	return Polygon{Rings: rings}
}

// MarshalBoundary serializes the polygon in the persisted shape: one array
// of [lng, lat] pairs per ring, closing vertex retained. Vertex order and
// the closure convention round-trip exactly.
func (p Polygon) MarshalBoundary() ([]byte, error) {
	rings := make([][][2]float64, len(p.Rings))
	for i, ring := range p.Rings {
		pairs := make([][2]float64, len(ring))
		for j, c := range ring {
			pairs[j] = [2]float64{c.Lng, c.Lat}
		}
		rings[i] = pairs
	}
	data, err := json.Marshal(rings)
	if err != nil {
		return nil, fmt.Errorf("domain: failed to marshal boundary: %w", err)
	}
	return data, nil
}

// UnmarshalBoundary parses the persisted [lng, lat] ring shape into a Polygon
func UnmarshalBoundary(data []byte) (Polygon, error) {
	if len(data) == 0 {
		return Polygon{}, nil
	}
	var rings [][][2]float64
	if err := json.Unmarshal(data, &rings); err != nil {
		return Polygon{}, fmt.Errorf("domain: failed to unmarshal boundary: %w", err)
	}
	p := Polygon{Rings: make([]Ring, len(rings))}
	for i, pairs := range rings {
		ring := make(Ring, len(pairs))
		for j, pair := range pairs {
			ring[j] = Coordinate{Lat: pair[1], Lng: pair[0]}
		}
		p.Rings[i] = ring
	}
	return p, nil
}

// Reference deployment bounding box (Pakistan)
const (
	DefaultMinLat = 23.5
	DefaultMaxLat = 37.5
	DefaultMinLng = 60.0
	DefaultMaxLng = 78.0
)
