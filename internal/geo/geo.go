// Package geo provides the pure geometric functions behind serviceability
// checks and polygon authoring. No I/O; the only recoverable error in this
// layer is CloseRing on degenerate input.
package geo

import (
	"math"

	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/pkg/utils"
)

// MinRingVertices is the smallest distinct-vertex count a boundary may carry
const MinRingVertices = 3

const earthRadiusM = 6371000.0

// Bounds is the deployment bounding box supplied at construction.
// Coordinates outside it are rejected at ingestion, never clamped.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// DefaultBounds covers the reference deployment
var DefaultBounds = Bounds{
	MinLat: domain.DefaultMinLat,
	MaxLat: domain.DefaultMaxLat,
	MinLng: domain.DefaultMinLng,
	MaxLng: domain.DefaultMaxLng,
}

// Contains reports whether the coordinate falls inside the box
func (b Bounds) Contains(c domain.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// IsValidCoordinate checks the point against the WGS84 envelope and the
// deployment bounding box.
func IsValidCoordinate(c domain.Coordinate, bounds Bounds) bool {
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return false
	}
	return bounds.Contains(c)
}

// CloseRing appends the first point as the closing duplicate if the input
// is not already closed. Idempotent. Fails with ErrDegenerateRing when
// fewer than 3 distinct points are supplied.
func CloseRing(points []domain.Coordinate) (domain.Ring, error) {
	ring := domain.Ring(append([]domain.Coordinate(nil), points...))
	if DistinctVertexCount(ring) < MinRingVertices {
		return nil, domain.ErrDegenerateRing
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring, nil
}

// DistinctVertexCount counts vertices by value, not position. Unlike
// Ring.DistinctCount it sees through duplicate vertices anywhere in the
// ring, so it is the count the minimum-vertex guards must use.
func DistinctVertexCount(ring domain.Ring) int {
	seen := make(map[domain.Coordinate]struct{}, len(ring))
	for _, c := range ring {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// PointInRing performs an even-odd ray-casting test over the ring's real
// edges, skipping the closing duplicate. Boundary policy is inclusive:
// a point exactly on an edge or vertex counts as inside, so answers
// cannot flap at zone borders.
func PointInRing(c domain.Coordinate, ring domain.Ring) bool {
	n := len(ring)
	if n < 4 || !ring.Closed() {
		return false
	}
	for i := 0; i < n-1; i++ {
		if onSegment(c, ring[i], ring[i+1]) {
			return true
		}
	}
	inside := false
	for i := 0; i < n-1; i++ {
		a, b := ring[i], ring[i+1]
		if (a.Lat > c.Lat) != (b.Lat > c.Lat) &&
			c.Lng < (b.Lng-a.Lng)*(c.Lat-a.Lat)/(b.Lat-a.Lat+1e-12)+a.Lng {
			inside = !inside
		}
	}
	return inside
}

// onSegment reports whether c lies on the segment a-b within a small
// planar tolerance, which is adequate at zone-boundary scale.
func onSegment(c, a, b domain.Coordinate) bool {
	const eps = 1e-9
	cross := (b.Lng-a.Lng)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lng-a.Lng)
	if math.Abs(cross) > eps {
		return false
	}
	return c.Lat >= math.Min(a.Lat, b.Lat)-eps && c.Lat <= math.Max(a.Lat, b.Lat)+eps &&
		c.Lng >= math.Min(a.Lng, b.Lng)-eps && c.Lng <= math.Max(a.Lng, b.Lng)+eps
}

// GeodesicArea returns the ring's area in square meters: the shoelace
// formula over an equirectangular projection about the ring's mean
// latitude, which compensates for meridian convergence at zone scale.
// Returns 0 for rings with fewer than 3 distinct points and exactly 0
// for collinear vertices. Always non-negative.
func GeodesicArea(ring domain.Ring) float64 {
	verts := ring.Vertices()
	if len(verts) < MinRingVertices {
		return 0
	}
	var meanLat float64
	for _, v := range verts {
		meanLat += v.Lat
	}
	meanLat = meanLat / float64(len(verts)) * math.Pi / 180

	var sum float64
	n := len(verts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi := verts[i].Lng * math.Pi / 180
		yi := verts[i].Lat * math.Pi / 180
		xj := verts[j].Lng * math.Pi / 180
		yj := verts[j].Lat * math.Pi / 180
		sum += xi*yj - xj*yi
	}
	return math.Abs(sum) / 2 * math.Cos(meanLat) * earthRadiusM * earthRadiusM
}

// RingPerimeterKm sums the haversine length of the ring's closed edges
func RingPerimeterKm(ring domain.Ring) float64 {
	if len(ring) < 2 {
		return 0
	}
	var total float64
	for i := 0; i < len(ring)-1; i++ {
		total += HaversineKm(ring[i], ring[i+1])
	}
	if !ring.Closed() {
		total += HaversineKm(ring[len(ring)-1], ring[0])
	}
	return total
}

// HaversineKm returns the great-circle distance between two points in kilometers
func HaversineKm(a, b domain.Coordinate) float64 {
	return utils.Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}

// RingBounds returns the ring's lat/lng bounding box, used as a cheap
// pre-filter before the exact containment test.
func RingBounds(ring domain.Ring) Bounds {
	if len(ring) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: ring[0].Lat, MaxLat: ring[0].Lat,
		MinLng: ring[0].Lng, MaxLng: ring[0].Lng,
	}
	for _, c := range ring[1:] {
		b.MinLat = math.Min(b.MinLat, c.Lat)
		b.MaxLat = math.Max(b.MaxLat, c.Lat)
		b.MinLng = math.Min(b.MinLng, c.Lng)
		b.MaxLng = math.Max(b.MaxLng, c.Lng)
	}
	return b
}
