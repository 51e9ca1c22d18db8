package domain

import (
	"errors"
	"fmt"
)

// Geometry and authoring errors. All are recoverable user-input events:
// they are returned to the caller for operator feedback, never logged
// and swallowed, and never crash the process.
var (
	// ErrInvalidCoordinate — point outside the WGS84 envelope or the
	// configured deployment bounding box.
	ErrInvalidCoordinate = errors.New("coordinate outside valid bounds")

	// ErrDegenerateRing — fewer than 3 distinct points supplied to close a ring
	ErrDegenerateRing = errors.New("ring requires at least 3 distinct points")

	// ErrIncompleteRing — commit attempted before the ring reached 3
	// distinct vertices plus closure.
	ErrIncompleteRing = errors.New("ring is incomplete")

	// ErrMinimumVertexCount — deletion would drop the ring below 3 distinct vertices
	ErrMinimumVertexCount = errors.New("ring cannot drop below 3 distinct vertices")

	// ErrVertexIndex — vertex index outside the editable range
	ErrVertexIndex = errors.New("vertex index out of range")

	// Bulk-ingest errors
	ErrMalformedLine      = errors.New("line does not parse as a coordinate pair")
	ErrLineOutOfBounds    = errors.New("coordinate outside valid bounds")
	ErrInsufficientPoints = errors.New("fewer than 3 valid coordinate lines supplied")

	// Catalog consistency guards
	ErrNoBoundary   = errors.New("area has no committed boundary")
	ErrAreaInactive = errors.New("owning area is not active")
	ErrAreaNotFound = errors.New("area not found")
	ErrZoneNotFound = errors.New("area has no delivery zone configured")
)

// LineError reports an ingest failure with the offending 1-based line number
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
