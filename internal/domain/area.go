package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeeKind distinguishes the two delivery fee structures
type FeeKind string

const (
	FeeFlat     FeeKind = "flat"
	FeeDistance FeeKind = "distance"
)

// FeeStructure configures how a zone's delivery fee is computed.
// Flat zones use Fee; distance zones use BaseFee + PerKmFee capped at MaxKm.
type FeeStructure struct {
	Kind     FeeKind `json:"kind"`
	Fee      float64 `json:"fee,omitempty"`
	BaseFee  float64 `json:"base_fee,omitempty"`
	PerKmFee float64 `json:"per_km_fee,omitempty"`
	MaxKm    float64 `json:"max_km,omitempty"`
}

// DeliveryZone is the fee configuration owned by exactly one Area
type DeliveryZone struct {
	ID                uuid.UUID    `json:"id"`
	AreaID            uuid.UUID    `json:"area_id"`
	Fee               FeeStructure `json:"fee_structure"`
	MinOrderAmount    float64      `json:"min_order_amount"`
	EstimatedTime     int          `json:"estimated_time_minutes"`
	FreeDeliveryAbove *float64     `json:"free_delivery_above,omitempty"`
	IsActive          bool         `json:"is_active"`
}

// Area is a named delivery region with a polygon boundary and an
// optional DeliveryZone. The boundary may be absent while the operator
// is still authoring it; the zone cannot be activated until a boundary
// is committed.
type Area struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	City      string        `json:"city"`
	Center    Coordinate    `json:"center"`
	Boundary  Polygon       `json:"boundary"`
	IsActive  bool          `json:"is_active"`
	Zone      *DeliveryZone `json:"zone,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Clone returns a deep copy so catalog snapshots never share mutable state
func (a Area) Clone() Area {
	cp := a
	cp.Boundary = a.Boundary.Clone()
	if a.Zone != nil {
		zone := *a.Zone
		if a.Zone.FreeDeliveryAbove != nil {
			v := *a.Zone.FreeDeliveryAbove
			zone.FreeDeliveryAbove = &v
		}
		cp.Zone = &zone
	}
	return cp
}

// ServiceabilityVerdict carries the positive-result payload of a check
type ServiceabilityVerdict struct {
	AreaID         uuid.UUID `json:"area_id"`
	ZoneID         uuid.UUID `json:"zone_id"`
	AreaName       string    `json:"area_name"`
	Fee            float64   `json:"fee"`
	EstimatedTime  int       `json:"estimated_time_minutes"`
	MinOrderAmount float64   `json:"min_order_amount"`
	FreeDelivery   bool      `json:"free_delivery,omitempty"`
	DistanceKm     *float64  `json:"distance_km,omitempty"`
}

// ServiceabilityResult is the answer to "can we deliver here?". A negative
// answer (not in service, out of range) is a legitimate result, not an
// error: callers show "we don't deliver here yet", never "bad input".
type ServiceabilityResult struct {
	InService  bool                   `json:"in_service"`
	OutOfRange bool                   `json:"out_of_range,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Verdict    *ServiceabilityVerdict `json:"verdict,omitempty"`
}

// ServiceabilityResponse wraps a check result with metadata
type ServiceabilityResponse struct {
	Data    ServiceabilityResult `json:"data"`
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
}

// AreaSummary is the authoring-tool readout for a boundary
type AreaSummary struct {
	AreaID      uuid.UUID `json:"area_id"`
	VertexCount int       `json:"vertex_count"`
	AreaSqKm    float64   `json:"area_sq_km"`
	PerimeterKm float64   `json:"perimeter_km"`
	HasBoundary bool      `json:"has_boundary"`
}
