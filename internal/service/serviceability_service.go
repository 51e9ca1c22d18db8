package service

import (
	"context"
	"sort"
	"time"

	"github.com/dastarkhwan/backend/internal/cache"
	"github.com/dastarkhwan/backend/internal/catalog"
	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
	"github.com/dastarkhwan/backend/internal/metrics"
	"github.com/dastarkhwan/backend/pkg/utils"
)

const (
	notInServiceMsg = "Sorry, we do not deliver to this location yet"
	outOfRangeMsg   = "This location is beyond the zone's delivery range"
)

// ServiceabilityEngine answers "can we deliver to this coordinate, and at
// what cost?". Checks are pure reads over a catalog snapshot and may run
// concurrently without coordination.
type ServiceabilityEngine struct {
	catalog *catalog.Catalog
	bounds  geo.Bounds
	cache   *cache.VerdictCache
	metrics *metrics.Metrics
}

// NewServiceabilityEngine creates an engine over the given catalog.
// cache and metrics may be nil.
func NewServiceabilityEngine(cat *catalog.Catalog, bounds geo.Bounds, vc *cache.VerdictCache, m *metrics.Metrics) *ServiceabilityEngine {
	return &ServiceabilityEngine{catalog: cat, bounds: bounds, cache: vc, metrics: m}
}

// Check validates the query coordinate, scans active zones with an
// inclusive point-in-polygon test, and computes fee and ETA from the
// matched zone's fee structure. A zero orderAmount means the amount is
// unknown; free-delivery thresholds then never apply.
//
// Overlapping zones are a data-entry error but are tolerated: the zone
// whose center is geodesically nearest to the query wins, so catalog
// ordering never affects results.
func (e *ServiceabilityEngine) Check(ctx context.Context, query domain.Coordinate, orderAmount float64) (domain.ServiceabilityResult, error) {
	start := time.Now()

	if !geo.IsValidCoordinate(query, e.bounds) {
		e.metrics.ObserveCheck(metrics.OutcomeInvalid, time.Since(start))
		return domain.ServiceabilityResult{}, domain.ErrInvalidCoordinate
	}

	if res, ok := e.cache.Get(ctx, query, orderAmount); ok {
		e.metrics.ObserveCheck(metrics.OutcomeCached, time.Since(start))
		return res, nil
	}

	entries := e.catalog.ActiveZones()
	e.metrics.SetActiveZones(len(entries))

	var hits []catalog.ZoneEntry
	for _, entry := range entries {
		ring := entry.Area.Boundary.OuterRing()
		if !geo.RingBounds(ring).Contains(query) {
			continue
		}
		if geo.PointInRing(query, ring) {
			hits = append(hits, entry)
		}
	}

	if len(hits) == 0 {
		res := domain.ServiceabilityResult{Message: notInServiceMsg}
		e.cache.Set(ctx, query, orderAmount, res)
		e.metrics.ObserveCheck(metrics.OutcomeNotInService, time.Since(start))
		return res, nil
	}

	winner := nearestCenter(query, hits)
	res := e.resolveFee(query, winner, orderAmount)

	outcome := metrics.OutcomeInService
	if !res.InService {
		outcome = metrics.OutcomeOutOfRange
	}
	e.cache.Set(ctx, query, orderAmount, res)
	e.metrics.ObserveCheck(outcome, time.Since(start))
	return res, nil
}

// nearestCenter picks the zone whose area center is closest to the query.
// Exact distance ties fall back to area ID order so the result stays
// deterministic even for co-centered zones.
func nearestCenter(query domain.Coordinate, hits []catalog.ZoneEntry) catalog.ZoneEntry {
	sort.Slice(hits, func(i, j int) bool {
		di := geo.HaversineKm(query, hits[i].Area.Center)
		dj := geo.HaversineKm(query, hits[j].Area.Center)
		if di != dj {
			return di < dj
		}
		return hits[i].Area.ID.String() < hits[j].Area.ID.String()
	})
	return hits[0]
}

// resolveFee computes the delivery fee for the matched zone. For distance
// zones the polygon is a coarse pre-filter: the distance cap is the
// authoritative limit, and exceeding it yields an out-of-range verdict
// even though the point is inside the boundary.
func (e *ServiceabilityEngine) resolveFee(query domain.Coordinate, entry catalog.ZoneEntry, orderAmount float64) domain.ServiceabilityResult {
	zone := entry.Zone
	verdict := domain.ServiceabilityVerdict{
		AreaID:         entry.Area.ID,
		ZoneID:         zone.ID,
		AreaName:       entry.Area.Name,
		EstimatedTime:  zone.EstimatedTime,
		MinOrderAmount: zone.MinOrderAmount,
	}

	switch zone.Fee.Kind {
	case domain.FeeDistance:
		distanceKm := geo.HaversineKm(query, entry.Area.Center)
		if distanceKm > zone.Fee.MaxKm {
			return domain.ServiceabilityResult{
				OutOfRange: true,
				Message:    outOfRangeMsg,
			}
		}
		verdict.Fee = utils.RoundTo(zone.Fee.BaseFee+zone.Fee.PerKmFee*distanceKm, 2)
		rounded := utils.RoundTo(distanceKm, 2)
		verdict.DistanceKm = &rounded
	default:
		verdict.Fee = zone.Fee.Fee
	}

	if zone.FreeDeliveryAbove != nil && orderAmount > 0 && orderAmount >= *zone.FreeDeliveryAbove {
		verdict.Fee = 0
		verdict.FreeDelivery = true
	}

	return domain.ServiceabilityResult{InService: true, Verdict: &verdict}
}
