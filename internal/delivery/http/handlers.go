package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
	"github.com/dastarkhwan/backend/internal/ingest"
	"github.com/dastarkhwan/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	engine   *service.ServiceabilityEngine
	areaSvc  *service.AreaService
	repo     service.AreaRepository
	parser   *ingest.Parser
	sessions *sessionManager
	validate *validator.Validate
}

// NewHandler creates a new handler
func NewHandler(engine *service.ServiceabilityEngine, areaSvc *service.AreaService, repo service.AreaRepository, bounds geo.Bounds) *Handler {
	return &Handler{
		engine:   engine,
		areaSvc:  areaSvc,
		repo:     repo,
		parser:   ingest.NewParser(bounds),
		sessions: newSessionManager(bounds),
		validate: validator.New(),
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	if err := h.repo.Health(c.Context()); err != nil {
		status = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":  status,
		"service": "dastarkhwan-serviceability",
		"version": "1.0.0",
	})
}

// CheckServiceability answers whether the business delivers to a
// coordinate and at what fee/ETA. Negative verdicts are 200 responses;
// only malformed or out-of-bounds input is an error.
func (h *Handler) CheckServiceability(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat query parameter is required")
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lng query parameter is required")
	}
	orderAmount := 0.0
	if raw := c.Query("order_amount"); raw != "" {
		if orderAmount, err = strconv.ParseFloat(raw, 64); err != nil || orderAmount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "order_amount must be a non-negative number")
		}
	}

	result, err := h.engine.Check(c.Context(), domain.Coordinate{Lat: lat, Lng: lng}, orderAmount)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(domain.ServiceabilityResponse{Data: result, Success: true})
}

type coordinateRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

func (r coordinateRequest) toDomain() domain.Coordinate {
	return domain.Coordinate{Lat: r.Lat, Lng: r.Lng}
}

type createAreaRequest struct {
	Name         string            `json:"name" validate:"required"`
	City         string            `json:"city" validate:"required"`
	Center       coordinateRequest `json:"center"`
	BoundaryText string            `json:"boundary_text"`
}

// CreateArea registers a new delivery area, optionally with a pasted
// coordinate-list boundary.
func (h *Handler) CreateArea(c *fiber.Ctx) error {
	var req createAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var boundary *domain.Polygon
	if req.BoundaryText != "" {
		ring, err := h.parser.ParseText(req.BoundaryText)
		if err != nil {
			return mapDomainError(err)
		}
		boundary = &domain.Polygon{Rings: []domain.Ring{ring}}
	}

	area, err := h.areaSvc.CreateArea(c.Context(), req.Name, req.City, req.Center.toDomain(), boundary)
	if err != nil {
		return mapDomainError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    area,
	})
}

// ListAreas returns every configured area with its zone
func (h *Handler) ListAreas(c *fiber.Ctx) error {
	areas := h.areaSvc.ListAreas()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    areas,
		"count":   len(areas),
	})
}

// GetArea returns a single area
func (h *Handler) GetArea(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}
	area, err := h.areaSvc.GetArea(id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": area})
}

// GetAreaSummary returns the authoring readout for an area's boundary
func (h *Handler) GetAreaSummary(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}
	summary, err := h.areaSvc.AreaSummary(id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": summary})
}

type updateAreaRequest struct {
	Name   string            `json:"name" validate:"required"`
	City   string            `json:"city" validate:"required"`
	Center coordinateRequest `json:"center"`
}

// UpdateArea renames or recenters an area
func (h *Handler) UpdateArea(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}
	var req updateAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	area, err := h.areaSvc.UpdateArea(c.Context(), id, req.Name, req.City, req.Center.toDomain())
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": area})
}

type updateBoundaryRequest struct {
	BoundaryText string              `json:"boundary_text"`
	Vertices     []coordinateRequest `json:"vertices"`
}

// UpdateBoundary re-draws an area boundary from a pasted coordinate list
// or an explicit vertex array (auto-closed either way).
func (h *Handler) UpdateBoundary(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}
	var req updateBoundaryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	var ring domain.Ring
	switch {
	case req.BoundaryText != "":
		ring, err = h.parser.ParseText(req.BoundaryText)
	case len(req.Vertices) > 0:
		points := make([]domain.Coordinate, len(req.Vertices))
		for i, v := range req.Vertices {
			points[i] = v.toDomain()
		}
		ring, err = geo.CloseRing(points)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "boundary_text or vertices is required")
	}
	if err != nil {
		return mapDomainError(err)
	}

	area, err := h.areaSvc.UpdateBoundary(c.Context(), id, domain.Polygon{Rings: []domain.Ring{ring}})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": area})
}

// DeleteArea removes an area and its delivery zone
func (h *Handler) DeleteArea(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}
	if err := h.areaSvc.DeleteArea(c.Context(), id); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}

type zoneConfigRequest struct {
	FeeKind              string   `json:"fee_kind" validate:"required,oneof=flat distance"`
	Fee                  float64  `json:"fee" validate:"min=0"`
	BaseFee              float64  `json:"base_fee" validate:"min=0"`
	PerKmFee             float64  `json:"per_km_fee" validate:"min=0"`
	MaxKm                float64  `json:"max_km" validate:"min=0"`
	MinOrderAmount       float64  `json:"min_order_amount" validate:"min=0"`
	EstimatedTimeMinutes int      `json:"estimated_time_minutes" validate:"min=0"`
	FreeDeliveryAbove    *float64 `json:"free_delivery_above"`
}

// ConfigureZone creates or updates the area's delivery-zone fee settings
func (h *Handler) ConfigureZone(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}
	var req zoneConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	fee := domain.FeeStructure{
		Kind:     domain.FeeKind(req.FeeKind),
		Fee:      req.Fee,
		BaseFee:  req.BaseFee,
		PerKmFee: req.PerKmFee,
		MaxKm:    req.MaxKm,
	}
	area, err := h.areaSvc.ConfigureZone(c.Context(), id, fee, req.MinOrderAmount, req.EstimatedTimeMinutes, req.FreeDeliveryAbove)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": area})
}

type activeRequest struct {
	Active bool `json:"active"`
}

// SetAreaActive toggles an area's active flag
func (h *Handler) SetAreaActive(c *fiber.Ctx) error {
	return h.setActive(c, h.areaSvc.SetAreaActive)
}

// SetZoneActive toggles a zone's active flag, subject to the boundary
// and area-active guards.
func (h *Handler) SetZoneActive(c *fiber.Ctx) error {
	return h.setActive(c, h.areaSvc.SetZoneActive)
}

func (h *Handler) setActive(c *fiber.Ctx, toggle func(ctx context.Context, id uuid.UUID, active bool) error) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}
	var req activeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := toggle(c.Context(), id, req.Active); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "active": req.Active})
}

// mapDomainError converts typed domain errors into fiber errors with
// user-facing status codes. Anything unrecognized is an internal error.
func mapDomainError(err error) error {
	var lineErr *domain.LineError
	if errors.As(err, &lineErr) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, lineErr.Error())
	}
	switch {
	case errors.Is(err, domain.ErrAreaNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoBoundary),
		errors.Is(err, domain.ErrAreaInactive),
		errors.Is(err, domain.ErrZoneNotFound):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrDegenerateRing),
		errors.Is(err, domain.ErrIncompleteRing),
		errors.Is(err, domain.ErrMinimumVertexCount),
		errors.Is(err, domain.ErrVertexIndex),
		errors.Is(err, domain.ErrInsufficientPoints):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Internal error")
	}
}
