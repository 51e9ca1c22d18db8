package http

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/editor"
	"github.com/dastarkhwan/backend/internal/geo"
)

// sessionManager tracks in-progress polygon-editing sessions. Each
// session wraps one editor; the rendering layer calls these endpoints
// and redraws from the returned ring state. The editor itself assumes a
// single writer, so each session carries its own mutex and every handler
// below locks the session for the whole mutation-and-render span.
type editorSession struct {
	mu sync.Mutex
	ed *editor.Editor
}

type sessionManager struct {
	mu       sync.Mutex
	bounds   geo.Bounds
	sessions map[uuid.UUID]*editorSession
}

func newSessionManager(bounds geo.Bounds) *sessionManager {
	return &sessionManager{
		bounds:   bounds,
		sessions: make(map[uuid.UUID]*editorSession),
	}
}

func (m *sessionManager) create() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.sessions[id] = &editorSession{ed: editor.New(m.bounds)}
	return id
}

func (m *sessionManager) get(id uuid.UUID) (*editorSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *sessionManager) drop(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// editorStateJSON renders the session for the drawing surface
func editorStateJSON(ed *editor.Editor) fiber.Map {
	area, perimeter := ed.Measurements()
	return fiber.Map{
		"state":        ed.State(),
		"ring":         ed.Ring(),
		"vertex_count": ed.VertexCount(),
		"area_sq_m":    area,
		"perimeter_km": perimeter,
	}
}

// CreateEditorSession opens a new editing session. With area_id it loads
// that area's committed boundary for re-drawing.
func (h *Handler) CreateEditorSession(c *fiber.Ctx) error {
	id := h.sessions.create()
	s, _ := h.sessions.get(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw := c.Query("area_id"); raw != "" {
		areaID, err := uuid.Parse(raw)
		if err != nil {
			h.sessions.drop(id)
			return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
		}
		area, err := h.areaSvc.GetArea(areaID)
		if err != nil {
			h.sessions.drop(id)
			return mapDomainError(err)
		}
		if area.Boundary.HasBoundary() {
			if err := s.ed.LoadRing(area.Boundary.OuterRing()); err != nil {
				h.sessions.drop(id)
				return mapDomainError(err)
			}
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"session_id": id,
		"data":       editorStateJSON(s.ed),
	})
}

// GetEditorSession returns the session state. With cursor_lat/cursor_lng
// it also reports the nearest vertex index for interactive highlight.
func (h *Handler) GetEditorSession(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed := s.ed
	state := editorStateJSON(ed)
	if rawLat, rawLng := c.Query("cursor_lat"), c.Query("cursor_lng"); rawLat != "" && rawLng != "" {
		lat, errLat := strconv.ParseFloat(rawLat, 64)
		lng, errLng := strconv.ParseFloat(rawLng, 64)
		if errLat != nil || errLng != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cursor coordinates must be numeric")
		}
		if idx, ok := ed.NearestVertexIndex(domain.Coordinate{Lat: lat, Lng: lng}); ok {
			state["nearest_vertex_index"] = idx
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": state})
}

// AppendEditorVertex adds a vertex to the in-progress ring
func (h *Handler) AppendEditorVertex(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req coordinateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ed.AppendVertex(req.toDomain()); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": editorStateJSON(s.ed)})
}

// MoveEditorVertex drags a vertex to a new position
func (h *Handler) MoveEditorVertex(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid vertex index")
	}
	var req coordinateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ed.MoveVertex(index, req.toDomain()); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": editorStateJSON(s.ed)})
}

// DeleteEditorVertex removes a vertex, subject to the minimum-count guard
func (h *Handler) DeleteEditorVertex(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid vertex index")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ed.DeleteVertex(index); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": editorStateJSON(s.ed)})
}

type commitSessionRequest struct {
	AreaID string `json:"area_id" validate:"required,uuid4"`
}

// CommitEditorSession commits the session's ring as the boundary of an
// area and closes the session.
func (h *Handler) CommitEditorSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	s, ok := h.sessions.get(sessionID)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Editor session not found")
	}
	var req commitSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	areaID, err := uuid.Parse(req.AreaID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	polygon, err := s.ed.Commit()
	if err != nil {
		return mapDomainError(err)
	}
	area, err := h.areaSvc.UpdateBoundary(c.Context(), areaID, polygon)
	if err != nil {
		return mapDomainError(err)
	}
	h.sessions.drop(sessionID)
	return c.JSON(fiber.Map{"success": true, "data": area})
}

// CloseEditorSession discards a session without committing
func (h *Handler) CloseEditorSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	h.sessions.drop(sessionID)
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) session(c *fiber.Ctx) (*editorSession, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	s, ok := h.sessions.get(id)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "Editor session not found")
	}
	return s, nil
}
