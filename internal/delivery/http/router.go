package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/dastarkhwan/backend/internal/geo"
	"github.com/dastarkhwan/backend/internal/metrics"
	"github.com/dastarkhwan/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, engine *service.ServiceabilityEngine, areaSvc *service.AreaService, repo service.AreaRepository, bounds geo.Bounds, m *metrics.Metrics) {
	handler := NewHandler(engine, areaSvc, repo, bounds)

	// Health check and metrics
	app.Get("/health", handler.HealthCheck)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Serviceability check for checkout/ordering flows
		api.Get("/serviceability", handler.CheckServiceability)

		// Area and zone management for the authoring tool
		api.Post("/areas", handler.CreateArea)
		api.Get("/areas", handler.ListAreas)
		api.Get("/areas/:id", handler.GetArea)
		api.Get("/areas/:id/summary", handler.GetAreaSummary)
		api.Put("/areas/:id", handler.UpdateArea)
		api.Put("/areas/:id/boundary", handler.UpdateBoundary)
		api.Delete("/areas/:id", handler.DeleteArea)
		api.Put("/areas/:id/zone", handler.ConfigureZone)
		api.Patch("/areas/:id/active", handler.SetAreaActive)
		api.Patch("/areas/:id/zone/active", handler.SetZoneActive)

		// Interactive polygon-editing sessions
		api.Post("/editor/sessions", handler.CreateEditorSession)
		api.Get("/editor/sessions/:id", handler.GetEditorSession)
		api.Post("/editor/sessions/:id/vertices", handler.AppendEditorVertex)
		api.Put("/editor/sessions/:id/vertices/:index", handler.MoveEditorVertex)
		api.Delete("/editor/sessions/:id/vertices/:index", handler.DeleteEditorVertex)
		api.Post("/editor/sessions/:id/commit", handler.CommitEditorSession)
		api.Delete("/editor/sessions/:id", handler.CloseEditorSession)
	}
}
