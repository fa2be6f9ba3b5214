package router

import (
	"github.com/deppfellow/guests-api/internal/handler"
	"github.com/deppfellow/guests-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the
// guests API: health, docs, static assets and metrics.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", h.OpenAPI.StaticFS())

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	r.GET(middleware.MetricsPath, m.Metrics.Handler())
}
