// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/guests-api/internal/handler"
	"github.com/deppfellow/guests-api/internal/middleware"
	"github.com/deppfellow/guests-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with every middleware and route.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id and the New Relic transaction must
	// exist before the request logger is built from them.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Metrics.Observe(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h, middlewares)

	api := router.Group("/api")
	registerGuestRoutes(api, h)

	return router
}

func registerGuestRoutes(api *echo.Group, h *handler.Handlers) {
	g := h.Guests
	base := g.Handler

	guests := api.Group("/guests")

	guests.GET("", handler.Handle(base, g.ListGuests, http.StatusOK, handler.NewListGuestsRequest))
	guests.POST("", handler.Handle(base, g.CreateGuest, http.StatusCreated, handler.NewCreateGuestRequest))
	guests.GET("/:id", handler.Handle(base, g.GetGuest, http.StatusOK, handler.NewGuestIDRequest))
	guests.PUT("/:id", handler.Handle(base, g.ReplaceGuest, http.StatusOK, handler.NewGuestIDRequest))
	guests.DELETE("/:id", handler.Handle(base, g.DeleteGuest, http.StatusOK, handler.NewGuestIDRequest))
}
