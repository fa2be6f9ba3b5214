package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/guests-api/internal/middleware"
	"github.com/deppfellow/guests-api/internal/server"
	"github.com/labstack/echo/v4"
)

// DefaultHealthCheckTimeout applies when no observability config is set.
const DefaultHealthCheckTimeout = 5 * time.Second

// HealthHandler reports whether the service and its datastore are reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

func (h *HealthHandler) timeout() time.Duration {
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		return obs.HealthChecks.Timeout
	}
	return DefaultHealthCheckTimeout
}

func (h *HealthHandler) recordFailure(checkType string, attrs map[string]interface{}) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}

// CheckHealth pings the datastore and answers 200 when it responds, 503
// otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout())
	defer cancel()

	dbStart := time.Now()

	if err := h.server.DB.Ping(ctx); err != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"driver":        h.server.DB.Driver,
			"response_time": time.Since(dbStart).String(),
			"error":         err.Error(),
		}
		response["status"] = "unhealthy"

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		h.recordFailure("database", map[string]interface{}{
			"error_type":        "database_unhealthy",
			"response_time_ms":  time.Since(dbStart).Milliseconds(),
			"error_message":     err.Error(),
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["database"] = map[string]interface{}{
		"status":        "healthy",
		"driver":        h.server.DB.Driver,
		"response_time": time.Since(dbStart).String(),
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		h.recordFailure("response", map[string]interface{}{
			"error_type":    "json_response_error",
			"error_message": err.Error(),
		})

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
