package middleware

import (
	"context"

	"github.com/deppfellow/guests-api/internal/logger"
	"github.com/deppfellow/guests-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerKey stores the request-scoped logger in the echo context.
const LoggerKey = "logger"

type ctxKey struct{}

// loggerCtxKey stores the same logger in the request's context.Context.
var loggerCtxKey = ctxKey{}

// ContextEnhancer builds a request-scoped logger carrying the request id,
// method, route, client ip and, when present, the New Relic trace ids.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer using the app Server container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext must run after RequestID and NewRelicMiddleware.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)

			c.SetRequest(c.Request().WithContext(ContextWithLogger(c.Request().Context(), &contextLogger)))

			return next(c)
		}
	}
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext middleware didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}

	l := zerolog.Nop()
	return &l
}

// ContextWithLogger returns a copy of ctx carrying l. EnhanceContext uses
// it so services below the handler log with the request's fields.
func ContextWithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, l)
}

// LoggerFromContext is GetLogger for code that only holds a context.Context.
//
// Outside a request (background work, tests) it returns fallback, or a
// no-op logger when fallback is nil.
func LoggerFromContext(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l, ok := ctx.Value(loggerCtxKey).(*zerolog.Logger); ok {
		return l
	}

	if fallback != nil {
		return fallback
	}

	l := zerolog.Nop()
	return &l
}
