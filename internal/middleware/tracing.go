package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/guests-api/internal/server"
)

// TracingMiddleware owns the New Relic echo middleware.
//
// NewRelicMiddleware starts one transaction per request and stores it in
// the request context, where handlers, the pgx tracer and the logger pick
// it up. EnhanceTracing then decorates that transaction with request
// attributes and notices returned errors.
//
// Both are safe to install when New Relic is disabled: the first becomes a
// pass-through and the second finds no transaction and does nothing.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware returns nrecho's middleware, or a pass-through when
// New Relic is disabled.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds custom attributes to New Relic transactions.
//
// Attributes set here:
//
//	http.real_ip, http.user_agent  client identity
//	service.environment            primary.env
//	request.id                     same value as the X-Request-ID header
//	guest.id                       raw :id path parameter, before parsing
//	http.status_code               final status, as the error handler will write it
//
// It must run after RequestID and NewRelicMiddleware. The status is taken
// from ResolveStatus because the global error handler has not written the
// response yet when next returns an error.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())
			txn.AddAttribute("service.environment", tm.server.Config.Primary.Env)

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			if id := c.Param("id"); id != "" {
				txn.AddAttribute("guest.id", id)
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			txn.AddAttribute("http.status_code", ResolveStatus(c, err))

			return err
		}
	}
}
