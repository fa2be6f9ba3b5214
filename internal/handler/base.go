package handler

import (
	"time"

	"github.com/deppfellow/guests-api/internal/middleware"
	"github.com/deppfellow/guests-api/internal/model"
	"github.com/deppfellow/guests-api/internal/server"
	"github.com/deppfellow/guests-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a bound and validated
// request payload and returns a response or an error.
//
// Req is a pointer type such as *GuestIDRequest.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// Handle wraps a typed handler into an echo.HandlerFunc that responds
// with JSON and the given status.
//
// newReq is called once per request so concurrent requests never share
// a payload.
//
//	g.POST("", handler.Handle(base, h.CreateGuest, http.StatusCreated, handler.NewCreateGuestRequest))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return serve(c, newReq(), handler, status)
	}
}

// serve binds and validates req, runs handler and writes its result.
// Both phases are timed into the request log and the New Relic transaction.
// Errors are returned untouched for the global error handler to render.
func serve[Req validation.Validatable, Res any](
	c echo.Context,
	req Req,
	handler HandlerFunc[Req, Res],
	status int,
) error {
	start := time.Now()
	operation := c.Request().Method + " " + c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.operation", operation)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", operation).
		Logger()

	if err := validation.BindAndValidate(c, req); err != nil {
		elapsed := time.Since(start)

		logger.Debug().
			Err(err).
			Dur("validation_duration", elapsed).
			Msg("request rejected")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", elapsed.Milliseconds())
		}

		return err
	}

	validated := time.Now()
	validationDuration := validated.Sub(start)

	result, err := handler(c, req)
	handlerDuration := time.Since(validated)

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
	}

	if err != nil {
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
		}

		logger.Debug().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Msg("handler returned error")

		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		if guests, ok := any(result).([]model.Guest); ok {
			txn.AddAttribute("guests.count", len(guests))
		}
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("handler completed")

	return c.JSON(status, result)
}
