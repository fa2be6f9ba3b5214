// Package validation contains the logic for binding and validating
// request data.
//
// Payloads bind their path parameters through echo, decode an optional
// JSON body, and validate themselves. Failures come back as
// *errs.HTTPError values the global error handler can render.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/deppfellow/guests-api/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate returns nil, CustomValidationErrors listing every problem, or
// an *errs.HTTPError that is returned to the client as is.
type Validatable interface {
	Validate() error
}

// BodyPayload is a Validatable that also reads a JSON request body.
//
// Body returns a pointer the body is decoded into.
type BodyPayload interface {
	Validatable
	Body() any
}

// CustomValidationError represents a single validation issue for a specific field.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "validation failed"
}

// Messages returns the messages in order.
func (c CustomValidationErrors) Messages() []string {
	messages := make([]string, 0, len(c))
	for _, e := range c {
		messages = append(messages, e.Message)
	}
	return messages
}

// BindAndValidate binds request data into payload and validates it.
//
// Path parameters are bound first. When payload is a BodyPayload its
// body is decoded next. Validation runs last.
//
// payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, payload); err != nil {
		return errs.NewBadRequestError(bindMessage(err), nil, nil)
	}

	if bp, ok := payload.(BodyPayload); ok {
		if err := BindBody(c, bp.Body()); err != nil {
			return err
		}
	}

	return ValidatePayload(payload)
}

// BindBody decodes the JSON request body into dst.
//
// An empty or blank body leaves dst untouched, the same as "{}". The body
// must otherwise hold exactly one JSON object; anything else, including
// null or data after the object, yields the "invalid JSON body" error.
func BindBody(c echo.Context, dst any) error {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return nil
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return errs.InvalidJSONError()
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	if raw[0] != '{' {
		return errs.InvalidJSONError()
	}

	// Deserialize streams a single value, so the whole body is checked first.
	if !json.Valid(raw) {
		return errs.InvalidJSONError()
	}

	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err := c.Echo().JSONSerializer.Deserialize(c, dst); err != nil {
		return errs.InvalidJSONError()
	}

	return nil
}

// ValidatePayload runs payload.Validate and converts failures into 400 errors.
func ValidatePayload(payload Validatable) error {
	err := payload.Validate()
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	return errs.ValidationError(extractValidationError(err))
}

// bindMessage pulls the message out of echo's bind error.
func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}

func extractValidationError(err error) []string {
	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		return custom.Messages()
	}
	return []string{err.Error()}
}
