package errs

import (
	"net/http"
)

// Messages shared by the guest endpoints.
const (
	MessageValidation      = "validation error"
	MessageInvalidJSON     = "invalid JSON body"
	MessageInvalidGuestID  = "guestid must be positive integer"
	MessageGuestNotFound   = "guest not found"
	MessageInternal        = "internal error"
	MessageRouteNotFound   = "route not found"
	MessageTooManyRequests = "too many requests"
)

func codeFor(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code overrides the default "BAD_REQUEST" when not nil; errors carries
// per-field validation messages.
func NewBadRequestError(message string, code *string, errors []string) *HTTPError {
	formattedCode := codeFor(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := codeFor(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewConflictError creates a 409 Conflict HTTPError, used when a write
// collides with an existing row.
func NewConflictError(message string, code *string) *HTTPError {
	formattedCode := codeFor(http.StatusConflict)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusTooManyRequests),
		Message: MessageTooManyRequests,
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The text of err (when not nil) is kept in Detail. The global error
// handler strips it in production.
func NewInternalServerError(err error) *HTTPError {
	httpErr := &HTTPError{
		Code:    codeFor(http.StatusInternalServerError),
		Message: MessageInternal,
		Status:  http.StatusInternalServerError,
	}
	if err != nil {
		httpErr.Detail = err.Error()
	}
	return httpErr
}

// ValidationError converts a list of field messages into the 400
// "validation error" response.
func ValidationError(errors []string) *HTTPError {
	return NewBadRequestError(MessageValidation, nil, errors)
}

// InvalidJSONError is returned when the request body is not a JSON object.
func InvalidJSONError() *HTTPError {
	return NewBadRequestError(MessageInvalidJSON, nil, nil)
}

// InvalidGuestIDError is returned for a non-integer or non-positive :id.
func InvalidGuestIDError() *HTTPError {
	return NewBadRequestError(MessageInvalidGuestID, nil, nil)
}

// GuestNotFoundError is returned when no row matches the requested id.
func GuestNotFoundError() *HTTPError {
	return NewNotFoundError(MessageGuestNotFound, nil)
}
