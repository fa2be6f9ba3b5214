package errs

import "strings"

// HTTPError is the main custom error type for API responses.
//
// Only Message, Errors and Detail are serialized, giving the body
//
//	{ "message": "...", "errors": ["..."], "error": "..." }
//
// Code and Status drive logging and the response status line.
type HTTPError struct {
	Code    string `json:"-"`
	Message string `json:"message"`
	Status  int    `json:"-"`

	// Errors holds field-level validation messages.
	Errors []string `json:"errors,omitempty"`

	// Detail carries the underlying error text of internal failures.
	Detail string `json:"error,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It only compares the type, not Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Errors:  e.Errors,
		Detail:  e.Detail,
	}
}

// WithoutDetail returns a copy of this HTTPError with Detail cleared.
func (e *HTTPError) WithoutDetail() *HTTPError {
	cp := e.WithMessage(e.Message)
	cp.Detail = ""
	return cp
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
