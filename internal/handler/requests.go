package handler

import (
	"strconv"
	"strings"

	"github.com/deppfellow/guests-api/internal/errs"
	"github.com/deppfellow/guests-api/internal/model"
	"github.com/deppfellow/guests-api/internal/validation"
)

// ListGuestsRequest has no inputs.
type ListGuestsRequest struct{}

func NewListGuestsRequest() *ListGuestsRequest { return &ListGuestsRequest{} }

func (r *ListGuestsRequest) Validate() error { return nil }

// GuestIDRequest carries the :id path parameter of a single-guest route.
//
// ID is filled by Validate once RawID parses as a positive base-10 integer.
type GuestIDRequest struct {
	RawID string `param:"id"`
	ID    int64
}

func NewGuestIDRequest() *GuestIDRequest { return &GuestIDRequest{} }

func (r *GuestIDRequest) Validate() error {
	id, err := strconv.ParseInt(r.RawID, 10, 64)
	if err != nil || id <= 0 {
		return errs.InvalidGuestIDError()
	}

	r.ID = id
	return nil
}

// CreateGuestRequest is the body of POST /api/guests.
type CreateGuestRequest struct {
	Input model.GuestInput
}

func NewCreateGuestRequest() *CreateGuestRequest { return &CreateGuestRequest{} }

func (r *CreateGuestRequest) Body() any { return &r.Input }

func (r *CreateGuestRequest) Validate() error {
	return guestProblems(model.ValidateForCreate(&r.Input))
}

// ReplaceGuestBody is the body of PUT /api/guests/:id. It is bound only
// after the guest is known to exist. A guestid in it is ignored.
type ReplaceGuestBody struct {
	Input model.GuestInput
}

func (r *ReplaceGuestBody) Body() any { return &r.Input }

func (r *ReplaceGuestBody) Validate() error {
	return guestProblems(model.Validate(&r.Input))
}

// guestProblems wraps validator output as CustomValidationErrors, keyed
// by the field each message starts with.
func guestProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}

	out := make(validation.CustomValidationErrors, 0, len(problems))
	for _, p := range problems {
		field, _, _ := strings.Cut(p, " ")
		out = append(out, validation.CustomValidationError{Field: field, Message: p})
	}

	return out
}
