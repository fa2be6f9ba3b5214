package model

import (
	"strings"
)

// Guest is the stored record.
//
// Optional fields are pointers so they round-trip as SQL NULL and JSON null.
type Guest struct {
	GuestID int64   `json:"guestid" db:"guestid"`
	Name    string  `json:"name" db:"name"`
	Phone   *string `json:"phone" db:"phone"`
	Email   *string `json:"email" db:"email"`
	Address *string `json:"address" db:"address"`
}

// GuestInput is the body of POST and PUT /api/guests.
//
// Nothing in it is trusted until Validate has returned no errors; use
// Fields to get the typed record after that.
type GuestInput struct {
	GuestID Field `json:"guestid"`
	Name    Field `json:"name"`
	Phone   Field `json:"phone"`
	Email   Field `json:"email"`
	Address Field `json:"address"`
}

// GuestFields is a validated GuestInput: the four mutable columns plus
// the optional client-supplied id.
type GuestFields struct {
	GuestID *int64
	Name    string
	Phone   *string
	Email   *string
	Address *string
}

// Validation messages.
const (
	ErrNameRequired   = "name is required (non-empty string)"
	ErrGuestIDInvalid = "guestid must be positive integer"
)

func mustBeString(field string) string {
	return field + " must be a string"
}

// Validate returns every problem with the four descriptive fields, in
// field order. An empty result means the input is valid.
//
// Only presence and type are checked; phone and email formats are not.
func Validate(in *GuestInput) []string {
	problems := []string{}

	if name, ok := in.Name.AsString(); !ok || strings.TrimSpace(name) == "" {
		problems = append(problems, ErrNameRequired)
	}

	optional := []struct {
		name  string
		field Field
	}{
		{"phone", in.Phone},
		{"email", in.Email},
		{"address", in.Address},
	}

	for _, o := range optional {
		if !o.field.Present() {
			continue
		}
		if _, ok := o.field.AsString(); !ok {
			problems = append(problems, mustBeString(o.name))
		}
	}

	return problems
}

// ValidateForCreate runs Validate and also checks a client-supplied guestid.
func ValidateForCreate(in *GuestInput) []string {
	problems := Validate(in)

	if in.GuestID.Present() {
		if id, ok := in.GuestID.AsInt64(); !ok || id <= 0 {
			problems = append(problems, ErrGuestIDInvalid)
		}
	}

	return problems
}

// Fields converts a validated input. Call it only after Validate (or
// ValidateForCreate) reported no problems.
func (in *GuestInput) Fields() GuestFields {
	name, _ := in.Name.AsString()

	fields := GuestFields{
		Name:    strings.TrimSpace(name),
		Phone:   optionalString(in.Phone),
		Email:   optionalString(in.Email),
		Address: optionalString(in.Address),
	}

	if id, ok := in.GuestID.AsInt64(); ok {
		fields.GuestID = &id
	}

	return fields
}

func optionalString(f Field) *string {
	s, ok := f.AsString()
	if !ok {
		return nil
	}
	return &s
}
