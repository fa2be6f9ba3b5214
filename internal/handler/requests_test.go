package handler

import (
	"errors"
	"testing"

	"github.com/deppfellow/guests-api/internal/errs"
	"github.com/deppfellow/guests-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestIDRequest_Validate(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			req := &GuestIDRequest{RawID: tc.raw}
			err := req.Validate()

			if !tc.ok {
				var httpErr *errs.HTTPError
				require.True(t, errors.As(err, &httpErr))
				assert.Equal(t, errs.MessageInvalidGuestID, httpErr.Message)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, req.ID)
		})
	}
}

func TestGuestProblems(t *testing.T) {
	assert.NoError(t, guestProblems(nil))
	assert.NoError(t, guestProblems([]string{}))

	err := guestProblems([]string{"name is required (non-empty string)", "phone must be a string"})

	var custom validation.CustomValidationErrors
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, "name", custom[0].Field)
	assert.Equal(t, "phone", custom[1].Field)
	assert.Equal(t, []string{"name is required (non-empty string)", "phone must be a string"}, custom.Messages())
}
