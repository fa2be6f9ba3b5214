package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *GuestInput {
	t.Helper()

	in := &GuestInput{}
	require.NoError(t, json.Unmarshal([]byte(body), in))

	return in
}

func TestValidate(t *testing.T) {
	tests := []struct {
		desc string
		body string
		want []string
	}{
		{"valid minimal", `{"name":"Alice"}`, []string{}},
		{"valid full", `{"name":"Alice","phone":"555-1","email":"a@x","address":"Main St"}`, []string{}},
		{"optional nulls", `{"name":"Alice","phone":null,"email":null,"address":null}`, []string{}},
		{"missing name", `{}`, []string{ErrNameRequired}},
		{"empty name", `{"name":""}`, []string{ErrNameRequired}},
		{"whitespace name", `{"name":"   \t"}`, []string{ErrNameRequired}},
		{"null name", `{"name":null}`, []string{ErrNameRequired}},
		{"numeric name", `{"name":42}`, []string{ErrNameRequired}},
		{"object name", `{"name":{"first":"A"}}`, []string{ErrNameRequired}},
		{"numeric phone", `{"name":"A","phone":5551}`, []string{"phone must be a string"}},
		{"all wrong", `{"name":false,"phone":1,"email":[],"address":{}}`,
			[]string{ErrNameRequired, "phone must be a string", "email must be a string", "address must be a string"}},
		{"guestid ignored", `{"name":"A","guestid":"abc"}`, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(decode(t, tc.body)))
		})
	}
}

func TestValidateForCreate(t *testing.T) {
	tests := []struct {
		desc string
		body string
		want []string
	}{
		{"no id", `{"name":"A"}`, []string{}},
		{"positive id", `{"name":"A","guestid":7}`, []string{}},
		{"null id", `{"name":"A","guestid":null}`, []string{}},
		{"zero id", `{"name":"A","guestid":0}`, []string{ErrGuestIDInvalid}},
		{"negative id", `{"name":"A","guestid":-3}`, []string{ErrGuestIDInvalid}},
		{"fractional id", `{"name":"A","guestid":1.5}`, []string{ErrGuestIDInvalid}},
		{"string id", `{"name":"A","guestid":"7"}`, []string{ErrGuestIDInvalid}},
		{"bad id and name", `{"guestid":-1}`, []string{ErrNameRequired, ErrGuestIDInvalid}},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateForCreate(decode(t, tc.body)))
		})
	}
}

func TestGuestInput_Fields(t *testing.T) {
	in := decode(t, `{"guestid":12,"name":"  Alice  ","phone":"555-1","email":null}`)
	require.Empty(t, ValidateForCreate(in))

	fields := in.Fields()

	require.NotNil(t, fields.GuestID)
	assert.Equal(t, int64(12), *fields.GuestID)
	assert.Equal(t, "Alice", fields.Name)
	require.NotNil(t, fields.Phone)
	assert.Equal(t, "555-1", *fields.Phone)
	assert.Nil(t, fields.Email)
	assert.Nil(t, fields.Address)
}

func TestGuest_JSONNulls(t *testing.T) {
	phone := "555-1"
	body, err := json.Marshal(Guest{GuestID: 1, Name: "Alice", Phone: &phone})
	require.NoError(t, err)

	assert.JSONEq(t, `{"guestid":1,"name":"Alice","phone":"555-1","email":null,"address":null}`, string(body))
}

func TestField(t *testing.T) {
	var absent Field
	assert.False(t, absent.Present())

	null := RawField("null")
	assert.False(t, null.Present())

	s, ok := StringField("hi").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = RawField("12").AsString()
	assert.False(t, ok)

	n, ok := RawField("12").AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)
}
