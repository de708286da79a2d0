package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string   `json:"email" validate:"required,email"`
	Horarios []string `json:"horarios" validate:"dive,hhmm"`
	Data     string   `json:"data" validate:"omitempty,date"`
	Tipo     string   `json:"tipo" validate:"oneof=queda agua"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Email: "nope", Horarios: []string{"08:00", "25:00"}, Data: "2024-13-01", Tipo: "x"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "horarios[1]")
	assert.Equal(t, "data must use the YYYY-MM-DD format", errs["data"])
	assert.Equal(t, "tipo must be one of: queda agua", errs["tipo"])
}

func TestValidateAcceptsWellFormedValues(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Email: "ana@example.com", Horarios: []string{"00:00", "23:59"}, Data: "2024-02-29", Tipo: "agua"})
	assert.NoError(t, err)
}
