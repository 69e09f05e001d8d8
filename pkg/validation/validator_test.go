package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	EmployeeID string `json:"employeeId" validate:"required"`
	Role       string `json:"role" validate:"omitempty,oneof=employee manager"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)
	return v
}

func TestFields(t *testing.T) {
	err := newValidator().Struct(signup{Email: "nope", Password: "abc", Role: "boss"})
	require.Error(t, err)

	fields := Fields(err)
	require.Len(t, fields, 4)

	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be at least 6 characters", byField["password"])
	assert.Equal(t, "is required", byField["employeeId"])
	assert.Equal(t, "must be one of: employee manager", byField["role"])
}

func TestFields_NotValidationError(t *testing.T) {
	assert.Nil(t, Fields(errors.New("EOF")))
	assert.Nil(t, Fields(nil))
}

func TestSummary(t *testing.T) {
	s := Summary([]FieldError{
		{Field: "email", Message: "is required"},
		{Field: "password", Message: "is required"},
	})
	assert.Equal(t, "email: is required; password: is required", s)
}
