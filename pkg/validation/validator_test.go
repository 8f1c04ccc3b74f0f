package validation_test

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-campus/pkg/validation"
)

type semesterRequest struct {
	Code  string   `json:"code" validate:"required,max=16"`
	Term  string   `json:"term" validate:"required,term"`
	Year  int      `json:"year" validate:"gte=2000,lte=2100"`
	Email string   `json:"email" validate:"omitempty,email"`
	Role  string   `json:"role" validate:"omitempty,userrole"`
	IDs   []string `json:"ids" validate:"omitempty,min=1,dive,uuid4"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.Configure(v)
	return v
}

func TestToDetails_ValidationErrors(t *testing.T) {
	err := newValidator().Struct(semesterRequest{Term: "winter", Year: 1999, Email: "nope", Role: "dean", IDs: []string{"x"}})
	require.Error(t, err)

	d := validation.ToDetails(err)
	assert.Equal(t, "is required", d["code"])
	assert.Equal(t, "must be one of: spring, summer, fall", d["term"])
	assert.Equal(t, "must be greater than or equal to 2000", d["year"])
	assert.Equal(t, "must be a valid email address", d["email"])
	assert.Equal(t, "must be one of: admin, lecturer, student", d["role"])
	assert.Equal(t, "must be a valid UUID", d["ids[0]"])
}

func TestToDetails_Valid(t *testing.T) {
	err := newValidator().Struct(semesterRequest{Code: "FA24", Term: "fall", Year: 2024})
	assert.NoError(t, err)
	assert.Nil(t, validation.ToDetails(nil))
}

func TestToDetails_JSONErrors(t *testing.T) {
	var dst semesterRequest
	err := json.Unmarshal([]byte(`{"code":`), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, validation.ToDetails(err))

	err = json.Unmarshal([]byte(`{"year":"2024"}`), &dst)
	assert.Equal(t, map[string]string{"year": "must be int"}, validation.ToDetails(err))
}
