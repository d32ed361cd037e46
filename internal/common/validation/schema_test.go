package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagarik-sewa/internal/common/errors"
)

const routeSchema = `{
  "type": "object",
  "required": ["serviceType"],
  "properties": {
    "serviceType": {"type": "string", "minLength": 1},
    "ward": {"type": "string"},
    "progress": {"type": "integer", "minimum": 0, "maximum": 100}
  }
}`

func TestSchema_Validate(t *testing.T) {
	s := MustCompile("route", routeSchema)
	assert.Equal(t, "route", s.Name())

	tests := []struct {
		name  string
		doc   map[string]interface{}
		valid bool
		field string
	}{
		{"valid", map[string]interface{}{"serviceType": "passport"}, true, ""},
		{"with ward", map[string]interface{}{"serviceType": "national-id", "ward": "Ward 3"}, true, ""},
		{"missing required", map[string]interface{}{"ward": "Ward 3"}, false, "(root)"},
		{"wrong type", map[string]interface{}{"serviceType": 7}, false, "serviceType"},
		{"out of range", map[string]interface{}{"serviceType": "passport", "progress": 101}, false, "progress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Validate(tt.doc)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				assert.True(t, res.HasErrors(tt.field), res.GetErrorMessages())
			}
		})
	}
}

func TestSchema_ValidateBytes(t *testing.T) {
	s := MustCompile("route", routeSchema)

	assert.True(t, s.ValidateBytes([]byte(`{"serviceType":"passport"}`)).Valid)

	res := s.ValidateBytes([]byte(`{not json`))
	assert.False(t, res.Valid)
	assert.Equal(t, "INVALID_DOCUMENT", res.Errors[0].Code)
}

func TestValidationResult_Err(t *testing.T) {
	s := MustCompile("route", routeSchema)

	assert.NoError(t, s.Validate(map[string]interface{}{"serviceType": "passport"}).Err())

	err := s.Validate(map[string]interface{}{"serviceType": ""}).Err()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
	assert.Contains(t, errors.AsStandard(err).Details, "serviceType")
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile("broken", `{`) })
}

func TestValidateEmailAndPhone(t *testing.T) {
	assert.True(t, ValidateEmail("sita@example.com"))
	assert.False(t, ValidateEmail("sita@"))
	assert.True(t, ValidatePhone("+977 9800000000"))
	assert.False(t, ValidatePhone("12345"))
}
