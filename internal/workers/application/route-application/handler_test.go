// internal/workers/application/route-application/handler_test.go
package routeapplication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/routing"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), routing.NewResolver(catalog.Default()), logger.NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name          string
		input         Input
		expectedLevel string
		expectedName  string
	}{
		{
			name:          "ward level service",
			input:         Input{ApplicationID: "APP00000001", ServiceType: "birth-certificate", Ward: "Ward 10"},
			expectedLevel: "local",
			expectedName:  "Ward 10 - Pokhara Ward Office",
		},
		{
			name:          "district level service ignores ward",
			input:         Input{ApplicationID: "APP00000002", ServiceType: "passport", Ward: "Ward 3"},
			expectedLevel: "district",
			expectedName:  "Kaski DAO (Passport Section)",
		},
		{
			name:          "land registration",
			input:         Input{ServiceType: "land-registration"},
			expectedLevel: "district",
			expectedName:  "Kaski District Land Revenue Office",
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLevel, out.TargetOfficeLevel)
			assert.Equal(t, tt.expectedName, out.TargetOfficeName)
		})
	}
}

func TestHandler_Execute_DomainErrors(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{ServiceType: "visa"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidServiceType))

	_, err = h.Execute(context.Background(), &Input{ServiceType: "national-id"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingWard))

	// Domain errors are thrown as BPMN errors, never retried.
	bpmn := errors.ConvertToBPMNError(errors.AsStandard(err))
	assert.Equal(t, "MISSING_WARD", bpmn.Code)
	assert.Zero(t, bpmn.Retries)
}

func TestParseInput(t *testing.T) {
	input, err := parseInput(`{"applicationId":"APP1","serviceType":"national-id","ward":"Ward 1"}`)
	require.NoError(t, err)
	assert.Equal(t, "Ward 1", input.Ward)

	for name, vars := range map[string]string{
		"missing service type": `{"ward":"Ward 1"}`,
		"wrong type":           `{"serviceType":42}`,
		"not json":             `{`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseInput(vars)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
		})
	}
}
