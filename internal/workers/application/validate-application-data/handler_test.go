// internal/workers/application/validate-application-data/handler_test.go
package validateapplicationdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), catalog.Default(), logger.NewTestLogger(t))
}

func validDraft() ApplicationData {
	return ApplicationData{
		FullName:    "  Sita   Sharma ",
		Email:       "sita@example.com",
		Phone:       "+977 9800000000",
		Province:    "Gandaki Province",
		District:    "Kaski",
		City:        catalog.PokharaMetropolitanCity,
		Ward:        "Ward 10",
		ServiceType: "birth-certificate",
	}
}

func TestHandler_Execute_Valid(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{ApplicationData: validDraft()})
	require.NoError(t, err)
	assert.True(t, out.IsValid)
	assert.True(t, out.CityAvailable)
	assert.Equal(t, "Sita Sharma", out.ValidatedData.FullName)
	assert.Equal(t, "Ward 10", out.ValidatedData.Ward)
	assert.Empty(t, out.ValidationErrors)
}

func TestHandler_Execute_DropsWardForDistrictServices(t *testing.T) {
	h := newTestHandler(t)
	draft := validDraft()
	draft.ServiceType = "passport"

	out, err := h.Execute(context.Background(), &Input{ApplicationData: draft})
	require.NoError(t, err)
	assert.Empty(t, out.ValidatedData.Ward)
}

func TestHandler_Execute_UnavailableCityIsReported(t *testing.T) {
	h := newTestHandler(t)
	draft := validDraft()
	draft.City = catalog.OtherCities
	draft.ServiceType = "land-registration"

	out, err := h.Execute(context.Background(), &Input{ApplicationData: draft})
	require.NoError(t, err)
	assert.False(t, out.CityAvailable)
}

func TestHandler_Execute_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *ApplicationData)
		field  string
	}{
		{"blank name", func(d *ApplicationData) { d.FullName = "   " }, "fullName"},
		{"bad email", func(d *ApplicationData) { d.Email = "not-an-email" }, "email"},
		{"bad phone", func(d *ApplicationData) { d.Phone = "123" }, "phone"},
		{"unknown province", func(d *ApplicationData) { d.Province = "Atlantis" }, "province"},
		{"district outside province", func(d *ApplicationData) { d.District = "Kathmandu" }, "district"},
		{"city outside district", func(d *ApplicationData) { d.City = "Bharatpur" }, "city"},
		{"unknown service", func(d *ApplicationData) { d.ServiceType = "visa" }, "serviceType"},
		{"missing ward", func(d *ApplicationData) { d.Ward = "" }, "ward"},
		{"ward outside city", func(d *ApplicationData) { d.Ward = "Ward 99" }, "ward"},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			_, err := h.Execute(context.Background(), &Input{ApplicationData: draft})
			require.Error(t, err)
			std := errors.AsStandard(err)
			assert.Equal(t, errors.ErrCodeValidation, std.Code)
			assert.Equal(t, tt.field, std.Field)
			assert.Zero(t, errors.ConvertToBPMNError(std).Retries)
		})
	}
}

func TestHandler_Execute_CollectsEveryError(t *testing.T) {
	h := newTestHandler(t)
	draft := validDraft()
	draft.FullName = ""
	draft.Email = "bad"
	draft.Ward = ""

	_, err := h.Execute(context.Background(), &Input{ApplicationData: draft})
	std := errors.AsStandard(err)
	require.NotNil(t, std)
	assert.Contains(t, std.Details, "fullName")
	assert.Contains(t, std.Details, "email")
	assert.Contains(t, std.Details, "ward")
}

func TestParseInput(t *testing.T) {
	input, err := parseInput(`{"applicationData":{"fullName":"Ram","province":"Bagmati Province","district":"Kathmandu","city":"Other cities/areas","serviceType":"passport"}}`)
	require.NoError(t, err)
	assert.Equal(t, "passport", input.ApplicationData.ServiceType)

	for name, vars := range map[string]string{
		"missing data":     `{}`,
		"missing district": `{"applicationData":{"fullName":"Ram","province":"Bagmati Province","city":"x","serviceType":"passport"}}`,
		"not json":         `{`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseInput(vars)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
		})
	}
}
