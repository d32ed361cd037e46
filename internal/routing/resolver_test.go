package routing

import (
	stderrors "errors"
	"testing"

	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(catalog.Default())

	tests := []struct {
		name        string
		serviceType string
		ward        string
		want        models.OfficeAssignment
		wantErr     error
	}{
		{
			name:        "ward service",
			serviceType: "birth-certificate",
			ward:        "Ward 10",
			want:        models.OfficeAssignment{Level: models.LevelLocal, Name: "Ward 10 - Pokhara Ward Office"},
		},
		{
			name:        "district service ignores ward",
			serviceType: "passport",
			ward:        "Ward 3",
			want:        models.OfficeAssignment{Level: models.LevelDistrict, Name: "Kaski DAO (Passport Section)"},
		},
		{
			name:        "ward trimmed",
			serviceType: "national-id",
			ward:        "  Ward 2 ",
			want:        models.OfficeAssignment{Level: models.LevelLocal, Name: "Ward 2 - Pokhara Ward Office"},
		},
		{
			name:        "missing ward",
			serviceType: "marriage-certificate",
			ward:        " ",
			wantErr:     errors.ErrMissingWard,
		},
		{
			name:        "unknown service",
			serviceType: "visa",
			wantErr:     errors.ErrInvalidServiceType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.serviceType, tt.ward)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, tt.wantErr))
				assert.Equal(t, models.OfficeAssignment{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_WardServicesAlwaysNeedWard(t *testing.T) {
	c := catalog.Default()
	r := NewResolver(c)

	for _, svc := range c.Services() {
		if !svc.NeedsWard {
			continue
		}
		_, err := r.Resolve(svc.Type, "")
		assert.Equal(t, errors.ErrCodeMissingWard, errors.CodeOf(err), svc.Type)

		got, err := r.Resolve(svc.Type, "Ward 5")
		require.NoError(t, err)
		assert.Contains(t, got.Name, "Ward 5")
	}
}

func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver(catalog.Default())

	first, err := r.Resolve("land-registration", "")
	require.NoError(t, err)
	second, err := r.Resolve("land-registration", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
