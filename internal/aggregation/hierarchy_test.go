package aggregation

import (
	"testing"
	"time"

	"nagarik-sewa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchy(t *testing.T) {
	monitor := models.Office{Level: models.LevelDistrict, Name: "Kaski DAO"}
	outsider := models.Office{Level: models.LevelLocal, Name: "Ward 30 - Pokhara Ward Office"}

	records := []models.Application{
		completedAfter(record("A1", ward10, "birth-certificate", models.StatusCompleted, base), time.Hour),
		record("A2", ward10, "national-id", models.StatusInProgress, base),
		record("A3", outsider, "national-id", models.StatusSubmitted, base),
		record("A4", ward11, "birth-certificate", models.StatusRejected, base),
	}

	got := Hierarchy(monitor, []models.Office{ward11, ward10, passport, ward10}, records)

	assert.Equal(t, "Kaski DAO", got.MonitorOffice)
	assert.Equal(t, models.LevelDistrict, got.MonitorLevel)
	assert.Equal(t, 3, got.TotalSubordinates)
	assert.Equal(t, 3, got.TotalApplications)
	assert.Equal(t, 33, got.OverallEfficiency)
	assert.Equal(t, models.Stats{Total: 3, Completed: 1, Pending: 1, Rejected: 1, InProgress: 1, Efficiency: 33, AvgProcessingTimeDays: 1}, got.Overall)
	assert.Equal(t, map[string]int{"birth-certificate": 2, "national-id": 1}, got.ApplicationsByType)

	require.Len(t, got.Offices, 3)
	assert.Equal(t, passport.ID(), got.Offices[0].OfficeID)
	assert.Equal(t, 0, got.Offices[0].Total)
	assert.Empty(t, got.Offices[0].ApplicationsByType)
	assert.Equal(t, ward10.ID(), got.Offices[1].OfficeID)
	assert.Equal(t, 2, got.Offices[1].Total)
	assert.Equal(t, ward11.ID(), got.Offices[2].OfficeID)
	assert.Equal(t, 1, got.Offices[2].Rejected)
}

func TestHierarchy_NoSubordinates(t *testing.T) {
	got := Hierarchy(models.Office{Level: models.LevelNational, Name: "MoHA"}, nil, []models.Application{
		record("A1", ward10, "passport", models.StatusSubmitted, base),
	})

	assert.Equal(t, 0, got.TotalSubordinates)
	assert.Equal(t, models.Stats{}, got.Overall)
	assert.Empty(t, got.Offices)
	assert.NotNil(t, got.Offices)
}
