package aggregation

import (
	"testing"
	"time"

	"nagarik-sewa/internal/models"

	"github.com/stretchr/testify/assert"
)

var (
	ward10   = models.Office{Level: models.LevelLocal, Name: "Ward 10 - Pokhara Ward Office"}
	ward11   = models.Office{Level: models.LevelLocal, Name: "Ward 11 - Pokhara Ward Office"}
	passport = models.Office{Level: models.LevelDistrict, Name: "Kaski DAO (Passport Section)"}
	base     = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
)

func boolPtr(b bool) *bool { return &b }

func record(id string, office models.Office, service string, status models.ApplicationStatus, submitted time.Time) models.Application {
	app := models.Application{
		ID:                id,
		ServiceType:       service,
		TargetOfficeLevel: office.Level,
		TargetOfficeName:  office.Name,
		Status:            status,
		SubmittedDate:     submitted,
	}
	switch status {
	case models.StatusInProgress:
		app.Approved = boolPtr(true)
		app.Progress = 25
	case models.StatusCompleted:
		app.Approved = boolPtr(true)
		app.Progress = 100
	case models.StatusRejected:
		app.Approved = boolPtr(false)
		app.RejectionMessage = "incomplete"
	}
	return app
}

func completedAfter(app models.Application, d time.Duration) models.Application {
	done := app.SubmittedDate.Add(d)
	app.CompletedDate = &done
	return app
}

func TestAggregate_Empty(t *testing.T) {
	assert.Equal(t, models.Stats{}, Aggregate(nil))
	assert.Equal(t, models.Stats{}, Aggregate([]models.Application{}))
}

func TestAggregate_SingleCompleted(t *testing.T) {
	app := completedAfter(record("A1", ward10, "birth-certificate", models.StatusCompleted, base), 2*time.Hour)

	got := Aggregate([]models.Application{app})

	assert.Equal(t, models.Stats{Total: 1, Completed: 1, Efficiency: 100, AvgProcessingTimeDays: 1}, got)
}

func TestAggregate_Mixed(t *testing.T) {
	records := []models.Application{
		record("A1", ward10, "birth-certificate", models.StatusSubmitted, base),
		record("A2", ward10, "birth-certificate", models.StatusInProgress, base),
		record("A3", ward10, "national-id", models.StatusRejected, base),
		completedAfter(record("A4", ward10, "national-id", models.StatusCompleted, base), 36*time.Hour),
		completedAfter(record("A5", ward10, "national-id", models.StatusCompleted, base), 72*time.Hour),
		completedAfter(record("A6", ward10, "national-id", models.StatusCompleted, base), -time.Hour),
	}

	got := Aggregate(records)

	assert.Equal(t, 6, got.Total)
	assert.Equal(t, 3, got.Completed)
	assert.Equal(t, 2, got.Pending)
	assert.Equal(t, 1, got.InProgress)
	assert.Equal(t, 1, got.Rejected)
	assert.Equal(t, 50, got.Efficiency)
	// ceil days: 2, 3, 0 → mean 5/3 → 2
	assert.Equal(t, 2, got.AvgProcessingTimeDays)
}

func TestAggregate_RejectedCountsApprovedFalse(t *testing.T) {
	odd := record("A1", ward10, "passport", models.StatusSubmitted, base)
	odd.Approved = boolPtr(false)

	got := Aggregate([]models.Application{odd})
	assert.Equal(t, 1, got.Rejected)
	assert.Equal(t, 1, got.Pending)
}

func TestAggregate_CompletedWithoutDateSkippedForAverage(t *testing.T) {
	app := record("A1", ward10, "passport", models.StatusCompleted, base)

	got := Aggregate([]models.Application{app})
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 0, got.AvgProcessingTimeDays)
}

func TestEfficiency_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{1, 8, 13},  // 12.5
		{1, 3, 33},  // 33.3
		{2, 3, 67},  // 66.7
		{1, 200, 1}, // 0.5
		{1, 201, 0}, // 0.497
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Efficiency(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}

func TestProcessingDays(t *testing.T) {
	assert.Equal(t, 0, processingDays(base, base))
	assert.Equal(t, 1, processingDays(base, base.Add(time.Nanosecond)))
	assert.Equal(t, 1, processingDays(base, base.Add(24*time.Hour)))
	assert.Equal(t, 2, processingDays(base, base.Add(24*time.Hour+time.Second)))
	assert.Equal(t, 0, processingDays(base, base.Add(-48*time.Hour)))
}

func TestGroupByOffice(t *testing.T) {
	records := []models.Application{
		record("A1", ward11, "birth-certificate", models.StatusSubmitted, base),
		record("A2", passport, "passport", models.StatusInProgress, base),
		completedAfter(record("A3", ward11, "national-id", models.StatusCompleted, base), time.Hour),
	}

	got := GroupByOffice(records)

	assert.Len(t, got, 2)
	assert.Equal(t, passport.ID(), got[0].OfficeID)
	assert.Equal(t, ward11.ID(), got[1].OfficeID)
	assert.Equal(t, 2, got[1].Total)
	assert.Equal(t, 50, got[1].Efficiency)
	assert.Equal(t, map[string]int{"birth-certificate": 1, "national-id": 1}, got[1].ApplicationsByType)
}
