// Package aggregation derives dashboard statistics from application records.
// All functions are pure; empty input yields zero values, never a division by zero.
package aggregation

import (
	"sort"
	"time"

	"nagarik-sewa/internal/models"
)

const day = 24 * time.Hour

// Aggregate computes counts, efficiency and average processing time over records.
func Aggregate(records []models.Application) models.Stats {
	var (
		s         models.Stats
		daysSum   int
		daysCount int
	)

	for _, r := range records {
		s.Total++
		switch r.Status {
		case models.StatusCompleted:
			s.Completed++
			if r.CompletedDate != nil {
				daysSum += processingDays(r.SubmittedDate, *r.CompletedDate)
				daysCount++
			}
		case models.StatusInProgress:
			s.InProgress++
		}
		if r.Status != models.StatusCompleted && r.Status != models.StatusRejected {
			s.Pending++
		}
		if r.Status == models.StatusRejected || (r.Approved != nil && !*r.Approved) {
			s.Rejected++
		}
	}

	s.Efficiency = Efficiency(s.Completed, s.Total)
	if daysCount > 0 {
		s.AvgProcessingTimeDays = roundHalfUp(daysSum, daysCount)
	}
	return s
}

// Efficiency is round_half_up(100*completed/total), 0 when total is 0.
func Efficiency(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return roundHalfUp(100*completed, total)
}

// processingDays counts started days between submission and completion; negative spans count as 0.
func processingDays(submitted, completed time.Time) int {
	d := completed.Sub(submitted)
	if d <= 0 {
		return 0
	}
	return int((d + day - 1) / day)
}

// roundHalfUp returns num/den rounded half up, for non-negative operands.
func roundHalfUp(num, den int) int {
	return (2*num + den) / (2 * den)
}

// ByType is the service_type histogram.
func ByType(records []models.Application) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		out[r.ServiceType]++
	}
	return out
}

// ForOffice aggregates the records of a single office.
func ForOffice(office models.Office, records []models.Application) models.OfficeStats {
	return models.OfficeStats{
		OfficeID:           office.ID(),
		OfficeLevel:        office.Level,
		OfficeName:         office.Name,
		Stats:              Aggregate(records),
		ApplicationsByType: ByType(records),
	}
}

// GroupByOffice buckets records by target office and aggregates each bucket, ordered by office id.
func GroupByOffice(records []models.Application) []models.OfficeStats {
	buckets := make(map[models.Office][]models.Application)
	for _, r := range records {
		o := r.TargetOffice()
		buckets[o] = append(buckets[o], r)
	}

	out := make([]models.OfficeStats, 0, len(buckets))
	for office, recs := range buckets {
		out = append(out, ForOffice(office, recs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OfficeID < out[j].OfficeID })
	return out
}
