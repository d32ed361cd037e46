package aggregation

import (
	"sort"

	"nagarik-sewa/internal/models"
)

// Hierarchy aggregates the records of every subordinate office for a monitor. Subordinates
// without records appear with zero stats; records of other offices are ignored.
func Hierarchy(monitor models.Office, subordinates []models.Office, records []models.Application) models.HierarchyStats {
	offices := make([]models.Office, 0, len(subordinates))
	buckets := make(map[models.Office][]models.Application, len(subordinates))
	for _, o := range subordinates {
		if _, dup := buckets[o]; dup {
			continue
		}
		buckets[o] = []models.Application{}
		offices = append(offices, o)
	}
	sort.Slice(offices, func(i, j int) bool { return offices[i].ID() < offices[j].ID() })

	var scoped []models.Application
	for _, r := range records {
		o := r.TargetOffice()
		if _, ok := buckets[o]; !ok {
			continue
		}
		buckets[o] = append(buckets[o], r)
		scoped = append(scoped, r)
	}

	perOffice := make([]models.OfficeStats, 0, len(offices))
	for _, o := range offices {
		perOffice = append(perOffice, ForOffice(o, buckets[o]))
	}

	overall := Aggregate(scoped)
	return models.HierarchyStats{
		MonitorOffice:      monitor.Name,
		MonitorLevel:       monitor.Level,
		TotalSubordinates:  len(offices),
		TotalApplications:  overall.Total,
		OverallEfficiency:  overall.Efficiency,
		Overall:            overall,
		Offices:            perOffice,
		ApplicationsByType: ByType(scoped),
	}
}
