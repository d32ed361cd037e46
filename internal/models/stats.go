// internal/models/stats.go
package models

// Stats is the aggregate shown on office and hierarchy dashboards.
type Stats struct {
	Total                 int `json:"total"`
	Completed             int `json:"completed"`
	Pending               int `json:"pending"`
	Rejected              int `json:"rejected"`
	InProgress            int `json:"in_progress"`
	Efficiency            int `json:"efficiency"`
	AvgProcessingTimeDays int `json:"avg_processing_time_days"`
}

type OfficeStats struct {
	OfficeID    string      `json:"office_id"`
	OfficeLevel OfficeLevel `json:"office_level"`
	OfficeName  string      `json:"office_name"`
	Stats
	ApplicationsByType map[string]int `json:"applications_by_type"`
}

type HierarchyStats struct {
	MonitorOffice      string         `json:"monitor_office"`
	MonitorLevel       OfficeLevel    `json:"monitor_level"`
	TotalSubordinates  int            `json:"total_subordinates"`
	TotalApplications  int            `json:"total_applications"`
	OverallEfficiency  int            `json:"overall_efficiency"`
	Overall            Stats          `json:"overall"`
	Offices            []OfficeStats  `json:"offices"`
	ApplicationsByType map[string]int `json:"applications_by_type"`
}
