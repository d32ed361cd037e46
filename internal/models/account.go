// internal/models/account.go
package models

import "time"

type OfficeLevel string

const (
	LevelLocal        OfficeLevel = "local"
	LevelMetropolitan OfficeLevel = "metropolitan"
	LevelDistrict     OfficeLevel = "district"
	LevelProvince     OfficeLevel = "province"
	LevelNational     OfficeLevel = "national"
)

// levelRank orders the administrative tree: ward, municipality, district, province, national.
var levelRank = map[OfficeLevel]int{
	LevelLocal:        0,
	LevelMetropolitan: 1,
	LevelDistrict:     2,
	LevelProvince:     3,
	LevelNational:     4,
}

func (l OfficeLevel) IsValid() bool {
	_, ok := levelRank[l]
	return ok
}

// Rank returns the position in the tree, -1 for unknown levels.
func (l OfficeLevel) Rank() int {
	if r, ok := levelRank[l]; ok {
		return r
	}
	return -1
}

// LevelsBelow lists every level strictly under l, nearest first.
func LevelsBelow(l OfficeLevel) []OfficeLevel {
	all := []OfficeLevel{LevelProvince, LevelDistrict, LevelMetropolitan, LevelLocal}
	out := make([]OfficeLevel, 0, len(all))
	for _, candidate := range all {
		if candidate.Rank() < l.Rank() {
			out = append(out, candidate)
		}
	}
	return out
}

type Office struct {
	Level OfficeLevel `json:"office_level"`
	Name  string      `json:"office_name"`
}

// ID is the stable "<level>:<name>" key used in hierarchy stats.
func (o Office) ID() string {
	return string(o.Level) + ":" + o.Name
}

func (o Office) IsZero() bool {
	return o.Level == "" && o.Name == ""
}

const (
	UserTypeCitizen  = "citizen"
	UserTypeOfficial = "official"
)

// Account is a persisted user. Monitors are officials with IsMonitor set.
type Account struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	FullName    string        `json:"full_name"`
	Phone       string        `json:"phone"`
	UserType    string        `json:"user_type"`
	OfficeLevel OfficeLevel   `json:"office_level,omitempty"`
	OfficeName  string        `json:"office_name,omitempty"`
	IsMonitor   bool          `json:"is_monitor"`
	Monitors    []OfficeLevel `json:"monitors,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (a Account) Office() Office {
	return Office{Level: a.OfficeLevel, Name: a.OfficeName}
}

// Role returns the tagged role variant for the account.
func (a Account) Role() Role {
	switch {
	case a.UserType == UserTypeOfficial && a.IsMonitor:
		return Monitor{AccountID: a.ID, Office: a.Office(), Monitors: a.Monitors}
	case a.UserType == UserTypeOfficial:
		return Official{AccountID: a.ID, Office: a.Office()}
	default:
		return Citizen{AccountID: a.ID}
	}
}

// Role is a closed set of caller kinds: Citizen, Official or Monitor.
type Role interface {
	ID() string
	Kind() string
	isRole()
}

type Citizen struct {
	AccountID string
}

type Official struct {
	AccountID string
	Office    Office
}

// Monitor observes subordinate offices. An empty Monitors list means every level below its own.
type Monitor struct {
	AccountID string
	Office    Office
	Monitors  []OfficeLevel
}

func (c Citizen) ID() string  { return c.AccountID }
func (o Official) ID() string { return o.AccountID }
func (m Monitor) ID() string  { return m.AccountID }

func (Citizen) Kind() string  { return "citizen" }
func (Official) Kind() string { return "official" }
func (Monitor) Kind() string  { return "monitor" }

func (Citizen) isRole()  {}
func (Official) isRole() {}
func (Monitor) isRole()  {}

// ObservedLevels resolves the levels a monitor aggregates over.
func (m Monitor) ObservedLevels() []OfficeLevel {
	if len(m.Monitors) > 0 {
		return m.Monitors
	}
	return LevelsBelow(m.Office.Level)
}

// OfficeOf returns the office affiliation of staff roles.
func OfficeOf(r Role) (Office, bool) {
	switch v := r.(type) {
	case Official:
		return v.Office, true
	case Monitor:
		return v.Office, true
	default:
		return Office{}, false
	}
}

// Identity is the verified caller attached to a request.
type Identity struct {
	Name string
	Role Role
}
