package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestApplication_CheckInvariants(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		app     Application
		wantErr bool
	}{
		{"submitted", Application{Status: StatusSubmitted}, false},
		{"in progress", Application{Status: StatusInProgress, Approved: boolPtr(true), Progress: 25}, false},
		{"completed", Application{Status: StatusCompleted, Approved: boolPtr(true), Progress: 100, CompletedDate: &now}, false},
		{"rejected", Application{Status: StatusRejected, Approved: boolPtr(false), RejectionMessage: "missing documents"}, false},
		{"completed without date", Application{Status: StatusCompleted, Approved: boolPtr(true), Progress: 100}, true},
		{"progress 100 while in progress", Application{Status: StatusInProgress, Approved: boolPtr(true), Progress: 100}, true},
		{"rejected without reason", Application{Status: StatusRejected, Approved: boolPtr(false)}, true},
		{"submitted but approved", Application{Status: StatusSubmitted, Approved: boolPtr(true)}, true},
		{"unknown status", Application{Status: "Approved"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.app.CheckInvariants()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplication_CloneIsDeep(t *testing.T) {
	now := time.Now().UTC()
	original := Application{Approved: boolPtr(true), CompletedDate: &now}

	clone := original.Clone()
	*clone.Approved = false
	later := now.Add(time.Hour)
	clone.CompletedDate = &later

	assert.True(t, *original.Approved)
	assert.Equal(t, now, *original.CompletedDate)
}

func TestAccount_Role(t *testing.T) {
	citizen := Account{ID: "u1", UserType: UserTypeCitizen}
	official := Account{ID: "u2", UserType: UserTypeOfficial, OfficeLevel: LevelLocal, OfficeName: "Ward 10 - Pokhara Ward Office"}
	monitor := Account{ID: "u3", UserType: UserTypeOfficial, IsMonitor: true, OfficeLevel: LevelDistrict, OfficeName: "Kaski DAO"}

	assert.Equal(t, Citizen{AccountID: "u1"}, citizen.Role())
	assert.Equal(t, Official{AccountID: "u2", Office: official.Office()}, official.Role())

	m, ok := monitor.Role().(Monitor)
	assert.True(t, ok)
	assert.Equal(t, "monitor", m.Kind())
	assert.Equal(t, []OfficeLevel{LevelMetropolitan, LevelLocal}, m.ObservedLevels())
}

func TestMonitor_ObservedLevelsExplicit(t *testing.T) {
	m := Monitor{Office: Office{Level: LevelNational}, Monitors: []OfficeLevel{LevelProvince}}
	assert.Equal(t, []OfficeLevel{LevelProvince}, m.ObservedLevels())
}

func TestOfficeLevel_Rank(t *testing.T) {
	assert.Less(t, LevelLocal.Rank(), LevelMetropolitan.Rank())
	assert.Less(t, LevelMetropolitan.Rank(), LevelDistrict.Rank())
	assert.Less(t, LevelDistrict.Rank(), LevelProvince.Rank())
	assert.Less(t, LevelProvince.Rank(), LevelNational.Rank())
	assert.Equal(t, -1, OfficeLevel("galaxy").Rank())
	assert.Equal(t, "local:Ward 1 - Pokhara Ward Office", Office{Level: LevelLocal, Name: "Ward 1 - Pokhara Ward Office"}.ID())
}
