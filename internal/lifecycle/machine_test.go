package lifecycle

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wardOffice = models.Office{Level: models.LevelLocal, Name: "Ward 10 - Pokhara Ward Office"}
	official   = models.Official{AccountID: "off-1", Office: wardOffice}
	fixedNow   = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
)

func testMachine() *Machine {
	return NewMachine().WithClock(func() time.Time { return fixedNow })
}

func submitted(t *testing.T) models.Application {
	t.Helper()
	draft := models.Application{
		UserID:      "cit-1",
		FullName:    "Sita Sharma",
		ServiceType: "birth-certificate",
		Ward:        "Ward 10",
	}
	app := testMachine().Submit(draft, models.OfficeAssignment{Level: wardOffice.Level, Name: wardOffice.Name}, 5)
	require.NoError(t, app.CheckInvariants())
	return app
}

func apply(t *testing.T, app models.Application, cmd Command) models.Application {
	t.Helper()
	next, err := testMachine().Apply(app, official, cmd)
	require.NoError(t, err)
	require.NoError(t, next.CheckInvariants())
	return next
}

func TestSubmit(t *testing.T) {
	app := submitted(t)

	assert.True(t, strings.HasPrefix(app.ID, "APP"))
	assert.Len(t, app.ID, 11)
	assert.Equal(t, strings.ToUpper(app.ID), app.ID)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.Nil(t, app.Approved)
	assert.Equal(t, 0, app.Progress)
	assert.Equal(t, models.StageDocumentVerification, app.CurrentStage)
	assert.Equal(t, 5, app.EstimatedDays)
	assert.Equal(t, fixedNow, app.SubmittedDate)
	assert.Equal(t, wardOffice, app.TargetOffice())
}

func TestApply_HappyPath(t *testing.T) {
	app := submitted(t)

	app = apply(t, app, Command{Action: ActionApprove})
	assert.Equal(t, models.StatusInProgress, app.Status)
	assert.Equal(t, 25, app.Progress)
	assert.Equal(t, models.StageProcessing, app.CurrentStage)
	require.NotNil(t, app.Approved)
	assert.True(t, *app.Approved)

	app = apply(t, app, Command{Action: ActionSetInProgress})
	assert.Equal(t, models.StatusInProgress, app.Status)
	assert.Equal(t, 50, app.Progress)

	app = apply(t, app, Command{Action: ActionComplete})
	assert.Equal(t, models.StatusCompleted, app.Status)
	assert.Equal(t, 100, app.Progress)
	require.NotNil(t, app.CompletedDate)
	assert.Equal(t, fixedNow, *app.CompletedDate)

	app = apply(t, app, Command{Action: ActionUndo})
	assert.Equal(t, models.StatusInProgress, app.Status)
	assert.Equal(t, 50, app.Progress)
	assert.Nil(t, app.CompletedDate)
	assert.Equal(t, models.StageProcessing, app.CurrentStage)
}

func TestApply_CompleteTwiceRefreshesDate(t *testing.T) {
	app := apply(t, submitted(t), Command{Action: ActionApprove})
	app = apply(t, app, Command{Action: ActionComplete})

	later := fixedNow.Add(48 * time.Hour)
	next, err := NewMachine().WithClock(func() time.Time { return later }).Apply(app, official, Command{Action: ActionComplete})
	require.NoError(t, err)
	assert.Equal(t, later, *next.CompletedDate)
}

func TestApply_Reject(t *testing.T) {
	app := apply(t, submitted(t), Command{Action: ActionReject, Reason: "  Missing hospital record "})

	assert.Equal(t, models.StatusRejected, app.Status)
	require.NotNil(t, app.Approved)
	assert.False(t, *app.Approved)
	assert.Equal(t, "Missing hospital record", app.RejectionMessage)
	assert.Equal(t, 0, app.Progress)
	assert.Equal(t, models.StageRejected, app.CurrentStage)
}

func TestApply_RejectWithoutReasonLeavesRecordUnchanged(t *testing.T) {
	app := submitted(t)
	before := app.Clone()

	for _, reason := range []string{"", "   "} {
		got, err := testMachine().Apply(app, official, Command{Action: ActionReject, Reason: reason})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
		assert.Equal(t, before, got)
		assert.Equal(t, before, app)
	}
}

func TestApply_InvalidTransitions(t *testing.T) {
	sub := submitted(t)
	inProgress := apply(t, sub, Command{Action: ActionApprove})
	completed := apply(t, inProgress, Command{Action: ActionComplete})
	rejected := apply(t, submitted(t), Command{Action: ActionReject, Reason: "duplicate"})

	tests := []struct {
		name string
		app  models.Application
		cmd  Command
	}{
		{"complete from submitted", sub, Command{Action: ActionComplete}},
		{"undo from submitted", sub, Command{Action: ActionUndo}},
		{"set in progress from submitted", sub, Command{Action: ActionSetInProgress}},
		{"approve twice", inProgress, Command{Action: ActionApprove}},
		{"reject after approval", inProgress, Command{Action: ActionReject, Reason: "late"}},
		{"undo from in progress", inProgress, Command{Action: ActionUndo}},
		{"set in progress from completed", completed, Command{Action: ActionSetInProgress}},
		{"re-approve rejected", rejected, Command{Action: ActionApprove}},
		{"undo rejected", rejected, Command{Action: ActionUndo}},
		{"complete rejected", rejected, Command{Action: ActionComplete}},
		{"reject rejected", rejected, Command{Action: ActionReject, Reason: "again"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := testMachine().Apply(tt.app, official, tt.cmd)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidTransition, errors.CodeOf(err))
			assert.Equal(t, tt.app, got)
		})
	}
}

func TestApply_Forbidden(t *testing.T) {
	app := submitted(t)

	actors := map[string]models.Role{
		"citizen":      models.Citizen{AccountID: "cit-1"},
		"monitor":      models.Monitor{AccountID: "mon-1", Office: models.Office{Level: models.LevelDistrict, Name: "Kaski DAO"}},
		"other ward":   models.Official{AccountID: "off-2", Office: models.Office{Level: models.LevelLocal, Name: "Ward 11 - Pokhara Ward Office"}},
		"other level":  models.Official{AccountID: "off-3", Office: models.Office{Level: models.LevelDistrict, Name: wardOffice.Name}},
		"nil identity": nil,
	}

	for name, actor := range actors {
		t.Run(name, func(t *testing.T) {
			got, err := testMachine().Apply(app, actor, Command{Action: ActionApprove})
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeForbidden, errors.CodeOf(err))
			assert.Equal(t, app, got)
		})
	}
}

func TestApply_UnknownAction(t *testing.T) {
	_, err := testMachine().Apply(submitted(t), official, Command{Action: "archive"})
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestApply_InvariantsHoldOnEveryReachableRecord(t *testing.T) {
	actions := []Command{
		{Action: ActionApprove},
		{Action: ActionReject, Reason: "incomplete"},
		{Action: ActionSetInProgress},
		{Action: ActionComplete},
		{Action: ActionUndo},
	}

	seen := map[string]bool{}
	frontier := []models.Application{submitted(t)}
	for depth := 0; depth < 6 && len(frontier) > 0; depth++ {
		var next []models.Application
		for _, app := range frontier {
			for _, cmd := range actions {
				out, err := testMachine().Apply(app, official, cmd)
				if err != nil {
					continue
				}
				require.NoError(t, out.CheckInvariants(), "after %s from %s", cmd.Action, app.Status)
				key := fmt.Sprintf("%s/%d", out.Status, out.Progress)
				if !seen[key] {
					seen[key] = true
					next = append(next, out)
				}
			}
		}
		frontier = next
	}
	assert.NotEmpty(t, seen)
}
