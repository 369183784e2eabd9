package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/testing/testdb"
)

// These tests run against a live SurrealDB and are skipped without one.

func TestIntegration_UserLifecycle(t *testing.T) {
	tdb := testdb.New(t)
	users := NewUserRepository(tdb.DB)

	u := &model.User{Username: "alice"}
	require.NoError(t, users.Create(tdb.Ctx(), u))
	require.NotEmpty(t, u.ID)
	assert.Equal(t, model.StartingLevel, u.Level)

	dup := &model.User{Username: "alice"}
	assert.Error(t, users.Create(tdb.Ctx(), dup))

	got, err := users.GetByUsername(tdb.Ctx(), "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	missing, err := users.GetByID(tdb.Ctx(), "user:nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, users.SetAssessmentOutcome(tdb.Ctx(), u.ID, 3, []int{model.LifestyleHealth}))
	got, err = users.GetByID(tdb.Ctx(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StressLevel)
	assert.Equal(t, 3, *got.StressLevel)
	assert.Equal(t, []int{model.LifestyleHealth}, got.LifestyleIDs)
}

func TestIntegration_DailyReset(t *testing.T) {
	tdb := testdb.New(t)
	users := NewUserRepository(tdb.DB)

	active := &model.User{Username: "active"}
	idle := &model.User{Username: "idle"}
	require.NoError(t, users.Create(tdb.Ctx(), active))
	require.NoError(t, users.Create(tdb.Ctx(), idle))

	active.DayStreak, active.IsSuccess = 4, true
	idle.DayStreak = 2
	require.NoError(t, users.SaveProgress(tdb.Ctx(), active))
	require.NoError(t, users.SaveProgress(tdb.Ctx(), idle))

	n, err := users.ResetMissedStreaks(tdb.Ctx())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, users.ClearDailySuccess(tdb.Ctx()))

	got, err := users.GetByID(tdb.Ctx(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.DayStreak)
	assert.False(t, got.IsSuccess)

	got, err = users.GetByID(tdb.Ctx(), idle.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.DayStreak)
}

func TestIntegration_PlanChanges(t *testing.T) {
	tdb := testdb.New(t)
	users := NewUserRepository(tdb.DB)
	activities := NewActivityRepository(tdb.DB)
	plans := NewPlanRepository(tdb.DB)
	progress := NewProgressRepository(tdb.DB)

	u := &model.User{Username: "planner"}
	require.NoError(t, users.Create(tdb.Ctx(), u))

	run := &model.Activity{Name: "Run", BaseTime: 30, BaseXP: 20, ActivityType: model.ActivityTypeOutdoor, LifestyleIDs: []int{model.LifestyleHealth}}
	read := &model.Activity{Name: "Read", BaseTime: 20, BaseXP: 10, ActivityType: model.ActivityTypeIndoor, LifestyleIDs: []int{model.LifestyleFinance}}
	require.NoError(t, activities.Upsert(tdb.Ctx(), "run", run))
	require.NoError(t, activities.Upsert(tdb.Ctx(), "read", read))

	listed, err := activities.ListByLifestyles(tdb.Ctx(), []int{model.LifestyleHealth})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, run.ID, listed[0].ID)

	plan, err := plans.Create(tdb.Ctx(), u.ID)
	require.NoError(t, err)
	require.NoError(t, plans.ApplyChanges(tdb.Ctx(), plan.ID, nil, []string{run.ID, read.ID}))

	plan, err = plans.GetByUser(tdb.Ctx(), u.ID)
	require.NoError(t, err)
	require.Len(t, plan.Activities, 2)

	var runEntry model.PlannedActivity
	for _, e := range plan.Activities {
		if e.ActivityID == run.ID {
			runEntry = e
		}
	}
	require.NotEmpty(t, runEntry.ID)

	before := *u
	u.XP, u.IsSuccess = 20, true
	require.NoError(t, progress.RecordCompletion(tdb.Ctx(), &before, u, runEntry.ID))

	// same starting point again: the stored counters have moved on
	err = progress.RecordCompletion(tdb.Ctx(), &before, u, runEntry.ID)
	require.ErrorIs(t, err, database.ErrConflict)

	require.NoError(t, plans.SetChoice(tdb.Ctx(), plan.ID, read.ID, false))

	plan, err = plans.GetByUser(tdb.Ctx(), u.ID)
	require.NoError(t, err)
	for _, e := range plan.Activities {
		switch e.ActivityID {
		case run.ID:
			assert.Equal(t, 1, e.SuccessCount)
			assert.True(t, e.Chosen)
		case read.ID:
			assert.False(t, e.Chosen)
		}
	}
}
