package repository

import (
	"context"
	"errors"

	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/model"
)

// PlanRepository handles activity plans and their entries
type PlanRepository struct {
	db database.Database
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db database.Database) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create creates an empty plan for a user
func (r *PlanRepository) Create(ctx context.Context, userID string) (*model.ActivityPlan, error) {
	query := `
		CREATE activity_plan CONTENT {
			user: type::record($user),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"user": userID})
	if err != nil {
		return nil, err
	}

	data, err := firstRecord(result)
	if err != nil {
		return nil, err
	}
	plan := parsePlan(data)
	plan.Activities = []model.PlannedActivity{}
	return plan, nil
}

// GetByUser returns a user's plan with its entries and their activities, or
// nil when the user has no plan
func (r *PlanRepository) GetByUser(ctx context.Context, userID string) (*model.ActivityPlan, error) {
	query := `
		SELECT * FROM activity_plan WHERE user = type::record($user) LIMIT 1;
		SELECT *, activity.* AS activity_data FROM planned_activity
			WHERE plan.user = type::record($user)
			ORDER BY created_on;
	`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"user": userID})
	if err != nil {
		return nil, err
	}

	plans := statementRecords(result, 0)
	if len(plans) == 0 {
		return nil, nil
	}
	plan := parsePlan(plans[0])

	entries := statementRecords(result, 1)
	plan.Activities = make([]model.PlannedActivity, 0, len(entries))
	for _, rec := range entries {
		plan.Activities = append(plan.Activities, parsePlannedActivity(rec))
	}
	return plan, nil
}

// ApplyChanges removes and adds plan entries in one transaction. Entries that
// stay keep their success counts.
func (r *PlanRepository) ApplyChanges(ctx context.Context, planID string, removeEntryIDs, addActivityIDs []string) error {
	tx := database.NewTxBuilder()
	for _, id := range removeEntryIDs {
		tx.Add(`DELETE type::record($id)`, map[string]interface{}{"id": id})
	}
	for _, activityID := range addActivityIDs {
		tx.Add(`
			CREATE planned_activity CONTENT {
				plan: type::record($plan),
				activity: type::record($activity),
				is_chose: true,
				success_count: 0,
				created_on: time::now()
			}
		`, map[string]interface{}{"plan": planID, "activity": activityID})
	}
	tx.Add(`UPDATE type::record($plan) SET updated_on = time::now()`, map[string]interface{}{"plan": planID})

	_, err := tx.Execute(ctx, r.db)
	return err
}

// SetChoice toggles an entry's chosen flag. It returns database.ErrNotFound
// when the activity is not in the plan.
func (r *PlanRepository) SetChoice(ctx context.Context, planID, activityID string, chosen bool) error {
	query := `
		UPDATE planned_activity SET is_chose = $chosen
		WHERE plan = type::record($plan) AND activity = type::record($activity)
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"plan":     planID,
		"activity": activityID,
		"chosen":   chosen,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	if len(statementRecords(result, 0)) == 0 {
		return database.ErrNotFound
	}
	return nil
}

func parsePlan(data map[string]interface{}) *model.ActivityPlan {
	return &model.ActivityPlan{
		ID:        getID(data, "id"),
		UserID:    getID(data, "user"),
		CreatedOn: getTimeValue(data, "created_on"),
		UpdatedOn: getTimeValue(data, "updated_on"),
	}
}

func parsePlannedActivity(data map[string]interface{}) model.PlannedActivity {
	entry := model.PlannedActivity{
		ID:           getID(data, "id"),
		ActivityID:   getID(data, "activity"),
		Chosen:       getBool(data, "is_chose"),
		SuccessCount: getInt(data, "success_count"),
	}
	if linked, ok := data["activity_data"].(map[string]interface{}); ok {
		entry.Activity = parseActivity(linked)
	}
	return entry
}

// isNotFound reports whether err is database.ErrNotFound
func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
