package repository

import (
	"context"
	"errors"

	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/model"
)

// ActivityRepository handles lifestyle and activity catalog access
type ActivityRepository struct {
	db database.Database
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db database.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// UpsertLifestyle writes a lifestyle category keyed by its model code
func (r *ActivityRepository) UpsertLifestyle(ctx context.Context, l model.Lifestyle) error {
	query := `UPSERT type::thing("lifestyle", $code) SET code = $code, name = $name`
	vars := map[string]interface{}{
		"code": l.ID,
		"name": l.Name,
	}
	return r.db.Execute(ctx, query, vars)
}

// ListLifestyles returns every lifestyle category ordered by code
func (r *ActivityRepository) ListLifestyles(ctx context.Context) ([]model.Lifestyle, error) {
	result, err := r.db.Query(ctx, `SELECT code, name FROM lifestyle ORDER BY code`, nil)
	if err != nil {
		return nil, err
	}

	records := statementRecords(result, 0)
	lifestyles := make([]model.Lifestyle, 0, len(records))
	for _, rec := range records {
		lifestyles = append(lifestyles, model.Lifestyle{
			ID:   getInt(rec, "code"),
			Name: getString(rec, "name"),
		})
	}
	return lifestyles, nil
}

// Upsert writes an activity under a stable key so reseeding is idempotent
func (r *ActivityRepository) Upsert(ctx context.Context, key string, a *model.Activity) error {
	query := `
		UPSERT type::thing("activity", $key) SET
			name = $name,
			base_time = $base_time,
			base_xp = $base_xp,
			activity_type = $activity_type,
			description = $description,
			lifestyle_ids = $lifestyle_ids,
			created_on = created_on OR time::now()
	`
	vars := map[string]interface{}{
		"key":           key,
		"name":          a.Name,
		"base_time":     a.BaseTime,
		"base_xp":       a.BaseXP,
		"activity_type": string(a.ActivityType),
		"description":   a.Description,
		"lifestyle_ids": a.LifestyleIDs,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	data, err := firstRecord(result)
	if err != nil {
		return err
	}
	*a = *parseActivity(data)
	return nil
}

// GetByID retrieves an activity by ID, or nil when absent
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseActivity(data), nil
}

// ListByLifestyles returns activities tagged with any of the lifestyle codes
func (r *ActivityRepository) ListByLifestyles(ctx context.Context, lifestyleIDs []int) ([]*model.Activity, error) {
	query := `SELECT * FROM activity WHERE lifestyle_ids CONTAINSANY $lifestyle_ids ORDER BY name`
	vars := map[string]interface{}{"lifestyle_ids": lifestyleIDs}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := statementRecords(result, 0)
	activities := make([]*model.Activity, 0, len(records))
	for _, rec := range records {
		activities = append(activities, parseActivity(rec))
	}
	return activities, nil
}

func parseActivity(data map[string]interface{}) *model.Activity {
	return &model.Activity{
		ID:           getID(data, "id"),
		Name:         getString(data, "name"),
		BaseTime:     getInt(data, "base_time"),
		BaseXP:       getInt(data, "base_xp"),
		ActivityType: model.ActivityType(getString(data, "activity_type")),
		Description:  getString(data, "description"),
		LifestyleIDs: getIntSlice(data, "lifestyle_ids"),
		CreatedOn:    getTimeValue(data, "created_on"),
	}
}
