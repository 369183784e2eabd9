package repository

import (
	"context"
	"strings"

	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/model"
)

// AssessmentRepository stores submitted assessment results
type AssessmentRepository struct {
	db database.Database
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db database.Database) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create stores a result under its pre-assigned ID
func (r *AssessmentRepository) Create(ctx context.Context, res *model.AssessmentResult) error {
	query := `
		CREATE type::thing("assessment_result", $key) CONTENT {
			user: type::record($user),
			lifestyle: $lifestyle,
			stress_level: $stress_level,
			wellness_score: $wellness_score,
			lifestyle_ids: $lifestyle_ids,
			submitted_on: $submitted_on
		}
	`
	vars := map[string]interface{}{
		"key":            strings.TrimPrefix(res.ID, "assessment_result:"),
		"user":           res.UserID,
		"lifestyle":      res.Lifestyle,
		"stress_level":   res.StressLevel,
		"wellness_score": res.WellnessScore,
		"lifestyle_ids":  res.LifestyleIDs,
		"submitted_on":   res.SubmittedOn.UTC(),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	data, err := firstRecord(result)
	if err != nil {
		return err
	}
	res.ID = getID(data, "id")
	return nil
}

// GetByID retrieves a result, or nil when absent
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*model.AssessmentResult, error) {
	if !strings.HasPrefix(id, "assessment_result:") {
		id = "assessment_result:" + id
	}
	query := `SELECT * FROM type::record($id)`
	return r.getOne(ctx, query, map[string]interface{}{"id": id})
}

// LatestByUser retrieves the most recent result for a user, or nil
func (r *AssessmentRepository) LatestByUser(ctx context.Context, userID string) (*model.AssessmentResult, error) {
	query := `
		SELECT * FROM assessment_result
		WHERE user = type::record($user)
		ORDER BY submitted_on DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, map[string]interface{}{"user": userID})
}

func (r *AssessmentRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.AssessmentResult, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	data, err := asRecord(result)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return parseAssessmentResult(data)
}

func parseAssessmentResult(data map[string]interface{}) (*model.AssessmentResult, error) {
	res := &model.AssessmentResult{
		ID:            getID(data, "id"),
		UserID:        getID(data, "user"),
		StressLevel:   getInt(data, "stress_level"),
		WellnessScore: getFloat(data, "wellness_score"),
		LifestyleIDs:  getIntSlice(data, "lifestyle_ids"),
		SubmittedOn:   getTimeValue(data, "submitted_on"),
	}
	if err := decodeInto(data["lifestyle"], &res.Lifestyle); err != nil {
		return nil, err
	}
	return res, nil
}
