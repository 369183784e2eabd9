package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			username: $username,
			xp: 0,
			level: $level,
			day_streak: 0,
			is_success: false,
			lifestyle_ids: [],
			login_on: time::now(),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"username": user.Username,
		"level":    model.StartingLevel,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("%w: username already exists", database.ErrDuplicate)
		}
		return err
	}

	data, err := firstRecord(result)
	if err != nil {
		return err
	}
	*user = *parseUser(data)
	return nil
}

// GetByID retrieves a user by ID, or nil when absent
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	return r.getOne(ctx, query, map[string]interface{}{"id": id})
}

// GetByUsername retrieves a user by username, or nil when absent
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM user WHERE username = $username LIMIT 1`
	return r.getOne(ctx, query, map[string]interface{}{"username": username})
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
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
	return parseUser(data), nil
}

// SaveProgress writes the XP, level, streak and stress counters
func (r *UserRepository) SaveProgress(ctx context.Context, user *model.User) error {
	query, vars := progressUpdate(user)
	return r.db.Execute(ctx, query, vars)
}

// SetAssessmentOutcome stores the latest predicted stress level and lifestyles
func (r *UserRepository) SetAssessmentOutcome(ctx context.Context, userID string, stressLevel int, lifestyleIDs []int) error {
	query := `
		UPDATE type::record($id) SET
			stress_level = $stress_level,
			lifestyle_ids = $lifestyle_ids,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":            userID,
		"stress_level":  stressLevel,
		"lifestyle_ids": lifestyleIDs,
	}
	return r.db.Execute(ctx, query, vars)
}

// ResetMissedStreaks zeroes the streak of every user without a success
// today and returns how many were reset
func (r *UserRepository) ResetMissedStreaks(ctx context.Context) (int, error) {
	query := `
		UPDATE user SET day_streak = 0, updated_on = time::now()
		WHERE is_success = false AND day_streak > 0
		RETURN id
	`
	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	return len(statementRecords(result, 0)), nil
}

// ClearDailySuccess starts a new day for every user
func (r *UserRepository) ClearDailySuccess(ctx context.Context) error {
	query := `UPDATE user SET is_success = false, updated_on = time::now() WHERE is_success = true`
	return r.db.Execute(ctx, query, nil)
}

// progressUpdate is shared with ProgressRepository so completion writes stay
// identical inside a transaction
func progressUpdate(user *model.User) (string, map[string]interface{}) {
	query := `
		UPDATE type::record($id) SET
			xp = $xp,
			level = $level,
			day_streak = $day_streak,
			is_success = $is_success,
			first_success = $first_success,
			stress_level = $stress_level,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":            user.ID,
		"xp":            user.XP,
		"level":         user.Level,
		"day_streak":    user.DayStreak,
		"is_success":    user.IsSuccess,
		"first_success": optionalTime(user.FirstSuccess),
		"stress_level":  optionalInt(user.StressLevel),
	}
	return query, vars
}

func parseUser(data map[string]interface{}) *model.User {
	return &model.User{
		ID:           getID(data, "id"),
		Username:     getString(data, "username"),
		StressLevel:  getIntPtr(data, "stress_level"),
		XP:           getInt(data, "xp"),
		Level:        getInt(data, "level"),
		DayStreak:    getInt(data, "day_streak"),
		IsSuccess:    getBool(data, "is_success"),
		FirstSuccess: getTime(data, "first_success"),
		LifestyleIDs: getIntSlice(data, "lifestyle_ids"),
		LoginOn:      getTime(data, "login_on"),
		CreatedOn:    getTimeValue(data, "created_on"),
		UpdatedOn:    getTimeValue(data, "updated_on"),
	}
}
