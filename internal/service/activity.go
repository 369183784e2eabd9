package service

import (
	"context"
	"errors"
	"strings"

	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/model"
)

// ActivityRepository defines the interface for catalog storage
type ActivityRepository interface {
	ListLifestyles(ctx context.Context) ([]model.Lifestyle, error)
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	ListByLifestyles(ctx context.Context, lifestyleIDs []int) ([]*model.Activity, error)
}

// PlanRepository defines the interface for activity plan storage
type PlanRepository interface {
	Create(ctx context.Context, userID string) (*model.ActivityPlan, error)
	GetByUser(ctx context.Context, userID string) (*model.ActivityPlan, error)
	ApplyChanges(ctx context.Context, planID string, removeEntryIDs, addActivityIDs []string) error
	SetChoice(ctx context.Context, planID, activityID string, chosen bool) error
}

// UserLookup finds users by ID
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ActivityService handles the activity catalog and users' plans
type ActivityService struct {
	activities ActivityRepository
	plans      PlanRepository
	users      UserLookup
}

// ActivityServiceConfig holds configuration for the activity service
type ActivityServiceConfig struct {
	Activities ActivityRepository
	Plans      PlanRepository
	Users      UserLookup
}

// NewActivityService creates a new activity service
func NewActivityService(cfg ActivityServiceConfig) *ActivityService {
	return &ActivityService{
		activities: cfg.Activities,
		plans:      cfg.Plans,
		users:      cfg.Users,
	}
}

// ListLifestyles returns the lifestyle categories. An unseeded catalog falls
// back to the model's built-in class names.
func (s *ActivityService) ListLifestyles(ctx context.Context) ([]model.Lifestyle, error) {
	lifestyles, err := s.activities.ListLifestyles(ctx)
	if err != nil {
		return nil, err
	}
	if len(lifestyles) == 0 {
		return model.DefaultLifestyles(), nil
	}
	return lifestyles, nil
}

// RecommendActivities lists activities tagged with any of the lifestyles.
// No lifestyles means every category.
func (s *ActivityService) RecommendActivities(ctx context.Context, lifestyleIDs []int) ([]*model.Activity, error) {
	if len(lifestyleIDs) == 0 {
		for _, l := range model.DefaultLifestyles() {
			lifestyleIDs = append(lifestyleIDs, l.ID)
		}
	}

	seen := make(map[int]bool, len(lifestyleIDs))
	ids := make([]int, 0, len(lifestyleIDs))
	for _, id := range lifestyleIDs {
		if !model.IsKnownLifestyle(id) {
			return nil, ErrInvalidLifestyle
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	activities, err := s.activities.ListByLifestyles(ctx, ids)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []*model.Activity{}
	}
	return activities, nil
}

// GetActivity retrieves one activity
func (s *ActivityService) GetActivity(ctx context.Context, id string) (*model.Activity, error) {
	activity, err := s.activities.GetByID(ctx, recordID("activity", id))
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// ChooseActivities replaces the user's plan with the given activities,
// creating the plan on first use. Activities already in the plan keep their
// success counts.
func (s *ActivityService) ChooseActivities(ctx context.Context, userID string, req *model.ChooseActivitiesRequest) (*model.ActivityPlan, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	chosen := make([]string, 0, len(req.ActivityIDs))
	seen := make(map[string]bool, len(req.ActivityIDs))
	for _, raw := range req.ActivityIDs {
		id := recordID("activity", strings.TrimSpace(raw))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		chosen = append(chosen, id)
	}
	if len(chosen) == 0 {
		return nil, ErrNoActivitiesChosen
	}
	if len(chosen) > model.MaxPlanActivities {
		return nil, ErrTooManyActivities
	}

	for _, id := range chosen {
		activity, err := s.activities.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if activity == nil {
			return nil, ErrActivityNotFound
		}
	}

	plan, err := s.plans.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		plan, err = s.plans.Create(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	}

	existing := make(map[string]model.PlannedActivity, len(plan.Activities))
	var remove []string
	for _, entry := range plan.Activities {
		if !seen[entry.ActivityID] {
			remove = append(remove, entry.ID)
			continue
		}
		existing[entry.ActivityID] = entry
	}

	var add []string
	for _, id := range chosen {
		entry, ok := existing[id]
		if !ok {
			add = append(add, id)
			continue
		}
		if !entry.Chosen {
			if err := s.plans.SetChoice(ctx, plan.ID, id, true); err != nil {
				return nil, err
			}
		}
	}

	if err := s.plans.ApplyChanges(ctx, plan.ID, remove, add); err != nil {
		return nil, err
	}
	return s.loadPlan(ctx, user.ID)
}

// SetActivityChoice toggles whether a planned activity is active
func (s *ActivityService) SetActivityChoice(ctx context.Context, userID, activityID string, chosen bool) (*model.ActivityPlan, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.loadPlan(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	err = s.plans.SetChoice(ctx, plan.ID, recordID("activity", activityID), chosen)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrActivityNotInPlan
		}
		return nil, err
	}
	return s.loadPlan(ctx, user.ID)
}

// GetPlan retrieves the user's plan
func (s *ActivityService) GetPlan(ctx context.Context, userID string) (*model.ActivityPlan, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.loadPlan(ctx, user.ID)
}

func (s *ActivityService) loadPlan(ctx context.Context, userID string) (*model.ActivityPlan, error) {
	plan, err := s.plans.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (s *ActivityService) requireUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, recordID("user", userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// recordID qualifies a bare key with its table
func recordID(table, id string) string {
	if id == "" || strings.HasPrefix(id, table+":") {
		return id
	}
	return table + ":" + id
}
