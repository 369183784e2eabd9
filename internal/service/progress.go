package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/model"
)

// ProgressUserRepository defines the user storage progress tracking needs
type ProgressUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	SaveProgress(ctx context.Context, user *model.User) error
	ResetMissedStreaks(ctx context.Context) (int, error)
	ClearDailySuccess(ctx context.Context) error
}

// CompletionRepository persists a completed activity atomically. The write
// fails with database.ErrConflict when the stored counters differ from before.
type CompletionRepository interface {
	RecordCompletion(ctx context.Context, before, user *model.User, entryID string) error
}

// completionAttempts bounds how often a completion is recomputed after a
// conflicting concurrent write
const completionAttempts = 3

// PlanReader reads a user's plan
type PlanReader interface {
	GetByUser(ctx context.Context, userID string) (*model.ActivityPlan, error)
}

// ActivityReader reads catalog activities
type ActivityReader interface {
	GetByID(ctx context.Context, id string) (*model.Activity, error)
}

// ProgressObserver records completions and streak resets
type ProgressObserver interface {
	ActivityCompleted(levels int)
	StreaksReset(n int)
}

type noopProgressObserver struct{}

func (noopProgressObserver) ActivityCompleted(int) {}
func (noopProgressObserver) StreaksReset(int)      {}

// ProgressService handles users, XP, levels and day streaks
type ProgressService struct {
	users       ProgressUserRepository
	completions CompletionRepository
	plans       PlanReader
	activities  ActivityReader
	rules       model.ProgressRules
	observer    ProgressObserver
	events      EventPublisher
	now         func() time.Time
}

// ProgressServiceConfig holds configuration for the progress service
type ProgressServiceConfig struct {
	Users       ProgressUserRepository
	Completions CompletionRepository
	Plans       PlanReader
	Activities  ActivityReader
	Rules       model.ProgressRules
	Observer    ProgressObserver
	Events      EventPublisher
	Now         func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(cfg ProgressServiceConfig) *ProgressService {
	s := &ProgressService{
		users:       cfg.Users,
		completions: cfg.Completions,
		plans:       cfg.Plans,
		activities:  cfg.Activities,
		rules:       cfg.Rules,
		observer:    cfg.Observer,
		events:      cfg.Events,
		now:         cfg.Now,
	}
	defaults := model.DefaultProgressRules()
	if s.rules.XPPerLevel <= 0 {
		s.rules.XPPerLevel = defaults.XPPerLevel
	}
	if s.rules.StressMilestone <= 0 {
		s.rules.StressMilestone = defaults.StressMilestone
	}
	if s.observer == nil {
		s.observer = noopProgressObserver{}
	}
	if s.events == nil {
		s.events = noopPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateUser registers a new respondent
func (s *ProgressService) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	n := utf8.RuneCountInString(username)
	if n < model.MinUsernameLength || n > model.MaxUsernameLength {
		return nil, ErrInvalidUsername
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user := &model.User{Username: username}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user
func (s *ProgressService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, recordID("user", userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CompleteActivity credits the user with the activity's XP. The first
// completion of the day extends the streak, every XPPerLevel XP is a level,
// and each crossed StressMilestone lowers the stress level by one.
func (s *ProgressService) CompleteActivity(ctx context.Context, userID string, req *model.CompleteActivityRequest) (*model.CompleteActivityResponse, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	activity, err := s.activities.GetByID(ctx, recordID("activity", strings.TrimSpace(req.ActivityID)))
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	plan, err := s.plans.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	entryID := ""
	if plan != nil {
		for _, entry := range plan.Activities {
			if entry.ActivityID == activity.ID {
				entryID = entry.ID
				break
			}
		}
	}

	var outcome model.CompletionOutcome
	for attempt := 1; ; attempt++ {
		before := *user
		outcome = s.rules.ApplyCompletion(user, activity.BaseXP, s.now().UTC())
		err = s.completions.RecordCompletion(ctx, &before, user, entryID)
		if err == nil {
			break
		}
		if !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
		if attempt == completionAttempts {
			return nil, ErrProgressConflict
		}
		// another completion landed first; start again from the stored counters
		if user, err = s.GetUser(ctx, userID); err != nil {
			return nil, err
		}
	}
	s.observer.ActivityCompleted(outcome.LevelsGained)

	resp := &model.CompleteActivityResponse{
		Progress: s.rules.ProgressOf(user),
		Outcome:  outcome,
	}
	s.events.Publish(&Event{Type: EventActivityCompleted, UserID: user.ID, Data: resp})
	if outcome.LevelsGained > 0 {
		s.events.Publish(&Event{Type: EventLevelUp, UserID: user.ID, Data: resp.Progress})
	}
	return resp, nil
}

// Dashboard returns the user's progress and chosen activities
func (s *ProgressService) Dashboard(ctx context.Context, userID string) (*model.Dashboard, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	chosen := []model.PlannedActivity{}
	if plan != nil {
		for _, entry := range plan.Activities {
			if entry.Chosen && entry.Activity != nil {
				chosen = append(chosen, entry)
			}
		}
	}

	return &model.Dashboard{
		User:          user,
		Progress:      s.rules.ProgressOf(user),
		Activities:    chosen,
		ActivityCount: len(chosen),
	}, nil
}

// IncrementStreak adds one day to the user's streak
func (s *ProgressService) IncrementStreak(ctx context.Context, userID string) (*model.UserProgress, error) {
	return s.updateStreak(ctx, userID, func(u *model.User) { u.DayStreak++ })
}

// ResetStreak sets the user's streak back to zero
func (s *ProgressService) ResetStreak(ctx context.Context, userID string) (*model.UserProgress, error) {
	return s.updateStreak(ctx, userID, func(u *model.User) { u.DayStreak = 0 })
}

func (s *ProgressService) updateStreak(ctx context.Context, userID string, apply func(*model.User)) (*model.UserProgress, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply(user)
	if err := s.users.SaveProgress(ctx, user); err != nil {
		return nil, err
	}
	progress := s.rules.ProgressOf(user)
	s.events.Publish(&Event{Type: EventStreakChanged, UserID: user.ID, Data: progress})
	return &progress, nil
}

// DailyReset ends the day: streaks of users without a success are zeroed,
// then everyone's daily success flag is cleared. It returns how many streaks
// were reset.
func (s *ProgressService) DailyReset(ctx context.Context) (int, error) {
	reset, err := s.users.ResetMissedStreaks(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.users.ClearDailySuccess(ctx); err != nil {
		return reset, err
	}
	s.observer.StreaksReset(reset)
	s.events.Publish(&Event{Type: EventDailyReset, Data: map[string]int{"streaks_reset": reset}})
	return reset, nil
}
