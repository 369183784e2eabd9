package model

import "time"

// Default progress tuning
const (
	DefaultXPPerLevel      = 100
	DefaultStressMilestone = 100
	StartingLevel          = 1
)

// ProgressRules controls how completed activities turn into levels and
// stress relief
type ProgressRules struct {
	XPPerLevel      int // XP needed for one level
	StressMilestone int // every multiple of this many levels lowers stress by one
}

// DefaultProgressRules returns the standard tuning
func DefaultProgressRules() ProgressRules {
	return ProgressRules{
		XPPerLevel:      DefaultXPPerLevel,
		StressMilestone: DefaultStressMilestone,
	}
}

// CompletionOutcome summarizes what one completed activity changed
type CompletionOutcome struct {
	FirstSuccessToday bool `json:"first_success_today"`
	XPGained          int  `json:"xp_gained"`
	LevelsGained      int  `json:"levels_gained"`
	StressReduced     int  `json:"stress_reduced"`
}

// ApplyCompletion credits u with xp earned at now and updates the streak,
// level and stress counters in place
func (r ProgressRules) ApplyCompletion(u *User, xp int, now time.Time) CompletionOutcome {
	out := CompletionOutcome{XPGained: xp}

	if !u.IsSuccess {
		u.IsSuccess = true
		u.FirstSuccess = &now
		u.DayStreak++
		out.FirstSuccessToday = true
	}

	u.XP += xp
	if u.XP < r.XPPerLevel {
		return out
	}

	originalLevel := u.Level
	out.LevelsGained = u.XP / r.XPPerLevel
	u.Level += out.LevelsGained
	u.XP %= r.XPPerLevel

	crossings := u.Level/r.StressMilestone - originalLevel/r.StressMilestone
	for i := 0; i < crossings; i++ {
		if u.StressLevel == nil || *u.StressLevel <= MinStressLevel {
			break
		}
		lowered := *u.StressLevel - 1
		u.StressLevel = &lowered
		out.StressReduced++
	}
	return out
}

// UserProgress is the progress view of a user
type UserProgress struct {
	UserID         string     `json:"user_id"`
	Level          int        `json:"level"`
	CurrentXP      int        `json:"current_xp"`
	XPForNextLevel int        `json:"xp_for_next_level"`
	DayStreak      int        `json:"day_streak"`
	IsSuccess      bool       `json:"is_success"`
	FirstSuccess   *time.Time `json:"first_success,omitempty"`
	StressLevel    *int       `json:"stress_level,omitempty"`
}

// ProgressOf builds the progress view of u
func (r ProgressRules) ProgressOf(u *User) UserProgress {
	return UserProgress{
		UserID:         u.ID,
		Level:          u.Level,
		CurrentXP:      u.XP,
		XPForNextLevel: r.XPPerLevel,
		DayStreak:      u.DayStreak,
		IsSuccess:      u.IsSuccess,
		FirstSuccess:   u.FirstSuccess,
		StressLevel:    u.StressLevel,
	}
}

// CompleteActivityRequest records a finished activity
type CompleteActivityRequest struct {
	ActivityID string `json:"activity_id"`
}

// CompleteActivityResponse is returned after an activity is completed
type CompleteActivityResponse struct {
	Progress UserProgress      `json:"progress"`
	Outcome  CompletionOutcome `json:"outcome"`
}

// Dashboard is the overview of a user and their chosen activities
type Dashboard struct {
	User          *User             `json:"user"`
	Progress      UserProgress      `json:"progress"`
	Activities    []PlannedActivity `json:"activities"`
	ActivityCount int               `json:"activity_count"`
}
