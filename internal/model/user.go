package model

import "time"

// MinStressLevel is the floor progress can lower a user's stress level to
const MinStressLevel = 1

// User is a questionnaire respondent and their progress counters
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	StressLevel  *int       `json:"stress_level,omitempty"` // nil until the first assessment
	XP           int        `json:"xp"`
	Level        int        `json:"level"`
	DayStreak    int        `json:"day_streak"`
	IsSuccess    bool       `json:"is_success"` // completed an activity today
	FirstSuccess *time.Time `json:"first_success,omitempty"`
	LifestyleIDs []int      `json:"lifestyle_ids,omitempty"`
	LoginOn      *time.Time `json:"login_on,omitempty"`
	CreatedOn    time.Time  `json:"created_on"`
	UpdatedOn    time.Time  `json:"updated_on"`
}

// CreateUserRequest registers a respondent
type CreateUserRequest struct {
	Username string `json:"username"`
}

// Username constraints
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)
