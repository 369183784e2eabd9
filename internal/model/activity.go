package model

import "time"

// ActivityType says where an activity happens
type ActivityType string

const (
	ActivityTypeIndoor  ActivityType = "INDOOR"
	ActivityTypeOutdoor ActivityType = "OUTDOOR"
)

// IsValid reports whether t is a known activity type
func (t ActivityType) IsValid() bool {
	return t == ActivityTypeIndoor || t == ActivityTypeOutdoor
}

// Lifestyle category ids as produced by the lifestyle model
const (
	LifestyleFinance        = 0
	LifestyleHealth         = 1
	LifestyleSustainability = 2
	LifestyleTech           = 3
	LifestyleTravel         = 4
)

// Lifestyle is a category the lifestyle model can predict
type Lifestyle struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DefaultLifestyles returns the model's class mapping
func DefaultLifestyles() []Lifestyle {
	return []Lifestyle{
		{ID: LifestyleFinance, Name: "Finance/Professional"},
		{ID: LifestyleHealth, Name: "Health & Fitness"},
		{ID: LifestyleSustainability, Name: "Sustainability"},
		{ID: LifestyleTech, Name: "Tech/Digital"},
		{ID: LifestyleTravel, Name: "Travel & Adventure"},
	}
}

// IsKnownLifestyle reports whether id is one of the model's classes
func IsKnownLifestyle(id int) bool {
	return id >= LifestyleFinance && id <= LifestyleTravel
}

// Activity is something a user can do to earn XP
type Activity struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BaseTime     int          `json:"base_time"` // minutes
	BaseXP       int          `json:"base_xp"`
	ActivityType ActivityType `json:"activity_type"`
	Description  string       `json:"description,omitempty"`
	LifestyleIDs []int        `json:"lifestyle_ids"`
	CreatedOn    time.Time    `json:"created_on"`
}

// ActivityPlan is a user's set of picked activities
type ActivityPlan struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Activities []PlannedActivity `json:"activities"`
	CreatedOn  time.Time         `json:"created_on"`
	UpdatedOn  time.Time         `json:"updated_on"`
}

// PlannedActivity is one activity inside a plan
type PlannedActivity struct {
	ID           string    `json:"id"`
	ActivityID   string    `json:"activity_id"`
	Chosen       bool      `json:"is_chose"`
	SuccessCount int       `json:"success_count"`
	Activity     *Activity `json:"activity,omitempty"`
}

// ChooseActivitiesRequest replaces the entries of a user's plan
type ChooseActivitiesRequest struct {
	ActivityIDs []string `json:"activity_ids"`
}

// MaxPlanActivities caps how many activities a plan may hold
const MaxPlanActivities = 20

// SetActivityChoiceRequest toggles whether a planned activity is active
type SetActivityChoiceRequest struct {
	Chosen *bool `json:"is_chose"`
}
