package service

import (
	"errors"
	"fmt"

	"github.com/forgo/wellness/api/internal/assessment"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== User Errors =====
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidUsername  = errors.New("username must be between 3 and 50 characters")
	ErrProgressConflict = errors.New("progress changed concurrently, try again")
)

// ===== Assessment Errors =====
var (
	ErrInvalidStep          = errors.New("unknown questionnaire step")
	ErrAssessmentIncomplete = errors.New("assessment is incomplete")
	ErrPredictionFailed     = errors.New("prediction service failed")
	ErrAssessmentNotFound   = errors.New("assessment result not found")
)

// ===== Activity Errors =====
var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrPlanNotFound       = errors.New("activity plan not found")
	ErrActivityNotInPlan  = errors.New("activity is not part of the plan")
	ErrInvalidLifestyle   = errors.New("unknown lifestyle category")
	ErrTooManyActivities  = errors.New("too many activities chosen")
	ErrNoActivitiesChosen = errors.New("at least one activity must be chosen")
)

// IncompleteError carries the failing fields of a rejected submission. It
// matches ErrAssessmentIncomplete with errors.Is.
type IncompleteError struct {
	Issues []assessment.Issue
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %d field(s) need attention", ErrAssessmentIncomplete, len(e.Issues))
}

func (e *IncompleteError) Unwrap() error {
	return ErrAssessmentIncomplete
}
