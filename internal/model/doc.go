// Package model defines domain entities and data structures for the Wellness API.
//
// The model package contains struct definitions for users, activities,
// plans, assessment results and the prediction service responses, plus the
// RFC 9457 error types shared by every layer.
//
// # Domain Entities
//
//   - User: respondent with XP, level, streak and stress counters
//   - Activity: something to do, tagged with the lifestyles it suits
//   - ActivityPlan: the activities a user picked, with success counts
//   - AssessmentResult: immutable outcome of one questionnaire submission
//
// # Progress Rules
//
// ProgressRules.ApplyCompletion holds the XP, level, streak and stress
// arithmetic so services and tests share one implementation:
//
//	rules := model.DefaultProgressRules()
//	outcome := rules.ApplyCompletion(user, activity.BaseXP, time.Now())
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go.
package model
