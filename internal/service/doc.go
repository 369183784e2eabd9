// Package service implements the business logic layer for the wellness API.
//
// Services sit between HTTP handlers and repositories. Each one is built
// from a config struct and declares the repository interfaces it needs, so
// tests can swap in hand-written mocks.
//
//   - AssessmentService validates questionnaire steps and scores completed
//     submissions against the lifestyle and stress models
//   - ActivityService serves the lifestyle/activity catalog and users' plans
//   - ProgressService owns users, XP, levels and day streaks
//   - SeederService loads a YAML catalog into storage
//   - EventHub streams progress events to each user's SSE subscribers
//
// # Error Handling
//
// Services return the sentinel errors in errors.go, wrapped where extra
// context helps. Handlers map them to problem details with errors.Is:
//
//	result, err := assessments.Submit(ctx, userID, answers)
//	if errors.Is(err, service.ErrAssessmentIncomplete) {
//	    // 422 with the failing fields
//	}
//
// # Example Usage
//
//	svc := NewProgressService(ProgressServiceConfig{
//	    Users:       userRepo,
//	    Completions: progressRepo,
//	    Plans:       planRepo,
//	    Activities:  activityRepo,
//	    Rules:       model.DefaultProgressRules(),
//	})
//	res, err := svc.CompleteActivity(ctx, userID, &model.CompleteActivityRequest{
//	    ActivityID: "activity:morning_run",
//	})
package service
