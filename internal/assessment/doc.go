// Package assessment holds the wellness questionnaire: its field schema,
// per-step validation, the rescale rules and the feature vectors sent to the
// prediction service.
//
// Everything here is pure and safe to call from any goroutine except
// Navigator, which tracks a single respondent's position and is not
// synchronized.
//
//	nav := assessment.NewNavigator(answers)
//	if err := nav.Advance(); err != nil {
//	    // show nav.Issues()
//	}
//	payload, err := nav.Submit(ctx, dispatch)
package assessment
