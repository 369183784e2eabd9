package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/wellness/api/internal/assessment"
	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// Incomplete submissions carry their failing fields
	var incomplete *service.IncompleteError
	if errors.As(err, &incomplete) {
		return model.NewIncompleteAssessmentError(issuesToFieldErrors(incomplete.Issues))
	}

	switch {
	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrAssessmentNotFound):
		return model.NewNotFoundError("assessment result")
	case errors.Is(err, service.ErrActivityNotFound):
		return model.NewNotFoundError("activity")
	case errors.Is(err, service.ErrPlanNotFound):
		return model.NewNotFoundError("activity plan")
	case errors.Is(err, service.ErrActivityNotInPlan):
		return model.NewNotFoundError("planned activity")
	case errors.Is(err, service.ErrInvalidStep):
		return model.NewNotFoundError("questionnaire step")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrProgressConflict):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrAssessmentIncomplete):
		return model.NewIncompleteAssessmentError(nil)
	case errors.Is(err, service.ErrInvalidUsername):
		return model.NewValidationError([]model.FieldError{{Field: "username", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidLifestyle):
		return model.NewValidationError([]model.FieldError{{Field: "lifestyle_id", Message: err.Error()}})
	case errors.Is(err, service.ErrTooManyActivities),
		errors.Is(err, service.ErrNoActivitiesChosen):
		return model.NewValidationError([]model.FieldError{{Field: "activity_ids", Message: err.Error()}})

	// ===== Provider/External Errors → 502 =====
	case errors.Is(err, service.ErrPredictionFailed):
		return model.NewExternalServiceError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == http.StatusInternalServerError {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}

// writeServiceError maps err and writes it, logging anything that is not the
// caller's fault
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	pd := MapServiceErrorWithContext(err, operation)
	if pd.Status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "operation", operation, "error", err)
	}
	WriteError(w, pd)
}

func issuesToFieldErrors(issues []assessment.Issue) []model.FieldError {
	out := make([]model.FieldError, 0, len(issues))
	for _, issue := range issues {
		out = append(out, model.FieldError{Field: issue.Field, Message: issue.Message})
	}
	return out
}
