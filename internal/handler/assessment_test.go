package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/forgo/wellness/api/internal/assessment"
	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/service"
)

func sampleResult() *model.AssessmentResult {
	return &model.AssessmentResult{
		ID:            "assessment_result:abc",
		UserID:        "user:1",
		Lifestyle:     model.LifestylePrediction{PredClassIdx: 1, PredMultilabelIdx: []int{1, 4}},
		StressLevel:   2,
		WellnessScore: 5.9,
		LifestyleIDs:  []int{1, 4},
	}
}

// ============================================================================
// GetSchema
// ============================================================================

func TestAssessmentHandler_GetSchema(t *testing.T) {
	t.Parallel()

	h := NewAssessmentHandler(&mockAssessmentService{})
	rec := serve("GET /v1/assessment/schema", h.GetSchema, http.MethodGet, "/v1/assessment/schema", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var steps []assessment.Step
	decodeData(t, rec, &steps)
	if len(steps) != assessment.StepCount {
		t.Errorf("expected %d steps, got %d", assessment.StepCount, len(steps))
	}
}

// ============================================================================
// ValidateStep / AdvanceStep
// ============================================================================

func TestAssessmentHandler_ValidateStep_ParsesStepAndAnswers(t *testing.T) {
	t.Parallel()

	var gotStep int
	var gotAnswers assessment.Answers
	svc := &mockAssessmentService{
		validateStepFunc: func(step int, answers assessment.Answers) (*service.StepStatus, error) {
			gotStep, gotAnswers = step, answers
			return &service.StepStatus{Step: step, Valid: true, NextStep: step + 1}, nil
		},
	}
	h := NewAssessmentHandler(svc)

	body := `{"answers":{"age":30,"gender":"female","vacationDays":"10"}}`
	rec := serve("POST /v1/assessment/steps/{step}/validate", h.ValidateStep,
		http.MethodPost, "/v1/assessment/steps/1/validate", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotStep != 1 {
		t.Errorf("expected step 1, got %d", gotStep)
	}
	if gotAnswers.Get(assessment.KeyAge) != "30" {
		t.Errorf("expected numeric age to arrive as \"30\", got %q", gotAnswers.Get(assessment.KeyAge))
	}
	if gotAnswers.Get(assessment.KeyVacationDays) != "10" {
		t.Errorf("expected vacationDays \"10\", got %q", gotAnswers.Get(assessment.KeyVacationDays))
	}

	links := decodeData(t, rec, nil)
	if links["next"] != "/v1/assessment/steps/2/validate" {
		t.Errorf("expected next link to step 2, got %q", links["next"])
	}
}

func TestAssessmentHandler_ValidateStep_InvalidStepIsNotNextLinked(t *testing.T) {
	t.Parallel()

	svc := &mockAssessmentService{
		validateStepFunc: func(step int, answers assessment.Answers) (*service.StepStatus, error) {
			return &service.StepStatus{
				Step:     step,
				NextStep: step,
				Issues:   []assessment.Issue{{Field: "age", Message: "is required"}},
			}, nil
		},
	}
	h := NewAssessmentHandler(svc)

	rec := serve("POST /v1/assessment/steps/{step}/validate", h.ValidateStep,
		http.MethodPost, "/v1/assessment/steps/1/validate", `{"answers":{}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status service.StepStatus
	links := decodeData(t, rec, &status)
	if status.Valid {
		t.Error("expected invalid status")
	}
	if len(status.Issues) != 1 || status.Issues[0].Field != "age" {
		t.Errorf("unexpected issues: %+v", status.Issues)
	}
	if _, ok := links["next"]; ok {
		t.Error("expected no next link for an invalid step")
	}
}

func TestAssessmentHandler_ValidateStep_BadStep(t *testing.T) {
	t.Parallel()

	h := NewAssessmentHandler(&mockAssessmentService{})
	rec := serve("POST /v1/assessment/steps/{step}/validate", h.ValidateStep,
		http.MethodPost, "/v1/assessment/steps/two/validate", `{"answers":{}}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAssessmentHandler_AdvanceStep_UnknownStep(t *testing.T) {
	t.Parallel()

	svc := &mockAssessmentService{
		advanceStepFunc: func(step int, answers assessment.Answers) (*service.StepStatus, error) {
			return nil, service.ErrInvalidStep
		},
	}
	h := NewAssessmentHandler(svc)
	rec := serve("POST /v1/assessment/steps/{step}/advance", h.AdvanceStep,
		http.MethodPost, "/v1/assessment/steps/9/advance", `{"answers":{}}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAssessmentHandler_AdvanceStep_LinksFollowRoute(t *testing.T) {
	t.Parallel()

	svc := &mockAssessmentService{
		advanceStepFunc: func(step int, answers assessment.Answers) (*service.StepStatus, error) {
			return &service.StepStatus{Step: step, Valid: true, NextStep: step + 1}, nil
		},
	}
	h := NewAssessmentHandler(svc)
	rec := serve("POST /v1/assessment/steps/{step}/advance", h.AdvanceStep,
		http.MethodPost, "/v1/assessment/steps/2/advance", `{"answers":{}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	links := decodeData(t, rec, nil)
	if links["self"] != "/v1/assessment/steps/2/advance" {
		t.Errorf("expected self link to advance route, got %q", links["self"])
	}
	if links["next"] != "/v1/assessment/steps/3/advance" {
		t.Errorf("expected next link to step 3 advance, got %q", links["next"])
	}
}

func TestAssessmentHandler_AdvanceStep_RejectsUnknownBodyFields(t *testing.T) {
	t.Parallel()

	h := NewAssessmentHandler(&mockAssessmentService{})
	rec := serve("POST /v1/assessment/steps/{step}/advance", h.AdvanceStep,
		http.MethodPost, "/v1/assessment/steps/1/advance", `{"answerz":{}}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ============================================================================
// Submit
// ============================================================================

func TestAssessmentHandler_Submit_Created(t *testing.T) {
	t.Parallel()

	var gotUser string
	svc := &mockAssessmentService{
		submitFunc: func(ctx context.Context, userID string, answers assessment.Answers) (*model.AssessmentResult, error) {
			gotUser = userID
			return sampleResult(), nil
		},
	}
	h := NewAssessmentHandler(svc)

	rec := serve("POST /v1/users/{userId}/assessments", h.Submit,
		http.MethodPost, "/v1/users/user:1/assessments", `{"answers":{"age":"30"}}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUser != "user:1" {
		t.Errorf("expected user:1, got %q", gotUser)
	}

	var result model.AssessmentResult
	links := decodeData(t, rec, &result)
	if result.StressLevel != 2 {
		t.Errorf("expected stress level 2, got %d", result.StressLevel)
	}
	if links["activities"] != "/v1/activities?lifestyle_id=1&lifestyle_id=4" {
		t.Errorf("unexpected activities link %q", links["activities"])
	}
}

func TestAssessmentHandler_Submit_Incomplete(t *testing.T) {
	t.Parallel()

	svc := &mockAssessmentService{
		submitFunc: func(ctx context.Context, userID string, answers assessment.Answers) (*model.AssessmentResult, error) {
			return nil, &service.IncompleteError{Issues: []assessment.Issue{
				{Field: "age", Message: "is required"},
				{Field: "moodScore", Message: "must be between 1 and 10"},
			}}
		},
	}
	h := NewAssessmentHandler(svc)

	rec := serve("POST /v1/users/{userId}/assessments", h.Submit,
		http.MethodPost, "/v1/users/user:1/assessments", `{"answers":{}}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	pd := decodeProblem(t, rec)
	if pd.Code != model.ErrCodeIncomplete {
		t.Errorf("expected incomplete code, got %d", pd.Code)
	}
	if len(pd.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(pd.Errors))
	}
}

func TestAssessmentHandler_Submit_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"unknown user", service.ErrUserNotFound, http.StatusNotFound},
		{"predictor down", fmt.Errorf("lifestyle: %w", service.ErrPredictionFailed), http.StatusBadGateway},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &mockAssessmentService{
				submitFunc: func(ctx context.Context, userID string, answers assessment.Answers) (*model.AssessmentResult, error) {
					return nil, tt.err
				},
			}
			h := NewAssessmentHandler(svc)
			rec := serve("POST /v1/users/{userId}/assessments", h.Submit,
				http.MethodPost, "/v1/users/user:1/assessments", `{"answers":{}}`)

			if rec.Code != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

// ============================================================================
// GetResult / GetLatest
// ============================================================================

func TestAssessmentHandler_GetResult(t *testing.T) {
	t.Parallel()

	var gotID string
	svc := &mockAssessmentService{
		getResultFunc: func(ctx context.Context, id string) (*model.AssessmentResult, error) {
			gotID = id
			return sampleResult(), nil
		},
	}
	h := NewAssessmentHandler(svc)
	rec := serve("GET /v1/assessments/{assessmentId}", h.GetResult,
		http.MethodGet, "/v1/assessments/abc", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "abc" {
		t.Errorf("expected abc, got %q", gotID)
	}
}

func TestAssessmentHandler_GetLatest_NotFound(t *testing.T) {
	t.Parallel()

	svc := &mockAssessmentService{
		latestResultFunc: func(ctx context.Context, userID string) (*model.AssessmentResult, error) {
			return nil, service.ErrAssessmentNotFound
		},
	}
	h := NewAssessmentHandler(svc)
	rec := serve("GET /v1/users/{userId}/assessments/latest", h.GetLatest,
		http.MethodGet, "/v1/users/user:1/assessments/latest", nil)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
