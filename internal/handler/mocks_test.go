package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgo/wellness/api/internal/assessment"
	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/service"
)

// ============================================================================
// Mock AssessmentService
// ============================================================================

type mockAssessmentService struct {
	schemaFunc       func() []assessment.Step
	validateStepFunc func(step int, answers assessment.Answers) (*service.StepStatus, error)
	advanceStepFunc  func(step int, answers assessment.Answers) (*service.StepStatus, error)
	submitFunc       func(ctx context.Context, userID string, answers assessment.Answers) (*model.AssessmentResult, error)
	getResultFunc    func(ctx context.Context, id string) (*model.AssessmentResult, error)
	latestResultFunc func(ctx context.Context, userID string) (*model.AssessmentResult, error)
}

func (m *mockAssessmentService) Schema() []assessment.Step {
	if m.schemaFunc != nil {
		return m.schemaFunc()
	}
	return assessment.Schema()
}

func (m *mockAssessmentService) ValidateStep(step int, answers assessment.Answers) (*service.StepStatus, error) {
	if m.validateStepFunc != nil {
		return m.validateStepFunc(step, answers)
	}
	return &service.StepStatus{Step: step, Valid: true, NextStep: step + 1}, nil
}

func (m *mockAssessmentService) AdvanceStep(step int, answers assessment.Answers) (*service.StepStatus, error) {
	if m.advanceStepFunc != nil {
		return m.advanceStepFunc(step, answers)
	}
	return &service.StepStatus{Step: step, Valid: true, NextStep: step + 1}, nil
}

func (m *mockAssessmentService) Submit(ctx context.Context, userID string, answers assessment.Answers) (*model.AssessmentResult, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, userID, answers)
	}
	return nil, nil
}

func (m *mockAssessmentService) GetResult(ctx context.Context, id string) (*model.AssessmentResult, error) {
	if m.getResultFunc != nil {
		return m.getResultFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAssessmentService) LatestResult(ctx context.Context, userID string) (*model.AssessmentResult, error) {
	if m.latestResultFunc != nil {
		return m.latestResultFunc(ctx, userID)
	}
	return nil, nil
}

// ============================================================================
// Mock ActivityService
// ============================================================================

type mockActivityService struct {
	listLifestylesFunc      func(ctx context.Context) ([]model.Lifestyle, error)
	recommendActivitiesFunc func(ctx context.Context, lifestyleIDs []int) ([]*model.Activity, error)
	getActivityFunc         func(ctx context.Context, id string) (*model.Activity, error)
	chooseActivitiesFunc    func(ctx context.Context, userID string, req *model.ChooseActivitiesRequest) (*model.ActivityPlan, error)
	setActivityChoiceFunc   func(ctx context.Context, userID, activityID string, chosen bool) (*model.ActivityPlan, error)
	getPlanFunc             func(ctx context.Context, userID string) (*model.ActivityPlan, error)
}

func (m *mockActivityService) ListLifestyles(ctx context.Context) ([]model.Lifestyle, error) {
	if m.listLifestylesFunc != nil {
		return m.listLifestylesFunc(ctx)
	}
	return model.DefaultLifestyles(), nil
}

func (m *mockActivityService) RecommendActivities(ctx context.Context, lifestyleIDs []int) ([]*model.Activity, error) {
	if m.recommendActivitiesFunc != nil {
		return m.recommendActivitiesFunc(ctx, lifestyleIDs)
	}
	return []*model.Activity{}, nil
}

func (m *mockActivityService) GetActivity(ctx context.Context, id string) (*model.Activity, error) {
	if m.getActivityFunc != nil {
		return m.getActivityFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockActivityService) ChooseActivities(ctx context.Context, userID string, req *model.ChooseActivitiesRequest) (*model.ActivityPlan, error) {
	if m.chooseActivitiesFunc != nil {
		return m.chooseActivitiesFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *mockActivityService) SetActivityChoice(ctx context.Context, userID, activityID string, chosen bool) (*model.ActivityPlan, error) {
	if m.setActivityChoiceFunc != nil {
		return m.setActivityChoiceFunc(ctx, userID, activityID, chosen)
	}
	return nil, nil
}

func (m *mockActivityService) GetPlan(ctx context.Context, userID string) (*model.ActivityPlan, error) {
	if m.getPlanFunc != nil {
		return m.getPlanFunc(ctx, userID)
	}
	return nil, nil
}

// ============================================================================
// Mock ProgressService
// ============================================================================

type mockProgressService struct {
	createUserFunc       func(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	getUserFunc          func(ctx context.Context, userID string) (*model.User, error)
	completeActivityFunc func(ctx context.Context, userID string, req *model.CompleteActivityRequest) (*model.CompleteActivityResponse, error)
	dashboardFunc        func(ctx context.Context, userID string) (*model.Dashboard, error)
	incrementStreakFunc  func(ctx context.Context, userID string) (*model.UserProgress, error)
	resetStreakFunc      func(ctx context.Context, userID string) (*model.UserProgress, error)
}

func (m *mockProgressService) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockProgressService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockProgressService) CompleteActivity(ctx context.Context, userID string, req *model.CompleteActivityRequest) (*model.CompleteActivityResponse, error) {
	if m.completeActivityFunc != nil {
		return m.completeActivityFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *mockProgressService) Dashboard(ctx context.Context, userID string) (*model.Dashboard, error) {
	if m.dashboardFunc != nil {
		return m.dashboardFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockProgressService) IncrementStreak(ctx context.Context, userID string) (*model.UserProgress, error) {
	if m.incrementStreakFunc != nil {
		return m.incrementStreakFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockProgressService) ResetStreak(ctx context.Context, userID string) (*model.UserProgress, error) {
	if m.resetStreakFunc != nil {
		return m.resetStreakFunc(ctx, userID)
	}
	return nil, nil
}

// ============================================================================
// Helpers
// ============================================================================

// serve routes a single request through a mux so path values resolve
func serve(pattern string, h http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) map[string]string {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Links map[string]string `json:"_links"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if v != nil {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env.Links
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()
	var pd model.ProblemDetails
	if err := json.NewDecoder(rec.Body).Decode(&pd); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	return pd
}
