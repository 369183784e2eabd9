package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/forgo/wellness/api/internal/assessment"
	"github.com/forgo/wellness/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	createFunc               func(ctx context.Context, user *model.User) error
	getByIDFunc              func(ctx context.Context, id string) (*model.User, error)
	getByUsernameFunc        func(ctx context.Context, username string) (*model.User, error)
	saveProgressFunc         func(ctx context.Context, user *model.User) error
	setAssessmentOutcomeFunc func(ctx context.Context, userID string, stressLevel int, lifestyleIDs []int) error
	resetMissedStreaksFunc   func(ctx context.Context) (int, error)
	clearDailySuccessFunc    func(ctx context.Context) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFunc != nil {
		return m.getByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) SaveProgress(ctx context.Context, user *model.User) error {
	if m.saveProgressFunc != nil {
		return m.saveProgressFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) SetAssessmentOutcome(ctx context.Context, userID string, stressLevel int, lifestyleIDs []int) error {
	if m.setAssessmentOutcomeFunc != nil {
		return m.setAssessmentOutcomeFunc(ctx, userID, stressLevel, lifestyleIDs)
	}
	return nil
}

func (m *mockUserRepo) ResetMissedStreaks(ctx context.Context) (int, error) {
	if m.resetMissedStreaksFunc != nil {
		return m.resetMissedStreaksFunc(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) ClearDailySuccess(ctx context.Context) error {
	if m.clearDailySuccessFunc != nil {
		return m.clearDailySuccessFunc(ctx)
	}
	return nil
}

type mockResultRepo struct {
	createFunc       func(ctx context.Context, res *model.AssessmentResult) error
	getByIDFunc      func(ctx context.Context, id string) (*model.AssessmentResult, error)
	latestByUserFunc func(ctx context.Context, userID string) (*model.AssessmentResult, error)
}

func (m *mockResultRepo) Create(ctx context.Context, res *model.AssessmentResult) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, res)
	}
	return nil
}

func (m *mockResultRepo) GetByID(ctx context.Context, id string) (*model.AssessmentResult, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockResultRepo) LatestByUser(ctx context.Context, userID string) (*model.AssessmentResult, error) {
	if m.latestByUserFunc != nil {
		return m.latestByUserFunc(ctx, userID)
	}
	return nil, nil
}

type mockActivityRepo struct {
	listLifestylesFunc   func(ctx context.Context) ([]model.Lifestyle, error)
	getByIDFunc          func(ctx context.Context, id string) (*model.Activity, error)
	listByLifestylesFunc func(ctx context.Context, lifestyleIDs []int) ([]*model.Activity, error)
}

func (m *mockActivityRepo) ListLifestyles(ctx context.Context) ([]model.Lifestyle, error) {
	if m.listLifestylesFunc != nil {
		return m.listLifestylesFunc(ctx)
	}
	return nil, nil
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockActivityRepo) ListByLifestyles(ctx context.Context, lifestyleIDs []int) ([]*model.Activity, error) {
	if m.listByLifestylesFunc != nil {
		return m.listByLifestylesFunc(ctx, lifestyleIDs)
	}
	return nil, nil
}

type mockPlanRepo struct {
	createFunc       func(ctx context.Context, userID string) (*model.ActivityPlan, error)
	getByUserFunc    func(ctx context.Context, userID string) (*model.ActivityPlan, error)
	applyChangesFunc func(ctx context.Context, planID string, remove, add []string) error
	setChoiceFunc    func(ctx context.Context, planID, activityID string, chosen bool) error
}

func (m *mockPlanRepo) Create(ctx context.Context, userID string) (*model.ActivityPlan, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID)
	}
	return &model.ActivityPlan{ID: "activity_plan:new", UserID: userID}, nil
}

func (m *mockPlanRepo) GetByUser(ctx context.Context, userID string) (*model.ActivityPlan, error) {
	if m.getByUserFunc != nil {
		return m.getByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockPlanRepo) ApplyChanges(ctx context.Context, planID string, remove, add []string) error {
	if m.applyChangesFunc != nil {
		return m.applyChangesFunc(ctx, planID, remove, add)
	}
	return nil
}

func (m *mockPlanRepo) SetChoice(ctx context.Context, planID, activityID string, chosen bool) error {
	if m.setChoiceFunc != nil {
		return m.setChoiceFunc(ctx, planID, activityID, chosen)
	}
	return nil
}

type mockCompletionRepo struct {
	recordFunc func(ctx context.Context, before, user *model.User, entryID string) error
}

func (m *mockCompletionRepo) RecordCompletion(ctx context.Context, before, user *model.User, entryID string) error {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, before, user, entryID)
	}
	return nil
}

type mockCatalogRepo struct {
	mu         sync.Mutex
	lifestyles []model.Lifestyle
	keys       []string
	upsertErr  error
}

func (m *mockCatalogRepo) UpsertLifestyle(ctx context.Context, l model.Lifestyle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lifestyles = append(m.lifestyles, l)
	return nil
}

func (m *mockCatalogRepo) Upsert(ctx context.Context, key string, a *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.keys = append(m.keys, key)
	a.ID = "activity:" + key
	return nil
}

// ============================================================================
// Mock Collaborators
// ============================================================================

type mockPredictor struct {
	lifestyleFunc func(ctx context.Context, payload assessment.Payload) (*model.LifestylePrediction, error)
	stressFunc    func(ctx context.Context, features assessment.StressFeatures) (*model.StressPrediction, error)
}

func (m *mockPredictor) PredictLifestyle(ctx context.Context, payload assessment.Payload) (*model.LifestylePrediction, error) {
	if m.lifestyleFunc != nil {
		return m.lifestyleFunc(ctx, payload)
	}
	return &model.LifestylePrediction{PredClassIdx: model.LifestyleHealth, SoftmaxProbs: []float64{0, 1}}, nil
}

func (m *mockPredictor) PredictStress(ctx context.Context, features assessment.StressFeatures) (*model.StressPrediction, error) {
	if m.stressFunc != nil {
		return m.stressFunc(ctx, features)
	}
	return &model.StressPrediction{StressLevelClass: 2}, nil
}

type recordingObserver struct {
	mu          sync.Mutex
	submissions []string
	levels      []int
	resets      []int
}

func (r *recordingObserver) Submission(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, outcome)
}

func (r *recordingObserver) ActivityCompleted(levels int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = append(r.levels, levels)
}

func (r *recordingObserver) StreaksReset(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, n)
}

// ============================================================================
// Fixtures
// ============================================================================

// validAnswers answers every field with its lowest accepted value
func validAnswers() assessment.Answers {
	answers := assessment.Answers{}
	for _, f := range assessment.Fields() {
		switch {
		case f.Kind == assessment.KindChoice:
			answers[f.Key] = f.Choices[0]
		case f.HasRange:
			answers[f.Key] = strconv.FormatFloat(f.Min, 'f', -1, 64)
		default:
			answers[f.Key] = "1"
		}
	}
	return answers
}

func existingUser(id string) func(context.Context, string) (*model.User, error) {
	return func(ctx context.Context, got string) (*model.User, error) {
		if got != id {
			return nil, nil
		}
		return &model.User{ID: id, Username: "amy", Level: model.StartingLevel}, nil
	}
}

func intPtr(i int) *int {
	return &i
}
