package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/forgo/wellness/api/internal/assessment"
	"github.com/forgo/wellness/api/internal/metrics"
	"github.com/forgo/wellness/api/internal/model"
)

const assessmentTable = "assessment_result:"

// AssessmentResultRepository defines the interface for result storage
type AssessmentResultRepository interface {
	Create(ctx context.Context, res *model.AssessmentResult) error
	GetByID(ctx context.Context, id string) (*model.AssessmentResult, error)
	LatestByUser(ctx context.Context, userID string) (*model.AssessmentResult, error)
}

// AssessmentUserRepository is the slice of user storage submissions need
type AssessmentUserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	SetAssessmentOutcome(ctx context.Context, userID string, stressLevel int, lifestyleIDs []int) error
}

// Predictor calls the lifestyle and stress models
type Predictor interface {
	PredictLifestyle(ctx context.Context, payload assessment.Payload) (*model.LifestylePrediction, error)
	PredictStress(ctx context.Context, features assessment.StressFeatures) (*model.StressPrediction, error)
}

// SubmissionObserver counts submission outcomes
type SubmissionObserver interface {
	Submission(outcome string)
}

type noopSubmissionObserver struct{}

func (noopSubmissionObserver) Submission(string) {}

// StepStatus is the result of checking or advancing one questionnaire step
type StepStatus struct {
	Step     int                `json:"step"`
	Valid    bool               `json:"valid"`
	NextStep int                `json:"next_step"`
	IsLast   bool               `json:"is_last"`
	Issues   []assessment.Issue `json:"issues"`
}

// AssessmentService handles questionnaire validation and submission
type AssessmentService struct {
	results   AssessmentResultRepository
	users     AssessmentUserRepository
	predictor Predictor
	observer  SubmissionObserver
	now       func() time.Time
	newID     func() string
}

// AssessmentServiceConfig holds configuration for the assessment service
type AssessmentServiceConfig struct {
	Results   AssessmentResultRepository
	Users     AssessmentUserRepository
	Predictor Predictor
	Observer  SubmissionObserver
	Now       func() time.Time
	NewID     func() string
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(cfg AssessmentServiceConfig) *AssessmentService {
	s := &AssessmentService{
		results:   cfg.Results,
		users:     cfg.Users,
		predictor: cfg.Predictor,
		observer:  cfg.Observer,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}
	if s.observer == nil {
		s.observer = noopSubmissionObserver{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

// Schema returns the questionnaire steps and their fields
func (s *AssessmentService) Schema() []assessment.Step {
	return assessment.Schema()
}

// ValidateStep checks one step without moving
func (s *AssessmentService) ValidateStep(step int, answers assessment.Answers) (*StepStatus, error) {
	if !assessment.IsKnownStep(step) {
		return nil, ErrInvalidStep
	}
	issues := assessment.StepIssues(step, answers)
	return &StepStatus{
		Step:     step,
		Valid:    len(issues) == 0,
		NextStep: step,
		IsLast:   step == assessment.StepCount,
		Issues:   nonNilIssues(issues),
	}, nil
}

// AdvanceStep tries to move past step. NextStep stays on step when the step
// has failing fields.
func (s *AssessmentService) AdvanceStep(step int, answers assessment.Answers) (*StepStatus, error) {
	if !assessment.IsKnownStep(step) {
		return nil, ErrInvalidStep
	}
	nav := assessment.NewNavigator(answers, assessment.AtStep(step))
	err := nav.Advance()
	if err != nil && !errors.Is(err, assessment.ErrStepInvalid) {
		return nil, err
	}
	return &StepStatus{
		Step:     step,
		Valid:    err == nil,
		NextStep: nav.Step(),
		IsLast:   nav.IsLast(),
		Issues:   nonNilIssues(assessment.StepIssues(step, answers)),
	}, nil
}

// Submit scores a completed questionnaire for a user. Both models are called
// concurrently and the outcome is stored as an immutable result.
func (s *AssessmentService) Submit(ctx context.Context, userID string, answers assessment.Answers) (*model.AssessmentResult, error) {
	user, err := s.users.GetByID(ctx, recordID("user", userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if issues := assessment.AllIssues(answers); len(issues) > 0 {
		s.observer.Submission(metrics.OutcomeIncomplete)
		return nil, &IncompleteError{Issues: issues}
	}

	var (
		lifestyle *model.LifestylePrediction
		stress    *model.StressPrediction
	)
	nav := assessment.NewNavigator(answers.Clone(), assessment.AtStep(assessment.StepCount))
	_, err = nav.Submit(ctx, func(ctx context.Context, payload assessment.Payload) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := s.predictor.PredictLifestyle(gctx, payload)
			lifestyle = p
			return err
		})
		g.Go(func() error {
			p, err := s.predictor.PredictStress(gctx, assessment.BuildStressFeatures(answers))
			stress = p
			return err
		})
		return g.Wait()
	})
	if err != nil {
		if errors.Is(err, assessment.ErrIncomplete) {
			s.observer.Submission(metrics.OutcomeIncomplete)
			return nil, &IncompleteError{Issues: assessment.AllIssues(answers)}
		}
		s.observer.Submission(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}

	result := &model.AssessmentResult{
		ID:            assessmentTable + s.newID(),
		UserID:        user.ID,
		Lifestyle:     *lifestyle,
		StressLevel:   stress.StressLevelClass,
		WellnessScore: assessment.WellnessScore(answers),
		LifestyleIDs:  model.LifestyleIDsFor(*lifestyle),
		SubmittedOn:   s.now().UTC(),
	}

	if err := s.results.Create(ctx, result); err != nil {
		s.observer.Submission(metrics.OutcomeFailed)
		return nil, err
	}
	if err := s.users.SetAssessmentOutcome(ctx, user.ID, result.StressLevel, result.LifestyleIDs); err != nil {
		s.observer.Submission(metrics.OutcomeFailed)
		return nil, err
	}

	s.observer.Submission(metrics.OutcomeAccepted)
	return result, nil
}

// GetResult retrieves a stored result
func (s *AssessmentService) GetResult(ctx context.Context, id string) (*model.AssessmentResult, error) {
	res, err := s.results.GetByID(ctx, strings.TrimPrefix(id, assessmentTable))
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrAssessmentNotFound
	}
	return res, nil
}

// LatestResult retrieves the user's most recent result
func (s *AssessmentService) LatestResult(ctx context.Context, userID string) (*model.AssessmentResult, error) {
	user, err := s.users.GetByID(ctx, recordID("user", userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	res, err := s.results.LatestByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrAssessmentNotFound
	}
	return res, nil
}

func nonNilIssues(issues []assessment.Issue) []assessment.Issue {
	if issues == nil {
		return []assessment.Issue{}
	}
	return issues
}
