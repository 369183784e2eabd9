package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/forgo/wellness/api/internal/assessment"
	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/service"
)

// AssessmentService is what the assessment endpoints need
type AssessmentService interface {
	Schema() []assessment.Step
	ValidateStep(step int, answers assessment.Answers) (*service.StepStatus, error)
	AdvanceStep(step int, answers assessment.Answers) (*service.StepStatus, error)
	Submit(ctx context.Context, userID string, answers assessment.Answers) (*model.AssessmentResult, error)
	GetResult(ctx context.Context, id string) (*model.AssessmentResult, error)
	LatestResult(ctx context.Context, userID string) (*model.AssessmentResult, error)
}

// AnswersRequest carries a raw answer set. Values may be JSON strings or
// numbers.
type AnswersRequest struct {
	Answers assessment.Answers `json:"answers"`
}

// AssessmentHandler handles questionnaire endpoints
type AssessmentHandler struct {
	assessmentService AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentService AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// GetSchema handles GET /v1/assessment/schema - questionnaire steps and fields
func (h *AssessmentHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	steps := h.assessmentService.Schema()
	WriteCollection(w, http.StatusOK, steps, len(steps), map[string]string{
		"self": "/v1/assessment/schema",
	})
}

// ValidateStep handles POST /v1/assessment/steps/{step}/validate
func (h *AssessmentHandler) ValidateStep(w http.ResponseWriter, r *http.Request) {
	h.checkStep(w, r, "validate", h.assessmentService.ValidateStep)
}

// AdvanceStep handles POST /v1/assessment/steps/{step}/advance
func (h *AssessmentHandler) AdvanceStep(w http.ResponseWriter, r *http.Request) {
	h.checkStep(w, r, "advance", h.assessmentService.AdvanceStep)
}

func (h *AssessmentHandler) checkStep(w http.ResponseWriter, r *http.Request, action string, check func(int, assessment.Answers) (*service.StepStatus, error)) {
	step, err := strconv.Atoi(r.PathValue("step"))
	if err != nil {
		WriteError(w, model.NewBadRequestError("step must be a number"))
		return
	}

	var req AnswersRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	status, err := check(step, req.Answers)
	if err != nil {
		writeServiceError(w, r, err, "check step")
		return
	}

	links := map[string]string{
		"self": stepLink(step, action),
	}
	if status.Valid && !status.IsLast {
		links["next"] = stepLink(step+1, action)
	}
	WriteData(w, http.StatusOK, status, links)
}

func stepLink(step int, action string) string {
	return "/v1/assessment/steps/" + strconv.Itoa(step) + "/" + action
}

// Submit handles POST /v1/users/{userId}/assessments - score a questionnaire
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req AnswersRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.assessmentService.Submit(r.Context(), userID, req.Answers)
	if err != nil {
		writeServiceError(w, r, err, "submit assessment")
		return
	}

	WriteData(w, http.StatusCreated, result, resultLinks(result))
}

// GetResult handles GET /v1/assessments/{assessmentId}
func (h *AssessmentHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("assessmentId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("assessment ID required"))
		return
	}

	result, err := h.assessmentService.GetResult(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "get assessment")
		return
	}

	WriteData(w, http.StatusOK, result, resultLinks(result))
}

// GetLatest handles GET /v1/users/{userId}/assessments/latest
func (h *AssessmentHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	result, err := h.assessmentService.LatestResult(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "get latest assessment")
		return
	}

	WriteData(w, http.StatusOK, result, resultLinks(result))
}

func resultLinks(result *model.AssessmentResult) map[string]string {
	links := map[string]string{
		"self":       "/v1/assessments/" + result.ID,
		"user":       "/v1/users/" + result.UserID,
		"activities": "/v1/activities",
	}
	if len(result.LifestyleIDs) > 0 {
		query := ""
		for i, id := range result.LifestyleIDs {
			if i > 0 {
				query += "&"
			}
			query += "lifestyle_id=" + strconv.Itoa(id)
		}
		links["activities"] += "?" + query
	}
	return links
}
