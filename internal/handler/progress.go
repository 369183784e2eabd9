package handler

import (
	"context"
	"net/http"

	"github.com/forgo/wellness/api/internal/model"
)

// ProgressService is what the user and progress endpoints need
type ProgressService interface {
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	CompleteActivity(ctx context.Context, userID string, req *model.CompleteActivityRequest) (*model.CompleteActivityResponse, error)
	Dashboard(ctx context.Context, userID string) (*model.Dashboard, error)
	IncrementStreak(ctx context.Context, userID string) (*model.UserProgress, error)
	ResetStreak(ctx context.Context, userID string) (*model.UserProgress, error)
}

// ProgressHandler handles user, completion and dashboard endpoints
type ProgressHandler struct {
	progressService ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// CreateUser handles POST /v1/users
func (h *ProgressHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.progressService.CreateUser(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, "create user")
		return
	}

	w.Header().Set("Location", "/v1/users/"+user.ID)
	WriteData(w, http.StatusCreated, user, userLinks(user.ID))
}

// GetUser handles GET /v1/users/{userId}
func (h *ProgressHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	user, err := h.progressService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "get user")
		return
	}

	WriteData(w, http.StatusOK, user, userLinks(user.ID))
}

// CompleteActivity handles POST /v1/users/{userId}/complete
func (h *ProgressHandler) CompleteActivity(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req model.CompleteActivityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.ActivityID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "activity_id", Message: "is required"},
		}))
		return
	}

	res, err := h.progressService.CompleteActivity(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, r, err, "complete activity")
		return
	}

	WriteData(w, http.StatusOK, res, userLinks(userID))
}

// Dashboard handles GET /v1/users/{userId}/dashboard
func (h *ProgressHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	dash, err := h.progressService.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "get dashboard")
		return
	}

	WriteData(w, http.StatusOK, dash, userLinks(userID))
}

// IncrementStreak handles POST /v1/users/{userId}/streak/increment
func (h *ProgressHandler) IncrementStreak(w http.ResponseWriter, r *http.Request) {
	h.updateStreak(w, r, h.progressService.IncrementStreak, "increment streak")
}

// ResetStreak handles POST /v1/users/{userId}/streak/reset
func (h *ProgressHandler) ResetStreak(w http.ResponseWriter, r *http.Request) {
	h.updateStreak(w, r, h.progressService.ResetStreak, "reset streak")
}

func (h *ProgressHandler) updateStreak(w http.ResponseWriter, r *http.Request, update func(context.Context, string) (*model.UserProgress, error), operation string) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	progress, err := update(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, operation)
		return
	}

	WriteData(w, http.StatusOK, progress, userLinks(userID))
}

func userLinks(userID string) map[string]string {
	return map[string]string{
		"self":        "/v1/users/" + userID,
		"dashboard":   "/v1/users/" + userID + "/dashboard",
		"plan":        "/v1/users/" + userID + "/plan",
		"assessments": "/v1/users/" + userID + "/assessments/latest",
	}
}
