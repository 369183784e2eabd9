package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/forgo/wellness/api/internal/model"
)

// ActivityService is what the catalog and plan endpoints need
type ActivityService interface {
	ListLifestyles(ctx context.Context) ([]model.Lifestyle, error)
	RecommendActivities(ctx context.Context, lifestyleIDs []int) ([]*model.Activity, error)
	GetActivity(ctx context.Context, id string) (*model.Activity, error)
	ChooseActivities(ctx context.Context, userID string, req *model.ChooseActivitiesRequest) (*model.ActivityPlan, error)
	SetActivityChoice(ctx context.Context, userID, activityID string, chosen bool) (*model.ActivityPlan, error)
	GetPlan(ctx context.Context, userID string) (*model.ActivityPlan, error)
}

// ActivityHandler handles lifestyle, activity and plan endpoints
type ActivityHandler struct {
	activityService ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListLifestyles handles GET /v1/lifestyles
func (h *ActivityHandler) ListLifestyles(w http.ResponseWriter, r *http.Request) {
	lifestyles, err := h.activityService.ListLifestyles(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list lifestyles")
		return
	}

	WriteCollection(w, http.StatusOK, lifestyles, len(lifestyles), map[string]string{
		"self":       "/v1/lifestyles",
		"activities": "/v1/activities",
	})
}

// ListActivities handles GET /v1/activities?lifestyle_id=1&lifestyle_id=4.
// Comma separated values are accepted too.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	var lifestyleIDs []int
	for _, raw := range r.URL.Query()["lifestyle_id"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				WriteError(w, model.NewValidationError([]model.FieldError{
					{Field: "lifestyle_id", Message: "must be an integer"},
				}))
				return
			}
			lifestyleIDs = append(lifestyleIDs, id)
		}
	}

	activities, err := h.activityService.RecommendActivities(r.Context(), lifestyleIDs)
	if err != nil {
		writeServiceError(w, r, err, "list activities")
		return
	}

	WriteCollection(w, http.StatusOK, activities, len(activities), map[string]string{
		"self": r.URL.RequestURI(),
	})
}

// GetActivity handles GET /v1/activities/{activityId}
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityId")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	activity, err := h.activityService.GetActivity(r.Context(), activityID)
	if err != nil {
		writeServiceError(w, r, err, "get activity")
		return
	}

	WriteData(w, http.StatusOK, activity, map[string]string{
		"self": "/v1/activities/" + activity.ID,
	})
}

// GetPlan handles GET /v1/users/{userId}/plan
func (h *ActivityHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	plan, err := h.activityService.GetPlan(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "get plan")
		return
	}

	WriteData(w, http.StatusOK, plan, planLinks(userID))
}

// ChooseActivities handles PUT /v1/users/{userId}/plan - confirm the chosen
// activities
func (h *ActivityHandler) ChooseActivities(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req model.ChooseActivitiesRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	plan, err := h.activityService.ChooseActivities(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, r, err, "choose activities")
		return
	}

	WriteData(w, http.StatusOK, plan, planLinks(userID))
}

// SetActivityChoice handles PATCH /v1/users/{userId}/plan/activities/{activityId}
func (h *ActivityHandler) SetActivityChoice(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	activityID := r.PathValue("activityId")
	if userID == "" || activityID == "" {
		WriteError(w, model.NewBadRequestError("user ID and activity ID required"))
		return
	}

	var req model.SetActivityChoiceRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.Chosen == nil {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "is_chose", Message: "is required"},
		}))
		return
	}

	plan, err := h.activityService.SetActivityChoice(r.Context(), userID, activityID, *req.Chosen)
	if err != nil {
		writeServiceError(w, r, err, "update plan entry")
		return
	}

	WriteData(w, http.StatusOK, plan, planLinks(userID))
}

func planLinks(userID string) map[string]string {
	return map[string]string{
		"self":      "/v1/users/" + userID + "/plan",
		"dashboard": "/v1/users/" + userID + "/dashboard",
	}
}
