package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/service"
)

// EventSource hands out per-user event subscriptions
type EventSource interface {
	Subscribe(userID, subscriberID string) *service.Subscriber
	Unsubscribe(userID, subscriberID string)
}

// EventsHandler streams progress events over SSE
type EventsHandler struct {
	events          EventSource
	progressService ProgressService
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(events EventSource, progressService ProgressService) *EventsHandler {
	return &EventsHandler{
		events:          events,
		progressService: progressService,
	}
}

// Stream handles GET /v1/users/{userId}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	user, err := h.progressService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "stream events")
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server's write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	subscriberID := uuid.New().String()
	sub := h.events.Subscribe(user.ID, subscriberID)
	defer h.events.Unsubscribe(user.ID, subscriberID)

	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":%q}\n\n", subscriberID)
	if err := rc.Flush(); err != nil {
		return
	}

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			fmt.Fprint(w, event.Format())
			if err := rc.Flush(); err != nil {
				return
			}

		case <-sub.Done:
			return

		case <-r.Context().Done():
			return
		}
	}
}
