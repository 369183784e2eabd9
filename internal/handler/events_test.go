package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/service"
)

// ============================================================================
// Stream
// ============================================================================

func TestEventsStream_DeliversUserEvents(t *testing.T) {
	t.Parallel()
	hub := service.NewEventHub(time.Hour)
	defer hub.Close()

	progress := &mockProgressService{
		getUserFunc: func(ctx context.Context, userID string) (*model.User, error) {
			return &model.User{ID: "user:" + userID}, nil
		},
	}
	h := NewEventsHandler(hub, progress)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/{userId}/events", h.Stream)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/users/amy/events", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected event-stream content type, got %q", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		t.Helper()
		if !lines.Scan() {
			t.Fatalf("stream ended early: %v", lines.Err())
		}
		return lines.Text()
	}

	if got := next(); got != "event: connected" {
		t.Fatalf("expected connected event first, got %q", got)
	}
	next() // data
	next() // blank

	// Subscribed before the connected frame was flushed
	hub.Publish(&service.Event{Type: service.EventStreakChanged, UserID: "user:bob", Data: map[string]int{"day_streak": 9}})
	hub.Publish(&service.Event{Type: service.EventStreakChanged, UserID: "user:amy", Data: map[string]int{"day_streak": 3}})

	if got := next(); got != "event: streak.changed" {
		t.Errorf("expected streak event, got %q", got)
	}
	if got := next(); got != `data: {"day_streak":3}` {
		t.Errorf("expected amy's data, got %q", got)
	}

	cancel()
	deadline := time.Now().Add(time.Second)
	for hub.SubscriberCount("user:amy") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected unsubscribe on disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEventsStream_UnknownUser(t *testing.T) {
	t.Parallel()
	hub := service.NewEventHub(time.Hour)
	defer hub.Close()

	progress := &mockProgressService{
		getUserFunc: func(ctx context.Context, userID string) (*model.User, error) {
			return nil, service.ErrUserNotFound
		},
	}
	h := NewEventsHandler(hub, progress)

	rec := serve("GET /v1/users/{userId}/events", h.Stream, http.MethodGet, "/v1/users/ghost/events", nil)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if n := hub.SubscriberCount("user:ghost"); n != 0 {
		t.Errorf("expected no subscription, got %d", n)
	}
}
