package service

import (
	"encoding/json"
	"sync"
	"time"
)

// EventType represents the type of progress event
type EventType string

const (
	EventActivityCompleted EventType = "activity.completed"
	EventLevelUp           EventType = "level.up"
	EventStreakChanged     EventType = "streak.changed"
	EventDailyReset        EventType = "day.reset"

	// System events
	EventHeartbeat EventType = "heartbeat"
)

// Event is a server-sent event addressed to one user
type Event struct {
	Type   EventType   `json:"type"`
	Data   interface{} `json:"data"`
	UserID string      `json:"-"` // routing only; empty broadcasts
}

// Format returns the SSE formatted string
func (e *Event) Format() string {
	data, _ := json.Marshal(e.Data)
	return "event: " + string(e.Type) + "\ndata: " + string(data) + "\n\n"
}

// Subscriber represents a connected SSE client
type Subscriber struct {
	ID     string
	UserID string
	Events chan *Event
	Done   chan struct{}
}

// EventPublisher accepts events for delivery
type EventPublisher interface {
	Publish(event *Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(*Event) {}

const subscriberBuffer = 32

// EventHub fans progress events out to the SSE streams of each user
type EventHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscriber // userID -> subscriberID -> subscriber
	heartbeat   *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// NewEventHub creates a hub that heartbeats every interval. A non-positive
// interval means 30s.
func NewEventHub(interval time.Duration) *EventHub {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	hub := &EventHub{
		subscribers: make(map[string]map[string]*Subscriber),
		heartbeat:   time.NewTicker(interval),
		done:        make(chan struct{}),
	}
	go hub.sendHeartbeats()
	return hub
}

// Subscribe adds a new subscriber for a user
func (h *EventHub) Subscribe(userID, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:     subscriberID,
		UserID: userID,
		Events: make(chan *Event, subscriberBuffer),
		Done:   make(chan struct{}),
	}

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[string]*Subscriber)
	}
	h.subscribers[userID][subscriberID] = sub
	return sub
}

// Unsubscribe removes a subscriber. Unknown IDs are ignored.
func (h *EventHub) Unsubscribe(userID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userSubs, ok := h.subscribers[userID]
	if !ok {
		return
	}
	if sub, ok := userSubs[subscriberID]; ok {
		close(sub.Done)
		close(sub.Events)
		delete(userSubs, subscriberID)
	}
	if len(userSubs) == 0 {
		delete(h.subscribers, userID)
	}
}

// Publish sends an event to the subscribers of its user, or to everyone when
// UserID is empty. Slow subscribers miss events rather than block.
func (h *EventHub) Publish(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if event.UserID == "" {
		for _, userSubs := range h.subscribers {
			deliver(userSubs, event)
		}
		return
	}
	deliver(h.subscribers[event.UserID], event)
}

func deliver(subs map[string]*Subscriber, event *Event) {
	for _, sub := range subs {
		select {
		case sub.Events <- event:
		default:
		}
	}
}

func (h *EventHub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.Publish(&Event{
				Type: EventHeartbeat,
				Data: map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				},
			})
		case <-h.done:
			return
		}
	}
}

// Close stops the heartbeat and ends every stream
func (h *EventHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.heartbeat.Stop()

		h.mu.Lock()
		defer h.mu.Unlock()
		for userID, userSubs := range h.subscribers {
			for _, sub := range userSubs {
				close(sub.Done)
				close(sub.Events)
			}
			delete(h.subscribers, userID)
		}
	})
}

// SubscriberCount returns the number of open streams for a user
func (h *EventHub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}
