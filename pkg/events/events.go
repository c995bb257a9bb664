package events

import (
	"context"
	"sync"
	"time"
)

// Catalog event types
const (
	EventTypeCreated  = "created"
	EventTypeUpdated  = "updated"
	EventTypeDeleted  = "deleted"
	EventTypeRestored = "restored"
	EventTypePurged   = "purged"
)

// Kafka topics
const (
	TopicCatalogEvents = "catalog-events"
)

// CatalogEvent is published after a catalog mutation commits
type CatalogEvent struct {
	EventID    string                 `json:"event_id"`
	EventType  string                 `json:"event_type"`
	Resource   string                 `json:"resource"`
	ResourceID uint                   `json:"resource_id"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Publisher delivers catalog events
type Publisher interface {
	Publish(ctx context.Context, event CatalogEvent) error
}

// Noop drops every event
type Noop struct{}

func (Noop) Publish(ctx context.Context, event CatalogEvent) error { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []CatalogEvent
}

// Publish appends event
func (r *Recorder) Publish(ctx context.Context, event CatalogEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []CatalogEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CatalogEvent, len(r.events))
	copy(out, r.events)
	return out
}
