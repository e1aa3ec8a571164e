package kafka

import (
	"time"

	"github.com/google/uuid"
)

// Clip lifecycle event types
const (
	EventAnalysisCompleted = "analysis.completed"
	EventClipQueued        = "clip.queued"
	EventClipProcessed     = "clip.processed"
	EventClipPublished     = "clip.published"
	EventClipFailed        = "clip.failed"
)

// DefaultTopic is the topic clip lifecycle events are published to
const DefaultTopic = "clip_events"

// ClipEvent represents a single clip lifecycle event
type ClipEvent struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	Source        string                 `json:"source"`
	UserID        string                 `json:"user_id,omitempty"`
	StreamID      *string                `json:"stream_id,omitempty"`
	VideoURL      string                 `json:"video_url,omitempty"`
	Data          map[string]interface{} `json:"data,omitempty"`
	SchemaVersion string                 `json:"schema_version"`
}

// NewClipEvent creates a ClipEvent with a fresh ID and timestamp
func NewClipEvent(eventType, source string, data map[string]interface{}) *ClipEvent {
	return &ClipEvent{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          data,
		SchemaVersion: "1.0",
	}
}

// EventPublisher is the producer surface consumed by services
type EventPublisher interface {
	PublishClipEvent(event *ClipEvent) error
	PublishClipEventBatch(events []ClipEvent) error
	Close() error
}
