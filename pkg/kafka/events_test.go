package kafka

import (
	"encoding/json"
	"testing"
)

func TestNewClipEvent(t *testing.T) {
	event := NewClipEvent(EventClipQueued, "lookout", map[string]interface{}{
		"clip_start_time": 4.5,
		"clip_end_time":   12.0,
	})

	if event.EventID == "" {
		t.Fatal("expected event ID to be set")
	}
	if event.EventType != EventClipQueued {
		t.Fatalf("expected event type %s, got %s", EventClipQueued, event.EventType)
	}
	if event.Source != "lookout" {
		t.Fatalf("expected source lookout, got %s", event.Source)
	}
	if event.SchemaVersion != "1.0" {
		t.Fatalf("expected schema version 1.0, got %s", event.SchemaVersion)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}

func TestClipEventJSONOmitsEmptyFields(t *testing.T) {
	event := NewClipEvent(EventAnalysisCompleted, "lookout", nil)

	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if _, ok := decoded["user_id"]; ok {
		t.Fatal("expected empty user_id to be omitted")
	}
	if _, ok := decoded["stream_id"]; ok {
		t.Fatal("expected nil stream_id to be omitted")
	}
	if decoded["event_type"] != EventAnalysisCompleted {
		t.Fatalf("unexpected event_type: %v", decoded["event_type"])
	}
}
