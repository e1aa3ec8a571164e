package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidTimeRange is returned when a time range is negative or inverted.
var ErrInvalidTimeRange = errors.New("invalid time range")

// ErrDurationTooShort is returned when the source video is shorter than
// the minimum clip duration.
var ErrDurationTooShort = errors.New("source duration shorter than minimum clip duration")

// LoudnessEvent marks a loud audio moment. Intensity is normalized; higher
// is louder.
type LoudnessEvent struct {
	Time      float64 `json:"time"`
	Intensity float64 `json:"intensity"`
}

// SceneChangeEvent marks an instant where visual content changed abruptly.
type SceneChangeEvent struct {
	Time float64 `json:"time"`
}

// MotionSample carries local motion intensity on a 0..100 scale.
type MotionSample struct {
	Time        float64 `json:"time"`
	MotionScore float64 `json:"motionScore"`
}

// SignalSet bundles the three extractor outputs for one source video.
// Events are ordered ascending by time and read-only after extraction.
type SignalSet struct {
	Loudness     []LoudnessEvent
	SceneChanges []SceneChangeEvent
	Motion       []MotionSample
}

// IsEmpty reports whether no extractor produced any events.
func (s SignalSet) IsEmpty() bool {
	return len(s.Loudness) == 0 && len(s.SceneChanges) == 0 && len(s.Motion) == 0
}

// VideoMetadata describes the source media. Duration is mandatory input to
// the window generator; the rest is informational.
type VideoMetadata struct {
	Duration    float64 `json:"duration"`
	FPS         float64 `json:"fps,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	BitrateKbps int     `json:"bitrateKbps,omitempty"`
}

// ValidateTimeRange rejects negative or inverted ranges. Ranges are never
// silently clamped.
func ValidateTimeRange(start, end float64) error {
	if start < 0 || end < 0 {
		return fmt.Errorf("%w: negative bound [%v, %v]", ErrInvalidTimeRange, start, end)
	}
	if end <= start {
		return fmt.Errorf("%w: end %v must be greater than start %v", ErrInvalidTimeRange, end, start)
	}
	return nil
}
