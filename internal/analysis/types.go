package analysis

// ViralTrigger tags a candidate with a discrete emotional/structural pattern.
type ViralTrigger string

const (
	TriggerShockDisbelief   ViralTrigger = "shock_disbelief"
	TriggerEscalation       ViralTrigger = "escalation"
	TriggerTimingPerfection ViralTrigger = "timing_perfection"
	TriggerAbsurdity        ViralTrigger = "absurdity"

	// Reserved categories: no automatic detection rule yet, kept for the
	// metadata caption pools and forward compatibility.
	TriggerStatusFlex   ViralTrigger = "status_flex"
	TriggerRelatability ViralTrigger = "relatability"
)

// ClipType is the mutually exclusive clip category.
type ClipType string

const (
	ClipTypeReaction  ClipType = "reaction"
	ClipTypeAction    ClipType = "action"
	ClipTypeFunny     ClipType = "funny"
	ClipTypeDramatic  ClipType = "dramatic"
	ClipTypeHighlight ClipType = "highlight"
)

// Capability tracks whether a detector is wired up at all, distinct from
// whether it detected anything.
type Capability string

const (
	CapabilityNotImplemented Capability = "not_implemented"
	CapabilityDetected       Capability = "detected"
	CapabilityAbsent         Capability = "absent"
)

// FeatureBag summarizes the signals inside one candidate window.
type FeatureBag struct {
	HasLoudAudio   bool    `json:"hasLoudAudio"`
	HasSceneChange bool    `json:"hasSceneChange"`
	HasHighMotion  bool    `json:"hasHighMotion"`
	HasFaces       bool    `json:"hasFaces"`
	OptimalLength  bool    `json:"optimalLength"`
	AudioIntensity float64 `json:"audioIntensity"`
	MotionScore    float64 `json:"motionScore"`

	// FaceDetection stays not_implemented until a face extractor exists,
	// so tests can tell "not wired" from "detected absent".
	FaceDetection Capability `json:"-"`
}

// ClipCandidate is one scored time slice of the source video. It is
// enriched in place by the pipeline stages and treated as immutable once
// it enters ranking.
type ClipCandidate struct {
	StartTime  float64        `json:"startTime"`
	EndTime    float64        `json:"endTime"`
	PeakMoment float64        `json:"peakMoment"`
	Features   FeatureBag     `json:"features"`
	Triggers   []ViralTrigger `json:"triggers"`
	ClipType   ClipType       `json:"type"`
	Score      int            `json:"score"`
	Confidence float64        `json:"confidence"`
	Reason     string         `json:"reason"`
}

// Duration returns the candidate's length in seconds.
func (c ClipCandidate) Duration() float64 {
	return c.EndTime - c.StartTime
}

// HasTrigger reports whether the candidate carries the given trigger.
func (c ClipCandidate) HasTrigger(t ViralTrigger) bool {
	for _, got := range c.Triggers {
		if got == t {
			return true
		}
	}
	return false
}

// refreshDerived recomputes fields that depend on the time range. Must be
// called after any stage that moves startTime or endTime.
func (c *ClipCandidate) refreshDerived(cfg ScoringConfig) {
	c.Features.OptimalLength = cfg.IsOptimalLength(c.Duration())
}

// OnScreenText is one timed text overlay inside a clip.
type OnScreenText struct {
	Time     float64 `json:"time"`
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
}

// ClipMetadata is the title/caption/hashtag bundle generated for a
// finalized candidate.
type ClipMetadata struct {
	Title        string         `json:"title"`
	Caption      string         `json:"caption"`
	Hashtags     []string       `json:"hashtags"`
	OnScreenText []OnScreenText `json:"onScreenText"`
}
