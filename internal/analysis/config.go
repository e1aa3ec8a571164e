package analysis

import "fmt"

// Hard duration bounds for any emitted clip, in seconds.
const (
	MinClipDuration = 3.0
	MaxClipDuration = 30.0
)

// ScoreWeights holds the additive scoring model weights.
type ScoreWeights struct {
	ShockDisbelief   int
	Escalation       int
	TimingPerfection int
	Absurdity        int
	StatusFlex       int
	Relatability     int

	// TriggerStacking is added when two or more triggers fire together.
	TriggerStacking int

	LoudAudio   int
	HighMotion  int
	SceneChange int

	OptimalDuration    int
	AcceptableDuration int
	OverlongPenalty    int

	ReactionType int
	FunnyType    int

	// TimingMax scales the 0..1 timing score.
	TimingMax int
}

// ScoringConfig consolidates every tunable of the scoring pipeline.
// Instances are immutable once built; pass by value.
type ScoringConfig struct {
	Name string

	// Sliding window geometry, in seconds.
	WindowLength  float64
	WindowOverlap float64

	// Optimal clip length range for the duration bonus, inclusive.
	OptimalMinLength float64
	OptimalMaxLength float64

	// Signal thresholds.
	LoudnessThreshold float64
	MotionThreshold   float64
	ShockIntensity    float64

	// Timing optimizer buffers.
	ContextBuffer     float64
	AftermathDuration float64

	BaseScore int

	// MinScore is the lowest score retained as output-eligible, inclusive.
	MinScore int

	TopN int

	// SuppressOverlaps drops a lower-scoring candidate whose time range
	// overlaps a higher-scoring one by more than half its own duration.
	SuppressOverlaps bool

	Weights ScoreWeights
}

func defaultWeights() ScoreWeights {
	return ScoreWeights{
		ShockDisbelief:     25,
		Escalation:         20,
		TimingPerfection:   15,
		Absurdity:          15,
		StatusFlex:         15,
		Relatability:       10,
		TriggerStacking:    10,
		LoudAudio:          10,
		HighMotion:         8,
		SceneChange:        5,
		OptimalDuration:    15,
		AcceptableDuration: 8,
		OverlongPenalty:    -10,
		ReactionType:       10,
		FunnyType:          8,
		TimingMax:          10,
	}
}

// EliteConfig is the primary preset: short windows, tight clips, high bar.
func EliteConfig() ScoringConfig {
	return ScoringConfig{
		Name:              "elite",
		WindowLength:      8,
		WindowOverlap:     1,
		OptimalMinLength:  3,
		OptimalMaxLength:  15,
		LoudnessThreshold: 0.6,
		MotionThreshold:   60,
		ShockIntensity:    0.8,
		ContextBuffer:     1.0,
		AftermathDuration: 2.0,
		BaseScore:         30,
		MinScore:          70,
		TopN:              10,
		Weights:           defaultWeights(),
	}
}

// LegacyConfig is the extended preset kept for longer-form clips.
func LegacyConfig() ScoringConfig {
	return ScoringConfig{
		Name:              "legacy",
		WindowLength:      30,
		WindowOverlap:     5,
		OptimalMinLength:  15,
		OptimalMaxLength:  60,
		LoudnessThreshold: 0.6,
		MotionThreshold:   60,
		ShockIntensity:    0.8,
		ContextBuffer:     1.0,
		AftermathDuration: 2.0,
		BaseScore:         40,
		MinScore:          61,
		TopN:              10,
		Weights:           defaultWeights(),
	}
}

// ConfigByName resolves a preset name to its config.
func ConfigByName(name string) (ScoringConfig, error) {
	switch name {
	case "", "elite":
		return EliteConfig(), nil
	case "legacy":
		return LegacyConfig(), nil
	default:
		return ScoringConfig{}, fmt.Errorf("unknown scoring preset %q", name)
	}
}

// Validate checks that the config can drive the window loop.
func (c ScoringConfig) Validate() error {
	if c.WindowLength <= 0 {
		return fmt.Errorf("window length must be positive, got %v", c.WindowLength)
	}
	if c.WindowOverlap < 0 || c.WindowOverlap >= c.WindowLength {
		return fmt.Errorf("window overlap %v must be in [0, %v)", c.WindowOverlap, c.WindowLength)
	}
	if c.OptimalMinLength > c.OptimalMaxLength {
		return fmt.Errorf("optimal length range [%v, %v] is inverted", c.OptimalMinLength, c.OptimalMaxLength)
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min score %d must be in [0, 100]", c.MinScore)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("topN must be positive, got %d", c.TopN)
	}
	return nil
}

// IsOptimalLength reports whether a clip duration falls in the preset's
// optimal range, inclusive on both ends.
func (c ScoringConfig) IsOptimalLength(duration float64) bool {
	return duration >= c.OptimalMinLength && duration <= c.OptimalMaxLength
}
