package analysis

import (
	"reflect"
	"testing"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(EliteConfig(), NewSeededRandom(seed), nil)
}

func TestAnalyzeLoudMotionSpike(t *testing.T) {
	engine := newTestEngine(1)
	signals := SignalSet{
		Loudness: []LoudnessEvent{{Time: 50, Intensity: 0.9}},
		Motion:   []MotionSample{{Time: 50, MotionScore: 90}},
	}

	got, err := engine.Analyze(120, signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one eligible candidate, got %d", len(got))
	}

	c := got[0]
	if c.ClipType != ClipTypeReaction {
		t.Fatalf("expected reaction clip, got %s", c.ClipType)
	}
	if !c.HasTrigger(TriggerShockDisbelief) || !c.HasTrigger(TriggerTimingPerfection) {
		t.Fatalf("expected shock and timing triggers, got %v", c.Triggers)
	}
	if c.Score < 70 {
		t.Fatalf("expected score >= 70, got %d", c.Score)
	}
	if c.StartTime < 49 || c.EndTime > 52 {
		t.Fatalf("expected range inside [49, 52], got [%v, %v]", c.StartTime, c.EndTime)
	}
	if c.Confidence != float64(c.Score)/100 {
		t.Fatalf("confidence %v out of sync with score %d", c.Confidence, c.Score)
	}
}

func TestAnalyzeSilentVideoYieldsNothing(t *testing.T) {
	engine := newTestEngine(1)

	got, err := engine.Analyze(60, SignalSet{})
	if err != nil {
		t.Fatalf("an empty result is success, got error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("base score plus duration bonus must not clear the threshold, got %d candidates", len(got))
	}
}

func TestAnalyzeSceneChangeAloneNotViral(t *testing.T) {
	engine := newTestEngine(1)
	signals := SignalSet{SceneChanges: []SceneChangeEvent{{Time: 10}}}

	got, err := engine.Analyze(60, signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("scene change alone should stay below threshold, got %d candidates", len(got))
	}
}

func TestAnalyzeIdempotentWithSeed(t *testing.T) {
	signals := SimulateSignals(300, NewSeededRandom(99))

	a, err := newTestEngine(42).Analyze(300, signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := newTestEngine(42).Analyze(300, signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical input and seed must yield identical output")
	}
}

func TestAnalyzeCandidateInvariants(t *testing.T) {
	signals := SimulateSignals(600, NewSeededRandom(5))
	engine := newTestEngine(5)

	got, err := engine.Analyze(600, signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range got {
		if c.Score < 0 || c.Score > 100 {
			t.Fatalf("candidate %d: score %d out of bounds", i, c.Score)
		}
		if d := c.Duration(); d < MinClipDuration || d > MaxClipDuration {
			t.Fatalf("candidate %d: duration %v outside [%v, %v]", i, d, MinClipDuration, MaxClipDuration)
		}
		if c.PeakMoment < c.StartTime || c.PeakMoment > c.EndTime {
			t.Fatalf("candidate %d: peak %v outside [%v, %v]", i, c.PeakMoment, c.StartTime, c.EndTime)
		}
		if i > 0 && got[i].Score > got[i-1].Score {
			t.Fatalf("output not sorted by score at index %d", i)
		}
	}
}

func TestAnalyzeParallelMatchesItself(t *testing.T) {
	signals := SimulateSignals(600, NewSeededRandom(8))

	a, err := newTestEngine(21).AnalyzeParallel(600, signals, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := newTestEngine(21).AnalyzeParallel(600, signals, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("segment-parallel analysis must be deterministic for a fixed seed")
	}
}

func TestAnalyzeParallelSingleSegmentMatchesSerial(t *testing.T) {
	signals := SignalSet{
		Loudness: []LoudnessEvent{{Time: 50, Intensity: 0.9}},
		Motion:   []MotionSample{{Time: 50, MotionScore: 90}},
	}

	serial, err := newTestEngine(3).Analyze(120, signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, err := newTestEngine(3).AnalyzeParallel(120, signals, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Fatal("single segment parallel run must match serial run")
	}
}

func TestLegacyPresetUsesWiderWindows(t *testing.T) {
	cfg := LegacyConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("legacy preset invalid: %v", err)
	}

	engine := NewEngine(cfg, NewSeededRandom(1), nil)
	signals := SignalSet{
		Loudness: []LoudnessEvent{{Time: 40, Intensity: 0.95}},
		Motion:   []MotionSample{{Time: 40, MotionScore: 95}},
	}

	got, err := engine.Analyze(120, signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("legacy preset should surface a strong spike")
	}
	for _, c := range got {
		if d := c.Duration(); d < MinClipDuration || d > MaxClipDuration {
			t.Fatalf("legacy clip duration %v outside hard bounds", d)
		}
	}
}

func TestConfigByName(t *testing.T) {
	if cfg, err := ConfigByName(""); err != nil || cfg.Name != "elite" {
		t.Fatalf("empty preset should default to elite, got %v / %v", cfg.Name, err)
	}
	if cfg, err := ConfigByName("legacy"); err != nil || cfg.Name != "legacy" {
		t.Fatalf("expected legacy preset, got %v / %v", cfg.Name, err)
	}
	if _, err := ConfigByName("bogus"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}
