package extractors

import (
	"context"
	"errors"
	"testing"

	"github.com/layomi72/clip-factory-pro/internal/analysis"
)

type stubExtractor struct {
	meta        analysis.VideoMetadata
	metaErr     error
	loudness    []analysis.LoudnessEvent
	loudnessErr error
	scenes      []float64
	scenesErr   error
	motion      []analysis.MotionSample
	motionErr   error
}

func (s *stubExtractor) GetMetadata(ctx context.Context, sourceURL string) (analysis.VideoMetadata, error) {
	return s.meta, s.metaErr
}

func (s *stubExtractor) ExtractLoudness(ctx context.Context, sourceURL string) ([]analysis.LoudnessEvent, error) {
	return s.loudness, s.loudnessErr
}

func (s *stubExtractor) DetectSceneChanges(ctx context.Context, sourceURL string) ([]float64, error) {
	return s.scenes, s.scenesErr
}

func (s *stubExtractor) ExtractMotion(ctx context.Context, sourceURL string) ([]analysis.MotionSample, error) {
	return s.motion, s.motionErr
}

func TestExtractAllPassesThroughHealthySignals(t *testing.T) {
	stub := &stubExtractor{
		meta:     analysis.VideoMetadata{Duration: 120},
		loudness: []analysis.LoudnessEvent{{Time: 10, Intensity: 0.8}},
		scenes:   []float64{30, 60},
		motion:   []analysis.MotionSample{{Time: 10, MotionScore: 70}},
	}
	f := NewFallbackExtractor(stub, analysis.NewSeededRandom(1), nil, nil)

	signals, meta, err := f.ExtractAll(context.Background(), "https://cdn/v.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Duration != 120 {
		t.Fatalf("expected duration 120, got %v", meta.Duration)
	}
	if len(signals.Loudness) != 1 || len(signals.SceneChanges) != 2 || len(signals.Motion) != 1 {
		t.Fatalf("signals not passed through: %+v", signals)
	}
	if signals.SceneChanges[0].Time != 30 {
		t.Fatalf("scene timestamps not converted, got %v", signals.SceneChanges[0].Time)
	}
}

func TestExtractAllSimulatesFailedExtractors(t *testing.T) {
	stub := &stubExtractor{
		meta:        analysis.VideoMetadata{Duration: 120},
		loudnessErr: errors.New("analyzer timeout"),
		motion:      []analysis.MotionSample{{Time: 10, MotionScore: 70}},
	}
	f := NewFallbackExtractor(stub, analysis.NewSeededRandom(1), nil, nil)

	signals, _, err := f.ExtractAll(context.Background(), "https://cdn/v.mp4")
	if err != nil {
		t.Fatalf("extractor failure must be recovered, got %v", err)
	}
	if len(signals.Loudness) == 0 {
		t.Fatal("expected simulated loudness events for the failed extractor")
	}
	// Healthy extractors keep their real output.
	if len(signals.Motion) != 1 || signals.Motion[0].MotionScore != 70 {
		t.Fatalf("real motion samples replaced: %+v", signals.Motion)
	}
}

func TestExtractAllAllExtractorsDown(t *testing.T) {
	boom := errors.New("service unreachable")
	stub := &stubExtractor{
		meta:        analysis.VideoMetadata{Duration: 180},
		loudnessErr: boom,
		scenesErr:   boom,
		motionErr:   boom,
	}
	f := NewFallbackExtractor(stub, analysis.NewSeededRandom(1), nil, nil)

	signals, _, err := f.ExtractAll(context.Background(), "https://cdn/v.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signals.IsEmpty() {
		t.Fatal("full simulation must still produce signals")
	}
}

func TestExtractAllMetadataFailureIsFatal(t *testing.T) {
	stub := &stubExtractor{metaErr: errors.New("probe failed")}
	f := NewFallbackExtractor(stub, analysis.NewSeededRandom(1), nil, nil)

	if _, _, err := f.ExtractAll(context.Background(), "https://cdn/v.mp4"); err == nil {
		t.Fatal("missing duration cannot be recovered, expected error")
	}
}
