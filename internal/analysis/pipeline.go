package analysis

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// Engine runs the full scoring pipeline: window generation, trigger
// detection, classification, timing optimization, scoring, and ranking.
// It is pure aside from logging; all state lives in the candidates.
type Engine struct {
	cfg    ScoringConfig
	rng    RandomSource
	logger logging.Logger
}

// NewEngine creates an engine with the given preset and random source.
func NewEngine(cfg ScoringConfig, rng RandomSource, logger logging.Logger) *Engine {
	return &Engine{cfg: cfg, rng: rng, logger: logger}
}

// Config returns the engine's scoring config.
func (e *Engine) Config() ScoringConfig {
	return e.cfg
}

// Analyze runs the pipeline over one source video and returns the ranked
// top candidates. An empty result with a nil error means nothing cleared
// the eligibility threshold.
func (e *Engine) Analyze(duration float64, signals SignalSet) ([]ClipCandidate, error) {
	seeds, err := GenerateCandidates(duration, signals, e.cfg, e.rng)
	if err != nil {
		return nil, err
	}

	enriched := make([]ClipCandidate, 0, len(seeds))
	for _, seed := range seeds {
		c, err := e.enrich(seed, duration)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, c)
	}

	selected := SelectTop(enriched, e.cfg.TopN, e.cfg)
	if e.logger != nil {
		e.logger.WithFields(logging.Fields{
			"preset":     e.cfg.Name,
			"duration":   duration,
			"candidates": len(enriched),
			"selected":   len(selected),
		}).Debug("Analysis complete")
	}
	return selected, nil
}

// AnalyzeParallel splits the window loop across the given number of
// segments and merges before ranking. Each window is independent, so the
// merged result matches a serial run as long as the random source can be
// split deterministically.
func (e *Engine) AnalyzeParallel(duration float64, signals SignalSet, segments int) ([]ClipCandidate, error) {
	if segments <= 1 {
		return e.Analyze(duration, signals)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if duration < MinClipDuration {
		return nil, ErrDurationTooShort
	}

	starts := windowStarts(duration, e.cfg)
	if segments > len(starts) {
		segments = len(starts)
	}

	splitter, _ := e.rng.(SplittableRandomSource)
	results := make([][]ClipCandidate, segments)
	chunk := (len(starts) + segments - 1) / segments

	var g errgroup.Group
	for i := 0; i < segments; i++ {
		i := i
		lo := i * chunk
		hi := lo + chunk
		if hi > len(starts) {
			hi = len(starts)
		}
		rng := e.rng
		if splitter != nil {
			rng = splitter.Split(i)
		}
		g.Go(func() error {
			part := make([]ClipCandidate, 0, hi-lo)
			for _, start := range starts[lo:hi] {
				seed, ok := buildSeed(start, duration, signals, e.cfg, rng)
				if !ok {
					continue
				}
				c, err := e.enrich(seed, duration)
				if err != nil {
					return err
				}
				part = append(part, c)
			}
			results[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []ClipCandidate
	for _, part := range results {
		merged = append(merged, part...)
	}
	return SelectTop(merged, e.cfg.TopN, e.cfg), nil
}

// enrich runs one seed through classification, trigger detection, timing
// optimization, and scoring.
func (e *Engine) enrich(c ClipCandidate, duration float64) (ClipCandidate, error) {
	c.ClipType = Classify(c.Features)
	c.Triggers = DetectTriggers(c.Features, c.ClipType, e.cfg)

	start, end, err := OptimizeTiming(c.StartTime, c.EndTime, c.PeakMoment, duration, e.cfg)
	if err != nil {
		return ClipCandidate{}, err
	}
	c.StartTime, c.EndTime = start, end
	c.refreshDerived(e.cfg)

	timing := timingScore(c.StartTime, c.EndTime, c.PeakMoment, e.cfg)
	c.Score = CalculateScore(c.Features, c.Triggers, c.ClipType, c.Duration(), timing, e.cfg)
	c.Confidence = float64(c.Score) / 100
	c.Reason = BuildReason(c.Score, c.Features, c.Triggers)
	return c, nil
}

// timingScore measures how close the clip sits to the ideal placement of
// a short pre-roll before the peak and a short aftermath after it. 1.0
// means exact; widening or edge clamping erodes it.
func timingScore(start, end, peak float64, cfg ScoringConfig) float64 {
	preDrift := math.Abs((peak - start) - cfg.ContextBuffer)
	postDrift := math.Abs((end - peak) - cfg.AftermathDuration)
	score := 1 - (preDrift+postDrift)/(end-start)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
