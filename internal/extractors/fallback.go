package extractors

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/layomi72/clip-factory-pro/internal/analysis"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// FallbackExtractor wraps a primary extractor and substitutes simulated
// signals for whichever individual extractor fails. Analysis must still
// produce candidates when no real analyzer is reachable, so extraction
// errors are recovered here and never surfaced to the caller. Metadata is
// the exception: without a duration there is nothing to analyze.
type FallbackExtractor struct {
	primary   SignalExtractor
	rng       analysis.RandomSource
	logger    logging.Logger
	fallbacks *prometheus.CounterVec
}

// NewFallbackExtractor wraps primary with simulation-on-failure. The
// fallbacks counter is optional.
func NewFallbackExtractor(primary SignalExtractor, rng analysis.RandomSource, logger logging.Logger, fallbacks *prometheus.CounterVec) *FallbackExtractor {
	return &FallbackExtractor{
		primary:   primary,
		rng:       rng,
		logger:    logger,
		fallbacks: fallbacks,
	}
}

// ExtractAll fetches metadata and all three signal series. The three
// extractors run concurrently; each failure is replaced by the matching
// series from one simulated signal set.
func (f *FallbackExtractor) ExtractAll(ctx context.Context, sourceURL string) (analysis.SignalSet, analysis.VideoMetadata, error) {
	meta, err := f.primary.GetMetadata(ctx, sourceURL)
	if err != nil {
		return analysis.SignalSet{}, analysis.VideoMetadata{}, err
	}

	var (
		signals  analysis.SignalSet
		scenes   []float64
		errLoud  error
		errScene error
		errMove  error
		wg       sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		signals.Loudness, errLoud = f.primary.ExtractLoudness(ctx, sourceURL)
	}()
	go func() {
		defer wg.Done()
		scenes, errScene = f.primary.DetectSceneChanges(ctx, sourceURL)
	}()
	go func() {
		defer wg.Done()
		signals.Motion, errMove = f.primary.ExtractMotion(ctx, sourceURL)
	}()
	wg.Wait()

	for _, t := range scenes {
		signals.SceneChanges = append(signals.SceneChanges, analysis.SceneChangeEvent{Time: t})
	}

	if errLoud != nil || errScene != nil || errMove != nil {
		simulated := analysis.SimulateSignals(meta.Duration, f.rng)
		if errLoud != nil {
			f.recover("loudness", errLoud)
			signals.Loudness = simulated.Loudness
		}
		if errScene != nil {
			f.recover("scenes", errScene)
			signals.SceneChanges = simulated.SceneChanges
		}
		if errMove != nil {
			f.recover("motion", errMove)
			signals.Motion = simulated.Motion
		}
	}

	return signals, meta, nil
}

func (f *FallbackExtractor) recover(extractor string, err error) {
	if f.logger != nil {
		f.logger.WithError(err).WithField("extractor", extractor).Warn("Extractor failed, using simulated signals")
	}
	if f.fallbacks != nil {
		f.fallbacks.WithLabelValues(extractor).Inc()
	}
}
