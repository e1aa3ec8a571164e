package analysis

// SimulateSignals synthesizes a plausible signal set for a source video
// when the real extractors are unavailable. Analysis must still produce
// candidates in that case, so the fallback fabricates loudness spikes,
// motion bursts, and scene changes across the timeline. With a seeded
// RandomSource the output is fully reproducible.
func SimulateSignals(duration float64, rng RandomSource) SignalSet {
	var signals SignalSet
	if duration <= 0 || rng == nil {
		return signals
	}

	// Roughly one loudness spike every 8-12 seconds.
	for t := 2.0; t < duration; t += 8 + rng.Float64()*4 {
		signals.Loudness = append(signals.Loudness, LoudnessEvent{
			Time:      t,
			Intensity: 0.5 + rng.Float64()*0.5,
		})
	}

	// A motion sample every 2 seconds with occasional bursts.
	for t := 0.0; t < duration; t += 2 {
		score := rng.Float64() * 60
		if rng.Intn(4) == 0 {
			score = 60 + rng.Float64()*40
		}
		signals.Motion = append(signals.Motion, MotionSample{
			Time:        t,
			MotionScore: score,
		})
	}

	// Scene cuts every 15-25 seconds.
	for t := 10.0; t < duration; t += 15 + rng.Float64()*10 {
		signals.SceneChanges = append(signals.SceneChanges, SceneChangeEvent{Time: t})
	}

	return signals
}
