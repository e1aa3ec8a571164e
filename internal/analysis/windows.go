package analysis

import "fmt"

// GenerateCandidates slides a window across the timeline and aggregates
// the signals inside each step into an unscored candidate seed. Windows
// are half-open [start, end); a trailing window shorter than the minimum
// clip duration is dropped.
func GenerateCandidates(duration float64, signals SignalSet, cfg ScoringConfig, rng RandomSource) ([]ClipCandidate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration %v", ErrInvalidTimeRange, duration)
	}
	if duration < MinClipDuration {
		return nil, fmt.Errorf("%w: total %.3fs", ErrDurationTooShort, duration)
	}

	starts := windowStarts(duration, cfg)
	candidates := make([]ClipCandidate, 0, len(starts))
	for _, start := range starts {
		seed, ok := buildSeed(start, duration, signals, cfg, rng)
		if !ok {
			continue
		}
		candidates = append(candidates, seed)
	}
	return candidates, nil
}

// windowStarts returns every window start position for the given duration.
func windowStarts(duration float64, cfg ScoringConfig) []float64 {
	step := cfg.WindowLength - cfg.WindowOverlap
	var starts []float64
	for start := 0.0; start < duration; start += step {
		starts = append(starts, start)
	}
	return starts
}

// buildSeed aggregates the signals within one window into a candidate
// seed. Returns false for windows outside the clip duration bounds.
func buildSeed(start, duration float64, signals SignalSet, cfg ScoringConfig, rng RandomSource) (ClipCandidate, bool) {
	end := start + cfg.WindowLength
	if end > duration {
		end = duration
	}
	if end-start < MinClipDuration || end-start > MaxClipDuration {
		return ClipCandidate{}, false
	}

	features := FeatureBag{FaceDetection: CapabilityNotImplemented}

	var peakTime float64
	var peakStrength float64
	havePeak := false

	for _, ev := range signals.Loudness {
		if ev.Time < start || ev.Time >= end {
			continue
		}
		if ev.Intensity > cfg.LoudnessThreshold {
			features.HasLoudAudio = true
		}
		if ev.Intensity > features.AudioIntensity {
			features.AudioIntensity = ev.Intensity
		}
		if ev.Intensity > peakStrength || !havePeak {
			peakTime, peakStrength, havePeak = ev.Time, ev.Intensity, true
		}
	}
	if features.AudioIntensity == 0 && rng != nil {
		// No loudness data in this window: sample a plausible ambient
		// level. Kept below the loud threshold so it never fires triggers.
		features.AudioIntensity = rng.Float64() * cfg.LoudnessThreshold * 0.5
	}

	var motionPeakTime, motionPeak float64
	haveMotion := false
	for _, ms := range signals.Motion {
		if ms.Time < start || ms.Time >= end {
			continue
		}
		if ms.MotionScore > cfg.MotionThreshold {
			features.HasHighMotion = true
		}
		if ms.MotionScore > features.MotionScore {
			features.MotionScore = ms.MotionScore
		}
		if ms.MotionScore > motionPeak || !haveMotion {
			motionPeakTime, motionPeak, haveMotion = ms.Time, ms.MotionScore, true
		}
	}

	firstScene := -1.0
	for _, sc := range signals.SceneChanges {
		if sc.Time < start || sc.Time >= end {
			continue
		}
		features.HasSceneChange = true
		if firstScene < 0 {
			firstScene = sc.Time
		}
	}

	// Peak moment anchors to the strongest contributing event; the window
	// midpoint is only the last resort.
	peak := start + (end-start)/2
	switch {
	case havePeak:
		peak = peakTime
	case haveMotion:
		peak = motionPeakTime
	case firstScene >= 0:
		peak = firstScene
	}

	features.OptimalLength = cfg.IsOptimalLength(end - start)

	return ClipCandidate{
		StartTime:  start,
		EndTime:    end,
		PeakMoment: peak,
		Features:   features,
	}, true
}
