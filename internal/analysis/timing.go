package analysis

import "fmt"

// OptimizeTiming applies the "start late, end early" rule: begin shortly
// before the peak moment and end shortly after, bounded by the global clip
// duration limits. The incoming range is validated, never silently clamped.
//
// The returned duration is always within [MinClipDuration, MaxClipDuration]
// whenever totalDuration allows it; sources shorter than MinClipDuration
// yield ErrDurationTooShort instead of a degenerate clip.
func OptimizeTiming(startTime, endTime, peakMoment, totalDuration float64, cfg ScoringConfig) (float64, float64, error) {
	if err := ValidateTimeRange(startTime, endTime); err != nil {
		return 0, 0, err
	}
	if totalDuration < MinClipDuration {
		return 0, 0, fmt.Errorf("%w: total %.3fs", ErrDurationTooShort, totalDuration)
	}

	start := peakMoment - cfg.ContextBuffer
	if start < 0 {
		start = 0
	}
	end := peakMoment + cfg.AftermathDuration
	if end > totalDuration {
		end = totalDuration
	}

	// Widen in 0.5s steps until the clip is long enough; clamping at the
	// source edges means one step may not suffice near the boundaries.
	for end-start < MinClipDuration && (start > 0 || end < totalDuration) {
		start -= 0.5
		if start < 0 {
			start = 0
		}
		end += 0.5
		if end > totalDuration {
			end = totalDuration
		}
	}

	// Over-long clips are re-centred on the peak rather than truncated
	// from one side.
	if end-start > MaxClipDuration {
		half := MaxClipDuration / 2
		start = peakMoment - half
		if start < 0 {
			start = 0
		}
		end = peakMoment + half
		if end > totalDuration {
			end = totalDuration
		}
	}

	return start, end, nil
}
