package analysis

import "sort"

// SelectTop filters candidates below the eligibility threshold, sorts the
// remainder by score descending, and truncates to topN. Ties break on
// trigger count (more first), then start time (earlier first), so the
// output order is deterministic for identical inputs.
func SelectTop(candidates []ClipCandidate, topN int, cfg ScoringConfig) []ClipCandidate {
	eligible := make([]ClipCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= cfg.MinScore {
			eligible = append(eligible, c)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Score != eligible[j].Score {
			return eligible[i].Score > eligible[j].Score
		}
		if len(eligible[i].Triggers) != len(eligible[j].Triggers) {
			return len(eligible[i].Triggers) > len(eligible[j].Triggers)
		}
		return eligible[i].StartTime < eligible[j].StartTime
	})

	if cfg.SuppressOverlaps {
		eligible = suppressOverlaps(eligible)
	}

	if topN > 0 && len(eligible) > topN {
		eligible = eligible[:topN]
	}
	return eligible
}

// suppressOverlaps drops any candidate whose range overlaps an
// already-kept higher-ranked candidate by more than half of its own
// duration. Adjacent sliding windows overlap by construction, so without
// this pass callers can receive near-duplicate clips.
func suppressOverlaps(sorted []ClipCandidate) []ClipCandidate {
	kept := make([]ClipCandidate, 0, len(sorted))
	for _, c := range sorted {
		duplicate := false
		for _, k := range kept {
			if overlapSeconds(c, k) > c.Duration()*0.5 {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}

func overlapSeconds(a, b ClipCandidate) float64 {
	start := a.StartTime
	if b.StartTime > start {
		start = b.StartTime
	}
	end := a.EndTime
	if b.EndTime < end {
		end = b.EndTime
	}
	if end <= start {
		return 0
	}
	return end - start
}
