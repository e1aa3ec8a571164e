package analysis

import "testing"

func TestSelectTopSortsAndTruncates(t *testing.T) {
	cfg := EliteConfig()
	candidates := []ClipCandidate{
		{StartTime: 0, EndTime: 8, Score: 72},
		{StartTime: 20, EndTime: 28, Score: 95},
		{StartTime: 40, EndTime: 48, Score: 50},
		{StartTime: 60, EndTime: 68, Score: 81},
	}

	got := SelectTop(candidates, 2, cfg)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Score != 95 || got[1].Score != 81 {
		t.Fatalf("expected scores [95, 81], got [%d, %d]", got[0].Score, got[1].Score)
	}
}

func TestSelectTopFiltersBelowThreshold(t *testing.T) {
	cfg := EliteConfig()
	candidates := []ClipCandidate{
		{Score: 69},
		{Score: cfg.MinScore},
		{Score: 30},
	}

	got := SelectTop(candidates, 10, cfg)
	if len(got) != 1 {
		t.Fatalf("expected only the threshold candidate, got %d results", len(got))
	}
	if got[0].Score != cfg.MinScore {
		t.Fatalf("expected score %d, got %d", cfg.MinScore, got[0].Score)
	}
}

func TestSelectTopTieBreaks(t *testing.T) {
	cfg := EliteConfig()
	candidates := []ClipCandidate{
		{StartTime: 30, EndTime: 38, Score: 85},
		{StartTime: 10, EndTime: 18, Score: 85, Triggers: []ViralTrigger{TriggerShockDisbelief, TriggerTimingPerfection}},
		{StartTime: 20, EndTime: 28, Score: 85, Triggers: []ViralTrigger{TriggerEscalation}},
		{StartTime: 5, EndTime: 13, Score: 85},
	}

	got := SelectTop(candidates, 10, cfg)
	if len(got) != 4 {
		t.Fatalf("expected 4 results, got %d", len(got))
	}
	// More triggers first, then earlier start time.
	if got[0].StartTime != 10 || got[1].StartTime != 20 {
		t.Fatalf("trigger count tie-break violated: starts [%v, %v]", got[0].StartTime, got[1].StartTime)
	}
	if got[2].StartTime != 5 || got[3].StartTime != 30 {
		t.Fatalf("start time tie-break violated: starts [%v, %v]", got[2].StartTime, got[3].StartTime)
	}
}

func TestSelectTopOutputSortedNonIncreasing(t *testing.T) {
	cfg := EliteConfig()
	var candidates []ClipCandidate
	for i := 0; i < 50; i++ {
		candidates = append(candidates, ClipCandidate{
			StartTime: float64(i * 7),
			EndTime:   float64(i*7 + 8),
			Score:     60 + (i*13)%41,
		})
	}

	got := SelectTop(candidates, 20, cfg)
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("output not sorted at index %d: %d > %d", i, got[i].Score, got[i-1].Score)
		}
	}
	for _, c := range got {
		if c.Score < cfg.MinScore {
			t.Fatalf("ineligible candidate with score %d survived selection", c.Score)
		}
	}
}

func TestSelectTopOverlapSuppression(t *testing.T) {
	cfg := EliteConfig()
	cfg.SuppressOverlaps = true
	candidates := []ClipCandidate{
		{StartTime: 10, EndTime: 20, Score: 90},
		// Overlaps the winner by 8 of its 10 seconds.
		{StartTime: 12, EndTime: 22, Score: 80},
		// Overlaps by only 2 seconds, kept.
		{StartTime: 18, EndTime: 28, Score: 75},
	}

	got := SelectTop(candidates, 10, cfg)
	if len(got) != 2 {
		t.Fatalf("expected duplicate suppressed, got %d results", len(got))
	}
	if got[0].StartTime != 10 || got[1].StartTime != 18 {
		t.Fatalf("unexpected survivors: [%v, %v]", got[0].StartTime, got[1].StartTime)
	}
}

func TestSelectTopOverlapSuppressionOffByDefault(t *testing.T) {
	cfg := EliteConfig()
	candidates := []ClipCandidate{
		{StartTime: 10, EndTime: 20, Score: 90},
		{StartTime: 12, EndTime: 22, Score: 80},
	}

	if got := SelectTop(candidates, 10, cfg); len(got) != 2 {
		t.Fatalf("suppression must be opt-in, got %d results", len(got))
	}
}
