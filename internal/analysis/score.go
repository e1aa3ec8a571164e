package analysis

import (
	"math"
	"strings"
)

// CalculateScore maps a candidate's features, triggers, type, and duration
// into a 0..100 integer viral score. Additive and bounded; timingScore is
// a 0..1 measure of how well the clip is centred on its peak.
func CalculateScore(features FeatureBag, triggers []ViralTrigger, clipType ClipType, duration, timingScore float64, cfg ScoringConfig) int {
	w := cfg.Weights
	score := float64(cfg.BaseScore)

	for _, t := range triggers {
		switch t {
		case TriggerShockDisbelief:
			score += float64(w.ShockDisbelief)
		case TriggerEscalation:
			score += float64(w.Escalation)
		case TriggerTimingPerfection:
			score += float64(w.TimingPerfection)
		case TriggerAbsurdity:
			score += float64(w.Absurdity)
		case TriggerStatusFlex:
			score += float64(w.StatusFlex)
		case TriggerRelatability:
			score += float64(w.Relatability)
		}
	}
	if len(triggers) >= 2 {
		score += float64(w.TriggerStacking)
	}

	score += math.Round(timingScore * float64(w.TimingMax))

	if features.HasLoudAudio {
		score += float64(w.LoudAudio)
	}
	if features.HasHighMotion {
		score += float64(w.HighMotion)
	}
	if features.HasSceneChange {
		score += float64(w.SceneChange)
	}

	switch {
	case duration >= MinClipDuration && duration <= 15:
		score += float64(w.OptimalDuration)
	case duration > 15 && duration <= MaxClipDuration:
		score += float64(w.AcceptableDuration)
	case duration > MaxClipDuration:
		score += float64(w.OverlongPenalty)
	}

	switch clipType {
	case ClipTypeReaction:
		score += float64(w.ReactionType)
	case ClipTypeFunny:
		score += float64(w.FunnyType)
	}

	final := int(math.Round(score))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	return final
}

// BuildReason produces the human-readable explanation attached to a
// candidate.
func BuildReason(score int, features FeatureBag, triggers []ViralTrigger) string {
	var reasons []string

	for _, t := range triggers {
		switch t {
		case TriggerShockDisbelief:
			reasons = append(reasons, "Shock moment")
		case TriggerEscalation:
			reasons = append(reasons, "Escalation pattern")
		case TriggerTimingPerfection:
			reasons = append(reasons, "Perfect timing")
		case TriggerAbsurdity:
			reasons = append(reasons, "Absurd moment")
		case TriggerStatusFlex:
			reasons = append(reasons, "Status flex")
		case TriggerRelatability:
			reasons = append(reasons, "Highly relatable")
		}
	}
	if features.HasLoudAudio {
		reasons = append(reasons, "High energy")
	}
	if features.HasHighMotion {
		reasons = append(reasons, "Physical reaction")
	}
	if features.OptimalLength {
		reasons = append(reasons, "Elite length")
	}

	joined := strings.Join(reasons, ", ")
	switch {
	case score >= 90 && joined != "":
		return "ELITE: " + joined
	case score >= 80 && joined != "":
		return "High potential: " + joined
	case joined != "":
		return "Good clip: " + joined
	case score > 80:
		return "Excellent viral potential"
	default:
		return "Good clip"
	}
}
