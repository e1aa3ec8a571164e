package analysis

// DetectTriggers classifies a candidate's features into zero or more viral
// triggers. Pure function; a candidate may match several rules at once.
//
// Classification runs before detection so the absurdity rule can see the
// clip type directly instead of re-deriving it from the features.
func DetectTriggers(features FeatureBag, clipType ClipType, cfg ScoringConfig) []ViralTrigger {
	var triggers []ViralTrigger

	if features.HasLoudAudio && features.HasHighMotion && features.AudioIntensity > cfg.ShockIntensity {
		triggers = append(triggers, TriggerShockDisbelief)
	}
	if features.HasSceneChange && features.HasHighMotion {
		triggers = append(triggers, TriggerEscalation)
	}
	if features.HasLoudAudio && features.HasHighMotion {
		triggers = append(triggers, TriggerTimingPerfection)
	}
	if clipType == ClipTypeFunny && features.HasLoudAudio {
		triggers = append(triggers, TriggerAbsurdity)
	}

	// status_flex and relatability have no automatic rule; they exist for
	// the metadata caption pools only.

	return triggers
}
