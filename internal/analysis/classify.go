package analysis

// Classify maps a feature bag to a clip type. The priority order is a
// tie-break policy and must not be reordered: loud audio plus motion beats
// motion alone, motion beats audio alone, audio beats a bare scene change.
func Classify(features FeatureBag) ClipType {
	switch {
	case features.HasLoudAudio && features.HasHighMotion:
		return ClipTypeReaction
	case features.HasHighMotion:
		return ClipTypeAction
	case features.HasLoudAudio:
		return ClipTypeFunny
	case features.HasSceneChange:
		return ClipTypeDramatic
	default:
		return ClipTypeHighlight
	}
}
