package analysis

import "testing"

func TestDetectTriggers(t *testing.T) {
	cfg := EliteConfig()

	tests := []struct {
		name     string
		features FeatureBag
		clipType ClipType
		want     []ViralTrigger
	}{
		{
			name:     "shock requires very loud audio",
			features: FeatureBag{HasLoudAudio: true, HasHighMotion: true, AudioIntensity: 0.9},
			clipType: ClipTypeReaction,
			want:     []ViralTrigger{TriggerShockDisbelief, TriggerTimingPerfection},
		},
		{
			name:     "loud plus motion below shock intensity",
			features: FeatureBag{HasLoudAudio: true, HasHighMotion: true, AudioIntensity: 0.7},
			clipType: ClipTypeReaction,
			want:     []ViralTrigger{TriggerTimingPerfection},
		},
		{
			name:     "scene change plus motion escalates",
			features: FeatureBag{HasSceneChange: true, HasHighMotion: true},
			clipType: ClipTypeAction,
			want:     []ViralTrigger{TriggerEscalation},
		},
		{
			name:     "funny loud clip is absurd",
			features: FeatureBag{HasLoudAudio: true, AudioIntensity: 0.7},
			clipType: ClipTypeFunny,
			want:     []ViralTrigger{TriggerAbsurdity},
		},
		{
			name:     "scene change alone triggers nothing",
			features: FeatureBag{HasSceneChange: true},
			clipType: ClipTypeDramatic,
			want:     nil,
		},
		{
			name:     "everything at once",
			features: FeatureBag{HasLoudAudio: true, HasHighMotion: true, HasSceneChange: true, AudioIntensity: 0.95},
			clipType: ClipTypeReaction,
			want:     []ViralTrigger{TriggerShockDisbelief, TriggerEscalation, TriggerTimingPerfection},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTriggers(tt.features, tt.clipType, cfg)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestReservedTriggersNeverAutoDetected(t *testing.T) {
	cfg := EliteConfig()
	features := FeatureBag{HasLoudAudio: true, HasHighMotion: true, HasSceneChange: true, AudioIntensity: 1.0}

	for _, clipType := range []ClipType{ClipTypeReaction, ClipTypeAction, ClipTypeFunny, ClipTypeDramatic, ClipTypeHighlight} {
		for _, trigger := range DetectTriggers(features, clipType, cfg) {
			if trigger == TriggerStatusFlex || trigger == TriggerRelatability {
				t.Fatalf("reserved trigger %s should never be auto-detected", trigger)
			}
		}
	}
}
