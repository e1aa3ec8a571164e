package analysis

import "strings"

var titlePools = map[ClipType][]string{
	ClipTypeReaction: {
		"HIS REACTION IS INSANE",
		"WAIT FOR IT...",
		"He didn't see this coming",
		"This reaction says it all",
	},
	ClipTypeAction: {
		"HE DID WHAT?!",
		"This is too crazy",
		"You have to see this",
		"This went 0 to 100",
	},
	ClipTypeFunny: {
		"I'm crying",
		"This is too funny",
		"I can't stop laughing",
		"Comedy gold",
	},
	ClipTypeDramatic: {
		"The tension is REAL",
		"This escalated fast",
		"It keeps getting worse",
		"Things got intense",
	},
	ClipTypeHighlight: {
		"THIS IS THE MOMENT",
		"Best moment ever",
		"Legendary clip",
		"Peak content",
	},
}

var captionPools = map[ClipType][]string{
	ClipTypeReaction: {
		"Wait for the reaction...",
		"His face says it all",
		"Nah this is too much",
	},
	ClipTypeAction: {
		"It keeps getting crazier",
		"Nobody expected this",
		"This is wild fr",
	},
	ClipTypeFunny: {
		"I can't with this",
		"Peak comedy right here",
		"Send this to someone who needs to laugh",
	},
	ClipTypeDramatic: {
		"The tension is unreal",
		"It just keeps escalating...",
		"Bro what is happening",
	},
	ClipTypeHighlight: {
		"This is the one",
		"Legendary moment",
		"Peak content right here",
	},
}

const escalationOverlay = "IT KEEPS ESCALATING"

// MetadataGenerator produces a title/caption/hashtag bundle per selected
// clip. Pool picks go through the injected RandomSource so a seeded run
// is fully reproducible.
type MetadataGenerator struct {
	rng RandomSource
}

// NewMetadataGenerator creates a metadata generator backed by rng.
func NewMetadataGenerator(rng RandomSource) *MetadataGenerator {
	return &MetadataGenerator{rng: rng}
}

// Generate builds the metadata bundle for a finalized candidate.
func (g *MetadataGenerator) Generate(c ClipCandidate) ClipMetadata {
	title := g.pick(titlePools, c.ClipType)
	hashtags := HashtagsForType(c.ClipType)
	caption := g.pick(captionPools, c.ClipType) + "\n\n" + strings.Join(hashtags, " ")

	// The primary overlay lands just after the clip opens so it survives
	// platform auto-crops of the first frames.
	overlays := []OnScreenText{{Time: 0.3, Text: title, Duration: 2.0}}
	if c.HasTrigger(TriggerEscalation) && c.PeakMoment > 1.5 {
		overlays = append(overlays, OnScreenText{
			Time:     c.PeakMoment - 0.5,
			Text:     escalationOverlay,
			Duration: 1.5,
		})
	}

	return ClipMetadata{
		Title:        title,
		Caption:      caption,
		Hashtags:     hashtags,
		OnScreenText: overlays,
	}
}

func (g *MetadataGenerator) pick(pools map[ClipType][]string, clipType ClipType) string {
	pool, ok := pools[clipType]
	if !ok {
		pool = pools[ClipTypeHighlight]
	}
	return pool[g.rng.Intn(len(pool))]
}

// HashtagsForType returns the fixed per-type hashtag list.
func HashtagsForType(clipType ClipType) []string {
	typed := "#reaction"
	if clipType == ClipTypeFunny {
		typed = "#funny"
	}
	return []string{"#viral", "#fyp", "#foryou", typed, "#trending", "#clip"}
}

// ExtractHashtags pulls every #word token out of a caption, preserving
// order of first appearance.
func ExtractHashtags(caption string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, field := range strings.Fields(caption) {
		if !strings.HasPrefix(field, "#") || len(field) < 2 {
			continue
		}
		tag := strings.TrimRight(field, ".,!?")
		if len(tag) < 2 || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
