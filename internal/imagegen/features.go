package imagegen

import (
	"strings"

	"visualizer/internal/domain"
)

// FeatureExtractor turns a free-text photo description into PhotoFeatures.
type FeatureExtractor interface {
	Extract(description string) domain.PhotoFeatures
}

// KeywordExtractor flags features by case-insensitive substring search.
type KeywordExtractor struct {
	DrawersMissing    []string
	AngledPhoto       []string
	ArchedDoors       []string
	NeedsCleanup      []string
	WarpedPerspective []string
}

// NewKeywordExtractor returns an extractor loaded with the default word lists.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		DrawersMissing:    []string{"missing", "no drawer", "empty"},
		AngledPhoto:       []string{"angle", "corner", "perspective"},
		ArchedDoors:       []string{"arch", "raised panel", "cathedral"},
		NeedsCleanup:      []string{"dirty", "tape", "debris", "mess"},
		WarpedPerspective: []string{"distort", "warp", "fisheye"},
	}
}

// Extract implements FeatureExtractor. Warm lighting wins over cool when a
// description mentions both.
func (k *KeywordExtractor) Extract(description string) domain.PhotoFeatures {
	lower := strings.ToLower(description)
	lighting := domain.LightingNeutral
	switch {
	case strings.Contains(lower, "warm"):
		lighting = domain.LightingWarm
	case strings.Contains(lower, "cool"):
		lighting = domain.LightingCool
	}
	return domain.PhotoFeatures{
		Description:       description,
		DrawersMissing:    containsAny(lower, k.DrawersMissing),
		IsAngledPhoto:     containsAny(lower, k.AngledPhoto),
		HasArchedDoors:    containsAny(lower, k.ArchedDoors),
		Lighting:          lighting,
		NeedsCleanup:      containsAny(lower, k.NeedsCleanup),
		WarpedPerspective: containsAny(lower, k.WarpedPerspective),
	}
}

var _ FeatureExtractor = (*KeywordExtractor)(nil)

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
