package analyze

import (
	"math"
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
)

// ReliabilityTier classifies a fact-check publisher
type ReliabilityTier string

const (
	TierHigh    ReliabilityTier = "high"    // Wire services, health/science agencies, fact-checkers
	TierMedium  ReliabilityTier = "medium"  // Major news outlets
	TierUnknown ReliabilityTier = "unknown" // Anything else
)

// SourceClassifier classifies publisher names into reliability tiers
type SourceClassifier struct {
	high   []string
	medium []string
}

// NewSourceClassifier creates a classifier from the configured tier lists.
// A nil config falls back to the built-in lists.
func NewSourceClassifier(config *model.ScoringConfig) *SourceClassifier {
	if config == nil {
		config = &model.DefaultConfig().Scoring
	}

	return &SourceClassifier{
		high:   nonEmpty(config.HighReliabilitySources),
		medium: nonEmpty(config.MediumReliabilitySources),
	}
}

// Classify returns the tier of a publisher name.
// Matching is case-sensitive substring: "Reuters Fact Check" is high tier.
func (c *SourceClassifier) Classify(source string) ReliabilityTier {
	if c.matches(source, c.high) {
		return TierHigh
	}
	if c.matches(source, c.medium) {
		return TierMedium
	}
	return TierUnknown
}

// Reliability scores a list of publisher names. Each source is counted
// independently against both lists, so duplicates count twice.
func (c *SourceClassifier) Reliability(sources []string) model.SourceReliability {
	total := len(sources)
	high, medium := 0, 0

	for _, source := range sources {
		if c.matches(source, c.high) {
			high++
		}
		if c.matches(source, c.medium) {
			medium++
		}
	}

	score := 0.0
	if total > 0 {
		score = float64(high*10+medium*6) / float64(total)
	}

	return model.SourceReliability{
		TotalSources:      total,
		HighReliability:   high,
		MediumReliability: medium,
		Score:             math.Min(10, score),
		Assessment:        tierLabel(score, 8, 5),
	}
}

func (c *SourceClassifier) matches(source string, names []string) bool {
	for _, name := range names {
		if strings.Contains(source, name) {
			return true
		}
	}
	return false
}

// tierLabel maps a score onto High/Medium/Low using inclusive thresholds
func tierLabel(score, high, medium float64) string {
	switch {
	case score >= high:
		return "High"
	case score >= medium:
		return "Medium"
	default:
		return "Low"
	}
}

// nonEmpty drops blank entries; an empty name would match every source
func nonEmpty(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out
}
