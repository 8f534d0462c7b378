package analyze

import (
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

var (
	emotionalTerms = []string{
		"amazing", "shocking", "unbelievable", "incredible", "miracle",
		"secret", "hidden", "they don't want", "conspiracy",
	}
	scientificTerms = []string{
		"study", "research", "evidence", "data", "analysis", "peer-reviewed",
		"clinical", "scientific", "published",
	}
	hedgeTerms = []string{
		"might", "could", "possibly", "potentially", "suggests", "indicates",
		"appears", "seems",
	}
	certaintyTerms = []string{
		"proves", "confirms", "definitely", "certainly", "guaranteed",
		"absolutely", "without doubt",
	}
)

// LanguagePatternOf scores the rhetorical register of a claim.
// The assessment tier reads the raw value; the reported score is raw+5 clamped.
func LanguagePatternOf(claimText string) model.LanguagePattern {
	lower := strings.ToLower(claimText)

	p := model.LanguagePattern{
		Emotional:  util.ContainsAny(lower, emotionalTerms),
		Scientific: util.ContainsAny(lower, scientificTerms),
		Hedge:      util.ContainsAny(lower, hedgeTerms),
		Certainty:  util.ContainsAny(lower, certaintyTerms),
	}

	raw := 0
	if p.Scientific {
		raw += 3
	}
	if p.Hedge {
		raw += 2
	}
	if p.Emotional {
		raw -= 2
	}
	if p.Certainty {
		raw--
	}

	p.RawScore = raw
	p.Score = clamp(float64(raw+5), 0, 10)

	switch {
	case raw >= 3:
		p.Assessment = "Objective"
	case raw >= 0:
		p.Assessment = "Neutral"
	default:
		p.Assessment = "Subjective"
	}

	return p
}
