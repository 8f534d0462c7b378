package analyze

import (
	"math"
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

var (
	dateTerms      = []string{"2023", "2024", "recently", "new study", "latest"}
	authorityTerms = []string{"doctor", "expert", "scientist", "researcher", "study"}
	absoluteTerms  = []string{"all", "never", "always", "every", "none", "completely"}
	urgencyTerms   = []string{"urgent", "breaking", "shocking", "immediately"}
)

// ContentStructureOf measures how specific and complex a claim is
func ContentStructureOf(claimText string, internal model.InternalAnalysis) model.ContentStructure {
	lower := strings.ToLower(claimText)

	indicators := model.ContentIndicators{
		Statistics:      util.HasDigit(claimText) && (strings.Contains(claimText, "%") || strings.Contains(lower, "percent")),
		Dates:           util.ContainsAny(lower, dateTerms),
		Authorities:     util.ContainsAny(lower, authorityTerms),
		AbsoluteTerms:   util.ContainsAny(lower, absoluteTerms),
		UrgencyLanguage: util.ContainsAny(lower, urgencyTerms),
	}

	specificity := float64(indicators.Count() * 2)

	assessment := "Basic"
	if specificity >= 6 {
		assessment = "Detailed"
	} else if specificity >= 3 {
		assessment = "Moderate"
	}

	return model.ContentStructure{
		WordCount:        internal.WordCount,
		ComplexityScore:  math.Min(10, float64(len(strings.Fields(claimText)))/10),
		SpecificityScore: math.Min(10, specificity),
		Indicators:       indicators,
		HasURLs:          internal.HasURLs,
		Assessment:       assessment,
	}
}
