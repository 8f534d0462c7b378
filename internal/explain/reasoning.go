// Package explain turns a scored claim into human-readable text:
// reasoning, supporting facts and a short factual news narrative.
package explain

import (
	"fmt"
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
)

// maxListedSources caps how many publishers the reasoning names
const maxListedSources = 3

// Reasoning builds the one-paragraph explanation of a score
func Reasoning(ext model.ExternalResultSet, internal model.InternalAnalysis, score float64) string {
	var parts []string

	if n := len(ext.Claims); n > 0 {
		parts = append(parts, fmt.Sprintf("Found %d external fact-check(s) for similar claims.", n))
		if len(ext.Sources) > 0 {
			sources := ext.Sources
			if len(sources) > maxListedSources {
				sources = sources[:maxListedSources]
			}
			parts = append(parts, fmt.Sprintf("Sources include: %s.", strings.Join(sources, ", ")))
		}
	} else {
		parts = append(parts, "No external fact-checks found for this specific claim.")
	}

	if internal.HasExtremeLanguage {
		parts = append(parts, "Contains sensational language which may indicate bias.")
	}
	if internal.HasURLs {
		parts = append(parts, "Contains URLs which may provide source verification.")
	}

	switch {
	case score >= 7.5:
		parts = append(parts, "High confidence in claim accuracy based on available evidence.")
	case score >= 5.0:
		parts = append(parts, "Mixed evidence found - claim requires further verification.")
	case score >= 2.5:
		parts = append(parts, "Disputed claim with conflicting evidence.")
	default:
		parts = append(parts, "Low confidence in claim accuracy - likely false or misleading.")
	}

	return strings.Join(parts, " ")
}
