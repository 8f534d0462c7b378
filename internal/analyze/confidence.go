package analyze

import (
	"math"

	"github.com/ppiankov/truthlens/internal/model"
)

// VerificationConfidenceOf estimates how much evidence backs a verdict
func VerificationConfidenceOf(ext model.ExternalResultSet, internal model.InternalAnalysis) model.VerificationConfidence {
	external := math.Min(10, float64(len(ext.Claims)*3))
	source := math.Min(10, float64(len(ext.Sources)*2))

	content := 5.0
	if internal.HasNumbers {
		content = 7.0
	}

	overall := (external + source + content) / 3

	return model.VerificationConfidence{
		External: external,
		Source:   source,
		Content:  content,
		Overall:  overall,
		Level:    tierLabel(overall, 7, 4),
	}
}
