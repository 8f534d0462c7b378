package analyze

import (
	"math"
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

// RatingClass is the consensus bucket of a free-text external rating
type RatingClass string

const (
	RatingVerified   RatingClass = "verified"
	RatingFalse      RatingClass = "false"
	RatingMisleading RatingClass = "misleading"
	RatingMixed      RatingClass = "mixed"
	RatingUnverified RatingClass = "unverified"
)

// ratingClasses is evaluated top to bottom; the first matching row wins.
// Provider vocabularies are uncontrolled, so "incorrect" lands in verified
// because it contains "correct".
var ratingClasses = []struct {
	class RatingClass
	terms []string
}{
	{RatingVerified, []string{"true", "correct", "accurate", "verified"}},
	{RatingFalse, []string{"false", "incorrect", "fake"}},
	{RatingMisleading, []string{"misleading", "disputed", "questionable"}},
	{RatingMixed, []string{"mixed", "partial", "mostly"}},
}

// ClassifyRating maps a provider rating onto a consensus bucket
func ClassifyRating(rating string) RatingClass {
	lower := strings.ToLower(rating)
	for _, row := range ratingClasses {
		if util.ContainsAny(lower, row.terms) {
			return row.class
		}
	}
	return RatingUnverified
}

// Consensus summarizes agreement among external fact-check ratings
func Consensus(checks []model.ExternalClaimRecord) model.FactCheckConsensus {
	var breakdown model.RatingBreakdown
	for _, check := range checks {
		switch ClassifyRating(check.Rating) {
		case RatingVerified:
			breakdown.Verified++
		case RatingFalse:
			breakdown.False++
		case RatingMisleading:
			breakdown.Misleading++
		case RatingMixed:
			breakdown.Mixed++
		default:
			breakdown.Unverified++
		}
	}

	total := len(checks)
	score := 0.0
	if total > 0 {
		score = float64(breakdown.Verified*10+breakdown.Mixed*5-breakdown.False*10) / float64(total)
	}

	strength := "Weak"
	if total >= 3 {
		strength = "Strong"
	} else if total >= 1 {
		strength = "Moderate"
	}

	return model.FactCheckConsensus{
		TotalMatches: total,
		Breakdown:    breakdown,
		Score:        clamp(score, 0, 10),
		Strength:     strength,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
