package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

// Verdict is the numeric and categorical outcome of scoring a claim
type Verdict struct {
	Score     float64         // Final score, clamped to [0, 10]
	BaseScore float64         // Topic base score before adjustments
	BaseRule  string          // Name of the topic rule that fired
	Status    model.Status    // Score tier unless a phrase override applied
	Category  model.Category  // First matching topic group
	RiskLevel model.RiskLevel // Derived from Score only
	Signals   []model.Signal  // One per scoring step
}

// Scorer calculates credibility scores from ordered rule tables
type Scorer struct {
	baseRules  []baseRule
	overrides  []phraseOverride
	categories []categoryRule
}

// NewScorer creates a scorer with the built-in rule tables
func NewScorer() *Scorer {
	return &Scorer{
		baseRules:  baseRules,
		overrides:  statusOverrides,
		categories: categoryRules,
	}
}

// Score runs the full scoring algorithm. It is deterministic and pure.
func (s *Scorer) Score(claimText string, ext model.ExternalResultSet, internal model.InternalAnalysis) Verdict {
	var signals []model.Signal

	// 1. Topic base score
	base, rule := s.BaseScore(claimText)
	signals = append(signals, model.Signal{
		Type:        model.SignalBaseRule,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Topic rule %q set base score %.1f", rule, base),
		Data: map[string]interface{}{
			"rule":       rule,
			"base_score": base,
			"formula":    "first matching topic rule, top to bottom; default 5.8",
		},
	})

	// 2. External rating adjustment
	ratingAdj, positive, negative := RatingAdjustment(ext.Claims)
	if len(ext.Claims) > 0 {
		severity := model.SeverityInfo
		if ratingAdj < 0 {
			severity = model.SeverityWarning
		}
		signals = append(signals, model.Signal{
			Type:        model.SignalRatingAdjustment,
			Severity:    severity,
			Description: fmt.Sprintf("External ratings adjusted score by %+.1f", ratingAdj),
			Data: map[string]interface{}{
				"ratings":    len(ext.Claims),
				"positive":   positive,
				"negative":   negative,
				"adjustment": ratingAdj,
				"formula":    "(+1.8 true/correct | +1.2 mostly true/accurate) + (-2.5 false/incorrect | -1.6 misleading/disputed)",
			},
		})
	}

	// 3. Internal analysis adjustment
	internalAdj := InternalAdjustment(internal)
	if internalAdj != 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalInternalAdjustment,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("Content signals adjusted score by %+.1f", internalAdj),
			Data: map[string]interface{}{
				"extreme_language": internal.HasExtremeLanguage,
				"has_urls":         internal.HasURLs,
				"length_score":     internal.LengthScore,
				"adjustment":       internalAdj,
				"formula":          "-0.9 extreme language, +0.4 urls, +0.3 if length_score > 0.5",
			},
		})
	}

	// 4. Clamp
	final := Clamp(base + ratingAdj + internalAdj)

	status, override := s.DetermineStatus(final, claimText)
	if override != "" {
		signals = append(signals, model.Signal{
			Type:        model.SignalStatusOverride,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("Phrase %q forces status false", override),
			Data: map[string]interface{}{
				"phrase": override,
				"score":  final,
			},
		})
	}

	return Verdict{
		Score:     final,
		BaseScore: base,
		BaseRule:  rule,
		Status:    status,
		Category:  s.DetermineCategory(claimText),
		RiskLevel: RiskLevelFor(final),
		Signals:   signals,
	}
}

// BaseScore returns the base score of the first topic rule matching the claim
func (s *Scorer) BaseScore(claimText string) (float64, string) {
	lower := strings.ToLower(claimText)
	for _, r := range s.baseRules {
		if !util.ContainsAny(lower, r.topic) {
			continue
		}
		if r.qualifier != nil && r.qualifier(lower) {
			return r.qualified, r.name + ":" + r.qualifierName
		}
		return r.otherwise, r.name
	}
	return defaultBaseScore, "default"
}

// RatingAdjustment sums at most one positive and one negative adjustment
// from the external ratings. It also returns which branches fired.
func RatingAdjustment(checks []model.ExternalClaimRecord) (float64, string, string) {
	ratings := make([]string, len(checks))
	for i, c := range checks {
		ratings[i] = strings.ToLower(c.Rating)
	}

	adj := 0.0
	positive, negative := "", ""

	switch {
	case anyRating(ratings, "true", "correct"):
		adj += 1.8
		positive = "true/correct"
	case anyRating(ratings, "mostly true", "accurate"):
		adj += 1.2
		positive = "mostly true/accurate"
	}

	switch {
	case anyRating(ratings, "false", "incorrect"):
		adj -= 2.5
		negative = "false/incorrect"
	case anyRating(ratings, "misleading", "disputed"):
		adj -= 1.6
		negative = "misleading/disputed"
	}

	return adj, positive, negative
}

// InternalAdjustment returns the score change from lexical content signals
func InternalAdjustment(internal model.InternalAnalysis) float64 {
	adj := 0.0
	if internal.HasExtremeLanguage {
		adj -= 0.9
	}
	if internal.HasURLs {
		adj += 0.4
	}
	if internal.LengthScore > 0.5 {
		adj += 0.3
	}
	return adj
}

// DetermineStatus maps a score onto a status. Known-false and suspicious
// phrases force "false" regardless of score; the phrase is returned.
func (s *Scorer) DetermineStatus(score float64, claimText string) (model.Status, string) {
	lower := strings.ToLower(claimText)
	for _, o := range s.overrides {
		if phrase := util.FirstMatch(lower, o.phrases); phrase != "" {
			return model.StatusFalse, phrase
		}
	}

	switch {
	case score >= 8.0:
		return model.StatusTrue, ""
	case score >= 6.0:
		return model.StatusMostlyTrue, ""
	case score >= 4.0:
		return model.StatusMixed, ""
	case score >= 2.0:
		return model.StatusMostlyFalse, ""
	default:
		return model.StatusFalse, ""
	}
}

// DetermineCategory returns the first matching topic group, else general
func (s *Scorer) DetermineCategory(claimText string) model.Category {
	lower := strings.ToLower(claimText)
	for _, c := range s.categories {
		if util.ContainsAny(lower, c.terms) {
			return c.category
		}
	}
	return model.CategoryGeneral
}

// RiskLevelFor derives the risk tier from the score alone; a phrase-forced
// false status can still carry low risk.
func RiskLevelFor(score float64) model.RiskLevel {
	switch {
	case score >= 6.0:
		return model.RiskLow
	case score >= 4.0:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// Clamp bounds a score to [0, 10]
func Clamp(score float64) float64 {
	return math.Max(0.0, math.Min(10.0, score))
}

func anyRating(ratings []string, terms ...string) bool {
	for _, r := range ratings {
		if util.ContainsAny(r, terms) {
			return true
		}
	}
	return false
}
