package extract

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/nlp"
	"github.com/ppiankov/truthlens/internal/util"
)

// Confidence is accumulated in tenths so sums stay exact
const (
	minClaimTenths     = 3
	fallbackConfidence = 0.5
	degradedConfidence = 0.3
	longSentenceWords  = 10
)

// ClaimExtractor segments text and scores each sentence as a candidate claim
type ClaimExtractor struct {
	toolkit         nlp.Toolkit
	logger          *zap.Logger
	indicators      []string
	factualPatterns []string
	types           []claimTypeRule
}

type claimTypeRule struct {
	claimType model.ClaimType
	terms     []string
}

// NewClaimExtractor creates a claim extractor. A nil toolkit falls back to
// the rule toolkit and a nil logger to the global logger.
func NewClaimExtractor(toolkit nlp.Toolkit, logger *zap.Logger) *ClaimExtractor {
	if toolkit == nil {
		toolkit = nlp.NewRuleToolkit()
	}
	if logger == nil {
		logger = zap.L()
	}

	return &ClaimExtractor{
		toolkit: toolkit,
		logger:  logger,
		indicators: []string{
			"according to", "study shows", "research indicates", "experts say",
			"it is reported", "sources claim", "allegedly", "reportedly",
			"evidence suggests", "data shows", "statistics reveal",
		},
		factualPatterns: []string{
			"percent", "%", "million", "billion", "study", "research",
			"survey", "poll", "statistics", "data", "evidence",
		},
		types: []claimTypeRule{
			{model.ClaimTypeResearch, []string{"study", "research", "survey"}},
			{model.ClaimTypeStatistical, []string{"percent", "%", "statistics", "data"}},
			{model.ClaimTypeExpert, []string{"doctor", "expert", "scientist"}},
			{model.ClaimTypeAttributed, []string{"according to", "sources say"}},
		},
	}
}

// Extract returns the candidate claims in text, in sentence order.
// When no sentence qualifies the whole input becomes one general claim;
// when the toolkit fails it becomes one degraded low-confidence claim.
func (e *ClaimExtractor) Extract(text string) (result model.Extraction) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Extraction{Claims: []model.ExtractedClaim{}, Outcome: model.OutcomeOK}
	}

	defer func() {
		if r := recover(); r != nil {
			result = e.degraded(trimmed, eris.Errorf("nlp toolkit panic: %v", r))
		}
	}()

	sentences, err := e.toolkit.Sentences(text)
	if err != nil {
		return e.degraded(trimmed, err)
	}

	claims := []model.ExtractedClaim{}
	for i, sentence := range sentences {
		if claim, ok := e.scoreSentence(sentence, i); ok {
			claims = append(claims, claim)
		}
	}

	if len(claims) == 0 {
		claims = append(claims, model.ExtractedClaim{
			Text:              trimmed,
			SentenceIndex:     0,
			Confidence:        fallbackConfidence,
			Type:              model.ClaimTypeGeneral,
			Entities:          e.entities(trimmed),
			HasFactualContent: e.hasFactualContent(trimmed),
		})
	}

	return model.Extraction{Claims: claims, Outcome: model.OutcomeOK}
}

func (e *ClaimExtractor) scoreSentence(sentence string, index int) (model.ExtractedClaim, bool) {
	text := strings.TrimSpace(sentence)
	lower := strings.ToLower(text)

	hasIndicator := util.ContainsAny(lower, e.indicators)
	hasFactual := e.hasFactualContent(text)
	hasNumbers := util.HasDigit(text)

	tenths := 0
	if hasIndicator {
		tenths += 4
	}
	if hasFactual {
		tenths += 3
	}
	if hasNumbers {
		tenths += 2
	}
	if len(strings.Fields(text)) > longSentenceWords {
		tenths++
	}

	if tenths < minClaimTenths {
		return model.ExtractedClaim{}, false
	}

	return model.ExtractedClaim{
		Text:              text,
		SentenceIndex:     index,
		Confidence:        float64(tenths) / 10,
		Type:              e.classify(lower),
		Entities:          e.entities(text),
		HasFactualContent: hasFactual,
		HasClaimIndicator: hasIndicator,
		HasNumbers:        hasNumbers,
	}, true
}

func (e *ClaimExtractor) hasFactualContent(text string) bool {
	return util.ContainsAny(strings.ToLower(text), e.factualPatterns)
}

func (e *ClaimExtractor) classify(lower string) model.ClaimType {
	for _, rule := range e.types {
		if util.ContainsAny(lower, rule.terms) {
			return rule.claimType
		}
	}
	return model.ClaimTypeGeneral
}

// entities never fails; a toolkit error yields an empty list
func (e *ClaimExtractor) entities(text string) []model.Entity {
	entities, err := e.toolkit.Entities(text)
	if err != nil {
		e.logger.Warn("entity extraction failed", zap.Error(err))
		return []model.Entity{}
	}
	if entities == nil {
		return []model.Entity{}
	}
	return entities
}

func (e *ClaimExtractor) degraded(trimmed string, err error) model.Extraction {
	e.logger.Error("claim extraction failed, using whole input", zap.Error(err))
	return model.Extraction{
		Claims: []model.ExtractedClaim{{
			Text:          trimmed,
			SentenceIndex: 0,
			Confidence:    degradedConfidence,
			Type:          model.ClaimTypeGeneral,
			Entities:      []model.Entity{},
		}},
		Outcome: model.OutcomeDegraded,
		Note:    "nlp toolkit unavailable: " + err.Error(),
	}
}
