package model

// ClaimType categorizes the kind of support an extracted claim invokes
type ClaimType string

const (
	ClaimTypeResearch    ClaimType = "research_claim"    // Cites a study, research or survey
	ClaimTypeStatistical ClaimType = "statistical_claim" // Cites percentages, statistics or data
	ClaimTypeExpert      ClaimType = "expert_claim"      // Cites doctors, experts or scientists
	ClaimTypeAttributed  ClaimType = "attributed_claim"  // Attributed to a named or unnamed source
	ClaimTypeGeneral     ClaimType = "general_claim"     // Anything else
)

// Entity is a named-entity span reported by the NLP toolkit
type Entity struct {
	Text        string `json:"text"`
	Label       string `json:"label"`       // Toolkit label (e.g. "PERSON", "GPE")
	Description string `json:"description"` // Human-readable label description
}

// ExtractedClaim is a candidate claim sentence and its claim-likelihood
type ExtractedClaim struct {
	Text              string    `json:"text"`
	SentenceIndex     int       `json:"sentence_index"` // 0-based index in the segmented input
	Confidence        float64   `json:"confidence"`     // 0.0 - 1.0
	Type              ClaimType `json:"type"`
	Entities          []Entity  `json:"entities"`
	HasFactualContent bool      `json:"has_factual_content"`
	HasClaimIndicator bool      `json:"has_claim_indicator"`
	HasNumbers        bool      `json:"has_numbers"`
}

// Extraction is the outcome of splitting text into candidate claims.
// Outcome is OutcomeDegraded when the NLP toolkit failed and the
// whole input was returned as a single low-confidence claim.
type Extraction struct {
	Claims  []ExtractedClaim `json:"claims"`
	Outcome Outcome          `json:"outcome"`
	Note    string           `json:"note,omitempty"`
}

// MainClaim returns the highest-confidence claim; the earliest wins ties
func (e Extraction) MainClaim() (ExtractedClaim, bool) {
	if len(e.Claims) == 0 {
		return ExtractedClaim{}, false
	}

	best := e.Claims[0]
	for _, c := range e.Claims[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best, true
}

// TextQuality summarizes the shape of a block of text
type TextQuality struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	HasProperNouns    bool    `json:"has_proper_nouns"`
	HasNumbers        bool    `json:"has_numbers"`
	HasURLs           bool    `json:"has_urls"`
	ComplexityScore   float64 `json:"complexity_score"` // avg sentence length / 15, capped at 1
}
