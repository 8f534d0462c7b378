package model

// InternalAnalysis holds lexical signals derived directly from the claim text
type InternalAnalysis struct {
	ClaimText          string  `json:"claim_text"`
	WordCount          int     `json:"word_count"`
	HasExtremeLanguage bool    `json:"has_extreme_language"`
	HasNumbers         bool    `json:"has_numbers"`
	HasURLs            bool    `json:"has_urls"`
	LengthScore        float64 `json:"length_score"` // min(chars/100, 1.0)
}

// FactorBreakdown groups the independent factor analyses of a claim.
// None of the sub-analyses reads another's output.
type FactorBreakdown struct {
	SourceReliability      SourceReliability      `json:"source_reliability"`
	FactCheckMatches       FactCheckConsensus     `json:"fact_check_matches"`
	Content                ContentStructure       `json:"content_analysis"`
	Language               LanguagePattern        `json:"language_analysis"`
	VerificationConfidence VerificationConfidence `json:"verification_confidence"`
}

// SourceReliability scores the publishers behind external fact-checks
type SourceReliability struct {
	TotalSources      int     `json:"total_sources"`
	HighReliability   int     `json:"high_reliability_sources"`
	MediumReliability int     `json:"medium_reliability_sources"`
	Score             float64 `json:"reliability_score"`
	Assessment        string  `json:"assessment"` // High, Medium, Low
}

// RatingBreakdown counts external ratings per consensus class
type RatingBreakdown struct {
	Verified   int `json:"verified"`
	False      int `json:"false"`
	Misleading int `json:"misleading"`
	Mixed      int `json:"mixed"`
	Unverified int `json:"unverified"`
}

// FactCheckConsensus summarizes agreement among external ratings
type FactCheckConsensus struct {
	TotalMatches int             `json:"total_matches"`
	Breakdown    RatingBreakdown `json:"rating_breakdown"`
	Score        float64         `json:"consensus_score"`
	Strength     string          `json:"consensus_strength"` // Strong, Moderate, Weak
}

// ContentIndicators are the specificity markers found in a claim
type ContentIndicators struct {
	Statistics      bool `json:"statistics"`
	Dates           bool `json:"dates"`
	Authorities     bool `json:"authorities"`
	AbsoluteTerms   bool `json:"absolute_terms"`
	UrgencyLanguage bool `json:"urgency_language"`
}

// Count returns how many indicators are set
func (c ContentIndicators) Count() int {
	n := 0
	for _, v := range []bool{c.Statistics, c.Dates, c.Authorities, c.AbsoluteTerms, c.UrgencyLanguage} {
		if v {
			n++
		}
	}
	return n
}

// ContentStructure describes how specific and complex a claim is
type ContentStructure struct {
	WordCount        int               `json:"word_count"`
	ComplexityScore  float64           `json:"complexity_score"`
	SpecificityScore float64           `json:"specificity_score"`
	Indicators       ContentIndicators `json:"specific_indicators"`
	HasURLs          bool              `json:"has_urls"`
	Assessment       string            `json:"structure_assessment"` // Detailed, Moderate, Basic
}

// LanguagePattern flags rhetorical registers in a claim.
// RawScore is the pre-offset value the assessment is computed on.
type LanguagePattern struct {
	Emotional  bool    `json:"emotional_language"`
	Scientific bool    `json:"scientific_language"`
	Hedge      bool    `json:"hedge_words"`
	Certainty  bool    `json:"certainty_language"`
	RawScore   int     `json:"raw_objectivity"`
	Score      float64 `json:"objectivity_score"`
	Assessment string  `json:"language_assessment"` // Objective, Neutral, Subjective
}

// VerificationConfidence estimates how much evidence backs the verdict
type VerificationConfidence struct {
	External float64 `json:"external_data_confidence"`
	Source   float64 `json:"source_confidence"`
	Content  float64 `json:"content_confidence"`
	Overall  float64 `json:"overall_confidence"`
	Level    string  `json:"confidence_level"` // High, Medium, Low
}
