package model

// Status is the categorical verdict for a claim
type Status string

const (
	StatusTrue        Status = "true"
	StatusMostlyTrue  Status = "mostly true"
	StatusMixed       Status = "mixed"
	StatusMostlyFalse Status = "mostly false"
	StatusFalse       Status = "false"
	StatusError       Status = "error"
)

// Category is the coarse topic of a claim
type Category string

const (
	CategoryHealth      Category = "health"
	CategoryPolitics    Category = "politics"
	CategoryFinance     Category = "finance"
	CategoryEnvironment Category = "environment"
	CategoryTechnology  Category = "technology"
	CategoryGeneral     Category = "general"
	CategoryUnknown     Category = "unknown"
)

// RiskLevel is a display tier derived from the credibility score alone
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Outcome classifies how a core call completed
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeDegraded Outcome = "degraded" // A collaborator failed and a fallback was used
	OutcomeError    Outcome = "error"    // Terminal error result
)

// RealFact is a curated factual statement attached to a verdict
type RealFact struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	Source      string `json:"source"`
	Reliability string `json:"reliability"`
}

// ScoreResult is the complete assessment of a single claim.
// It is built once per call and never modified afterwards.
type ScoreResult struct {
	CredibilityScore float64               `json:"credibility_score"` // 0.0 - 10.0
	Status           Status                `json:"status"`
	Category         Category              `json:"category"`
	RiskLevel        RiskLevel             `json:"risk_level"`
	Sources          []string              `json:"sources"`
	ExternalChecks   []ExternalClaimRecord `json:"external_checks"`
	Reasoning        string                `json:"reasoning"`
	RealFacts        []RealFact            `json:"real_facts"` // At most 8
	FactualNews      string                `json:"factual_news,omitempty"`
	Factors          *FactorBreakdown      `json:"analysis_factors,omitempty"`
	Signals          []Signal              `json:"signals,omitempty"`
	Provenance       Provenance            `json:"provenance,omitempty"`
	Outcome          Outcome               `json:"outcome"`
	Notes            []string              `json:"notes,omitempty"`
}

// ErrorReasoning is the reasoning text of the terminal error result
const ErrorReasoning = "Unable to verify claim due to technical error."

// ErrorResult returns the terminal result used when verification fails
func ErrorResult(note string) ScoreResult {
	r := ScoreResult{
		CredibilityScore: 0.0,
		Status:           StatusError,
		Category:         CategoryUnknown,
		RiskLevel:        RiskHigh,
		Sources:          []string{},
		ExternalChecks:   []ExternalClaimRecord{},
		Reasoning:        ErrorReasoning,
		RealFacts:        []RealFact{},
		Outcome:          OutcomeError,
	}
	if note != "" {
		r.Notes = []string{note}
	}
	return r
}

// EvidenceURLs returns the fact-check URLs attached to the verdict, deduplicated
func (r ScoreResult) EvidenceURLs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, c := range r.ExternalChecks {
		if c.SourceURL == "" || seen[c.SourceURL] {
			continue
		}
		seen[c.SourceURL] = true
		urls = append(urls, c.SourceURL)
	}
	return urls
}

// Signal is a transparent record of one scoring step
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Inputs and formula
}

// SignalType classifies a scoring signal
type SignalType string

const (
	SignalBaseRule            SignalType = "base_rule"            // Topic rule that set the base score
	SignalRatingAdjustment    SignalType = "rating_adjustment"    // External rating adjustment
	SignalInternalAdjustment  SignalType = "internal_adjustment"  // Lexical adjustments
	SignalStatusOverride      SignalType = "status_override"      // Phrase list forced the status
	SignalDemoData            SignalType = "demo_data"            // External data is illustrative only
	SignalExternalUnavailable SignalType = "external_unavailable" // Lookup failed open
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
