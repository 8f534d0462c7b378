package model

import (
	"encoding/json"
	"math"
	"time"
)

// ClaimRecord is the persisted form of a verdict
type ClaimRecord struct {
	ID               int64     `json:"id"`
	ClaimText        string    `json:"claim_text"`
	CredibilityScore float64   `json:"credibility_score"`
	Status           Status    `json:"status"`
	Category         Category  `json:"category"`
	RiskLevel        RiskLevel `json:"risk_level"`
	Sources          string    `json:"sources"` // JSON-encoded array of publisher names
	Reasoning        string    `json:"reasoning"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewClaimRecord maps a verdict onto its stored shape
func NewClaimRecord(claimText string, r ScoreResult) ClaimRecord {
	sources := r.Sources
	if sources == nil {
		sources = []string{}
	}
	encoded, _ := json.Marshal(sources)

	return ClaimRecord{
		ClaimText:        claimText,
		CredibilityScore: r.CredibilityScore,
		Status:           r.Status,
		Category:         r.Category,
		RiskLevel:        r.RiskLevel,
		Sources:          string(encoded),
		Reasoning:        r.Reasoning,
	}
}

// SourceList decodes the stored sources; malformed data yields an empty list
func (c ClaimRecord) SourceList() []string {
	var sources []string
	if err := json.Unmarshal([]byte(c.Sources), &sources); err != nil || sources == nil {
		return []string{}
	}
	return sources
}

// ReportStatus tracks moderation of a user report
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportResolved ReportStatus = "resolved"
)

// ContentReport is suspicious content submitted by a user for review
type ContentReport struct {
	ID          int64        `json:"id"`
	ContentText string       `json:"content_text"`
	URL         string       `json:"url,omitempty"`
	Email       string       `json:"email,omitempty"`
	Category    string       `json:"category,omitempty"`
	Priority    string       `json:"priority"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TrendPoint counts verdicts for one category on one day
type TrendPoint struct {
	Category        Category  `json:"category"`
	Date            string    `json:"date"` // YYYY-MM-DD (UTC)
	ClaimCount      int       `json:"claim_count"`
	FalseClaimCount int       `json:"false_claim_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FalseRate returns the share of false verdicts as a percentage rounded to 2 places
func (t TrendPoint) FalseRate() float64 {
	total := t.ClaimCount
	if total < 1 {
		total = 1
	}
	return roundTo(float64(t.FalseClaimCount)/float64(total)*100, 2)
}

// Stats summarizes all stored verdicts
type Stats struct {
	TotalClaims  int     `json:"total_claims"`
	TrueClaims   int     `json:"true_claims"`
	FalseClaims  int     `json:"false_claims"`
	MixedClaims  int     `json:"mixed_claims"`
	AccuracyRate float64 `json:"accuracy_rate"` // Percentage of true verdicts
}

// AccuracyRate returns the share of true verdicts as a percentage rounded to 2 places
func AccuracyRate(trueClaims, total int) float64 {
	if total < 1 {
		total = 1
	}
	return roundTo(float64(trueClaims)/float64(total)*100, 2)
}

// CredibilityBand filters stored claims by score range
type CredibilityBand string

const (
	BandAny    CredibilityBand = ""
	BandHigh   CredibilityBand = "high"   // score >= 8
	BandMedium CredibilityBand = "medium" // 4 <= score < 8
	BandLow    CredibilityBand = "low"    // score < 4
)

// ClaimSearch describes a text search over stored claims
type ClaimSearch struct {
	Query       string          `json:"query"`
	Category    string          `json:"category,omitempty"`
	Credibility CredibilityBand `json:"credibility,omitempty"`
	Limit       int             `json:"limit,omitempty"`
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
