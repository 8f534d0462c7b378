package model

import "time"

// CheckReport wraps a verdict with the context of the run that produced it.
// The verdict itself is never touched after scoring; everything the caller
// adds (fetch metadata, link checks, LLM narrative, storage id) lives
// alongside it.
type CheckReport struct {
	Subject    string       `json:"subject,omitempty"`    // Page subject for URL scans
	SourceURL  string       `json:"source_url,omitempty"` // URL that was scanned
	FetchMeta  *FetchMeta   `json:"fetch_meta,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	Extraction *Extraction  `json:"extraction,omitempty"` // Present when the claim was picked from longer text
	Claim      string       `json:"claim"`
	Result     ScoreResult  `json:"result"`
	RecordID   int64        `json:"record_id,omitempty"` // Set when persisted
	Links      []LinkStatus `json:"evidence_links,omitempty"`
	LLM        *LLMSummary  `json:"llm,omitempty"` // Optional narrative, never affects the score
}

// LinkStatus is the reachability of one fact-check review URL
type LinkStatus struct {
	URL          string     `json:"url"`
	StatusCode   int        `json:"status_code,omitempty"`
	Accessible   bool       `json:"accessible"`
	Dead         bool       `json:"dead"` // 404/410 or unreachable
	RedirectURL  string     `json:"redirect_url,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	AgeDays      *int       `json:"age_days,omitempty"`
	Stale        bool       `json:"stale"` // Older than a year
	Error        string     `json:"error,omitempty"`
}

// DeadLinks counts the links that could not be reached
func DeadLinks(links []LinkStatus) int {
	n := 0
	for _, l := range links {
		if l.Dead {
			n++
		}
	}
	return n
}

// FetchMeta contains HTTP metadata from fetching a page
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// LLMSummary contains an optional LLM-written explanation of a verdict.
// It is produced after scoring and is rendered separately.
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"` // Only fact-check URLs may be cited
	SummaryMD      string   `json:"summary_md,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}
