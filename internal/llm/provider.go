// Package llm produces optional narrative summaries of verdicts. A summary
// is generated after scoring and never changes the score.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
)

const (
	maxPromptURLs    = 20
	maxPromptSignals = 3
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative for the report with strict evidence mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	Report model.CheckReport

	// EvidenceURLs is the only set of URLs the model may cite
	EvidenceURLs []string

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string // URLs found in the summary
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	Provider       string // openai, ollama, or empty to disable
	Model          string
	APIKey         string
	BaseURL        string // Custom OpenAI-compatible endpoint
	Timeout        int    // seconds
	StrictEvidence bool
	MaxTokens      int
}

// DefaultConfig returns the disabled default configuration
func DefaultConfig() Config {
	return Config{
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      600,
	}
}

// BuildPrompt constructs the default prompt for a verdict narrative
func BuildPrompt(report model.CheckReport, evidenceURLs []string) string {
	r := report.Result

	var b strings.Builder
	fmt.Fprintf(&b, `You are explaining a TruthLens credibility verdict to a reader. The verdict below was computed by deterministic rules; you MUST NOT change, dispute or re-score it.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. Do not cite, invent or imply any other source.
3. If the external fact-checks are missing or illustrative, say so plainly.
4. Describe what the evidence shows, then what a reader should check next.

Verdict:
- Claim: %s
- Credibility Score: %.1f/10
- Status: %s
- Category: %s
- Risk Level: %s
- External Fact-Checks: %d (data: %s)
- Sources: %s

Key Signals:
`, joinURLs(evidenceURLs), report.Claim, r.CredibilityScore, r.Status, r.Category, r.RiskLevel,
		len(r.ExternalChecks), provenanceLabel(r.Provenance), joinSources(r.Sources))

	for i, signal := range r.Signals {
		if i >= maxPromptSignals {
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", signal.Type, signal.Description)
	}

	b.WriteString("\nWrite 3-4 plain sentences. Do not restate the score as your own judgement.")
	return b.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No evidence URLs available)"
	}
	var b strings.Builder
	for i, u := range urls {
		if i >= maxPromptURLs {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-maxPromptURLs)
			break
		}
		fmt.Fprintf(&b, "\n- %s", u)
	}
	return b.String()
}

func joinSources(sources []string) string {
	if len(sources) == 0 {
		return "none"
	}
	return strings.Join(sources, ", ")
}

func provenanceLabel(p model.Provenance) string {
	if p == "" {
		return "none"
	}
	return string(p)
}
