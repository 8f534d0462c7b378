package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/truthlens/internal/model"
)

const reportFooter = "_Generated by truthlens. Scores are heuristic and should be read together with the cited fact-checks._"

// Renderer writes check reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON; "-" writes to stdout
func (r *Renderer) RenderJSON(report *model.CheckReport, path string) error {
	if path == "-" {
		return WriteJSON(os.Stdout, report)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal report")
	}
	return writeFile(path, append(data, '\n'))
}

// WriteJSON encodes v as indented JSON to w
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(report *model.CheckReport, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// RenderLLMMarkdown writes an already rendered LLM summary
func (r *Renderer) RenderLLMMarkdown(markdown, path string) error {
	return writeFile(path, []byte(markdown))
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *model.CheckReport) string {
	res := report.Result
	var b strings.Builder

	b.WriteString("# Claim Check\n\n")
	fmt.Fprintf(&b, "> %s\n\n", report.Claim)
	if report.SourceURL != "" {
		fmt.Fprintf(&b, "**Source:** %s", report.SourceURL)
		if report.Subject != "" {
			fmt.Fprintf(&b, " (%s)", report.Subject)
		}
		b.WriteString("\n\n")
	}

	b.WriteString("## Verdict\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Credibility | %.1f/10 |\n", res.CredibilityScore)
	fmt.Fprintf(&b, "| Status | %s |\n", res.Status)
	fmt.Fprintf(&b, "| Category | %s |\n", res.Category)
	fmt.Fprintf(&b, "| Risk | %s |\n", res.RiskLevel)
	if res.Provenance != "" {
		fmt.Fprintf(&b, "| External data | %s |\n", res.Provenance)
	}
	fmt.Fprintf(&b, "| Outcome | %s |\n\n", res.Outcome)

	b.WriteString("## Reasoning\n\n")
	b.WriteString(res.Reasoning + "\n\n")

	if len(res.ExternalChecks) > 0 {
		b.WriteString("## External Fact-Checks\n\n")
		for _, c := range res.ExternalChecks {
			line := fmt.Sprintf("- **%s**: %s", orDash(c.Rating), c.Text)
			if c.Claimant != "" {
				line += fmt.Sprintf(" (claimant: %s)", c.Claimant)
			}
			if c.SourceURL != "" {
				line += fmt.Sprintf(" [review](%s)", c.SourceURL)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(report.Links) > 0 {
		b.WriteString("## Review Links\n\n")
		b.WriteString("| URL | Status | Note |\n|-----|--------|------|\n")
		for _, l := range report.Links {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", l.URL, linkState(l), linkNote(l))
		}
		b.WriteString("\n")
	}

	if len(res.Sources) > 0 {
		fmt.Fprintf(&b, "**Publishers:** %s\n\n", strings.Join(res.Sources, ", "))
	}

	if len(res.RealFacts) > 0 {
		b.WriteString("## Facts\n\n")
		for _, f := range res.RealFacts {
			fmt.Fprintf(&b, "- %s _(%s, %s reliability)_\n", f.Content, f.Source, f.Reliability)
		}
		b.WriteString("\n")
	}

	if res.FactualNews != "" {
		b.WriteString("## Context\n\n")
		b.WriteString(res.FactualNews + "\n\n")
	}

	if len(res.Signals) > 0 {
		b.WriteString("## Scoring Signals\n\n")
		for _, s := range res.Signals {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", s.Severity, s.Type, s.Description)
		}
		b.WriteString("\n")
	}

	if len(res.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range res.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("_An LLM summary was generated separately and does not affect this verdict._\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n" + reportFooter + "\n")
	}
	return b.String()
}

// RenderSummary prints a short verdict to w
func (r *Renderer) RenderSummary(w io.Writer, report *model.CheckReport) {
	res := report.Result
	_, _ = fmt.Fprintf(w, "Claim: %s\n", report.Claim)
	if report.SourceURL != "" {
		_, _ = fmt.Fprintf(w, "Source: %s\n", report.SourceURL)
	}
	_, _ = fmt.Fprintf(w, "Credibility: %.1f/10  Status: %s  Category: %s  Risk: %s\n",
		res.CredibilityScore, res.Status, res.Category, res.RiskLevel)
	if len(res.ExternalChecks) > 0 {
		_, _ = fmt.Fprintf(w, "External fact-checks: %d (%s)\n", len(res.ExternalChecks), res.Provenance)
	}
	if res.Outcome != model.OutcomeOK {
		_, _ = fmt.Fprintf(w, "Outcome: %s\n", res.Outcome)
	}
	if len(report.Links) > 0 {
		_, _ = fmt.Fprintf(w, "Review links: %d checked, %d dead\n", len(report.Links), model.DeadLinks(report.Links))
	}
	if report.RecordID > 0 {
		_, _ = fmt.Fprintf(w, "Saved as record %d\n", report.RecordID)
	}
}

// LLMPath derives the separate summary path from the Markdown report path
func LLMPath(mdPath string) string {
	return strings.TrimSuffix(mdPath, ".md") + ".llm.md"
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

func linkState(l model.LinkStatus) string {
	switch {
	case l.Accessible:
		return "ok"
	case l.Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

func linkNote(l model.LinkStatus) string {
	switch {
	case l.Error != "":
		return l.Error
	case l.RedirectURL != "":
		return "moved to " + l.RedirectURL
	case l.Stale:
		return fmt.Sprintf("last modified %d days ago", *l.AgeDays)
	case l.StatusCode != 0:
		return fmt.Sprintf("HTTP %d", l.StatusCode)
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
