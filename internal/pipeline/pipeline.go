// Package pipeline turns caller input (a claim, free text or a page URL)
// into a check report: it picks the claim to verify, runs the engine,
// persists the verdict and attaches the optional link checks and LLM
// narrative.
package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/analyze"
	"github.com/ppiankov/truthlens/internal/cache"
	"github.com/ppiankov/truthlens/internal/extract"
	"github.com/ppiankov/truthlens/internal/factcheck"
	"github.com/ppiankov/truthlens/internal/llm"
	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/nlp"
	"github.com/ppiankov/truthlens/internal/store"
	"github.com/ppiankov/truthlens/internal/validate"
	"github.com/ppiankov/truthlens/internal/verify"
)

// ErrNoClaim is returned when the input contains nothing to verify
var ErrNoClaim = eris.New("no claim found in input")

// Pipeline orchestrates a check from input to rendered report
type Pipeline struct {
	engine     *verify.Engine
	fetcher    *Fetcher
	store      store.Store
	summarizer *llm.Summarizer
	links      *validate.LinkChecker
	renderer   *Renderer
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStore persists every non-error verdict and updates trends
func WithStore(s store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithSummarizer attaches an LLM narrative after scoring
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) { p.summarizer = s }
}

// WithLinkChecker checks the fact-check review URLs of every verdict
func WithLinkChecker(c *validate.LinkChecker) Option {
	return func(p *Pipeline) { p.links = c }
}

// WithFetcher sets the page fetcher used by CheckURL
func WithFetcher(f *Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithRenderer overrides the report renderer
func WithRenderer(r *Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

// WithLogger sets the pipeline logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a pipeline around engine
func New(engine *verify.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:   engine,
		renderer: NewRenderer(true),
		logger:   zap.L(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = NewFetcher(30*time.Second, "truthlens", 2_000_000, false, "", "", "", WithFetchLogger(p.logger))
	}
	p.logger = p.logger.Named("pipeline")
	return p
}

// NewEngine builds the verification engine from configuration: the gateway
// selected by the API key (cached unless disabled), the configured NLP
// toolkit and the publisher tier lists.
func NewEngine(cfg *model.Config, logger *zap.Logger) (*verify.Engine, error) {
	if logger == nil {
		logger = zap.L()
	}

	gateway := factcheck.NewGateway(cfg.FactCheck, logger)
	if cfg.Cache.Enabled && factcheck.HasLiveKey(cfg.FactCheck.APIKey) {
		gateway = factcheck.NewCachedGateway(gateway, cache.New(cfg.Cache), cfg.Cache.MemoryTTL, logger)
	}

	toolkit, err := nlp.NewToolkit(cfg.NLP.Provider)
	if err != nil {
		return nil, eris.Wrap(err, "nlp toolkit")
	}

	return verify.New(gateway,
		verify.WithToolkit(toolkit),
		verify.WithSourceClassifier(analyze.NewSourceClassifier(&cfg.Scoring)),
		verify.WithLogger(logger),
	), nil
}

// Engine returns the underlying verification engine
func (p *Pipeline) Engine() *verify.Engine {
	return p.engine
}

// Check routes input to CheckURL when it looks like a web address and to
// CheckContent otherwise
func (p *Pipeline) Check(ctx context.Context, input string) (*model.CheckReport, error) {
	trimmed := strings.TrimSpace(input)
	if IsURL(trimmed) {
		return p.CheckURL(ctx, trimmed)
	}
	return p.CheckContent(ctx, trimmed)
}

// CheckText verifies claimText as a single claim
func (p *Pipeline) CheckText(ctx context.Context, claimText string) (*model.CheckReport, error) {
	claim := strings.TrimSpace(claimText)
	if claim == "" {
		return nil, verify.ErrEmptyClaim
	}
	report := &model.CheckReport{Claim: claim}
	p.finish(ctx, report)
	return report, nil
}

// CheckContent extracts claims from free text and verifies the most
// claim-like one
func (p *Pipeline) CheckContent(ctx context.Context, content string) (*model.CheckReport, error) {
	if strings.TrimSpace(content) == "" {
		return nil, verify.ErrEmptyClaim
	}

	extraction := p.engine.ExtractClaims(ctx, content)
	main, ok := p.engine.MainClaim(extraction)
	if !ok {
		return nil, ErrNoClaim
	}
	p.logger.Debug("main claim selected",
		zap.Int("candidates", len(extraction.Claims)),
		zap.Int("sentence", main.SentenceIndex),
		zap.Float64("confidence", main.Confidence))

	report := &model.CheckReport{Claim: main.Text, Extraction: &extraction}
	p.finish(ctx, report)
	return report, nil
}

// CheckURL fetches a page and checks its visible text
func (p *Pipeline) CheckURL(ctx context.Context, rawURL string) (*model.CheckReport, error) {
	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch %s", rawURL)
	}

	text, err := extract.VisibleText(fetched.HTML)
	if err != nil {
		return nil, eris.Wrap(err, "extract page text")
	}
	if text == "" {
		return nil, eris.Wrapf(ErrNoClaim, "%s has no visible text", fetched.FinalURL)
	}

	report, err := p.CheckContent(ctx, text)
	if err != nil {
		return nil, err
	}
	meta := fetched.Meta
	report.SourceURL = fetched.FinalURL
	report.Subject = fetched.Subject
	report.FetchMeta = &meta
	return report, nil
}

// finish scores the claim, persists the verdict and attaches the link
// checks and LLM summary
func (p *Pipeline) finish(ctx context.Context, report *model.CheckReport) {
	report.CheckedAt = p.now()
	report.Result = p.engine.Verify(ctx, report.Claim)

	if p.links != nil {
		if urls := report.Result.EvidenceURLs(); len(urls) > 0 {
			report.Links = p.links.Check(ctx, urls)
		}
	}

	if p.store != nil && report.Result.Outcome != model.OutcomeError {
		p.persist(ctx, report)
	}

	if p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			p.logger.Warn("llm summary failed", zap.Error(err))
		} else if summary != nil {
			report.LLM = summary
		}
	}
}

// persist failures never fail the check
func (p *Pipeline) persist(ctx context.Context, report *model.CheckReport) {
	rec := model.NewClaimRecord(report.Claim, report.Result)
	if err := p.store.SaveClaim(ctx, &rec); err != nil {
		p.logger.Warn("saving claim failed", zap.Error(err))
		return
	}
	report.RecordID = rec.ID

	if err := p.store.RecordTrend(ctx, report.Result.Category, report.Result.Status, report.CheckedAt); err != nil {
		p.logger.Warn("recording trend failed", zap.Error(err))
	}
}

// Render writes the JSON and Markdown outputs that have a path, the LLM
// narrative next to the Markdown report, and a summary to w
func (p *Pipeline) Render(report *model.CheckReport, jsonPath, mdPath string, w io.Writer) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return eris.Wrap(err, "render json")
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return eris.Wrap(err, "render markdown")
		}
		if report.LLM != nil && report.LLM.Enabled {
			llmPath := LLMPath(mdPath)
			if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmPath); err != nil {
				p.logger.Warn("writing llm summary failed", zap.String("path", llmPath), zap.Error(err))
			}
		}
	}

	if w != nil {
		p.renderer.RenderSummary(w, report)
	}
	return nil
}

// IsURL reports whether input is an http(s) address
func IsURL(input string) bool {
	lower := strings.ToLower(input)
	return (strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")) &&
		!strings.ContainsAny(input, " \t\n")
}
