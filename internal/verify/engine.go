// Package verify assembles a credibility verdict for a single claim from the
// fact-check gateway, the lexical analyzers, the scorer and the explainer.
package verify

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/truthlens/internal/analyze"
	"github.com/ppiankov/truthlens/internal/explain"
	"github.com/ppiankov/truthlens/internal/extract"
	"github.com/ppiankov/truthlens/internal/factcheck"
	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/nlp"
	"github.com/ppiankov/truthlens/internal/score"
	"github.com/ppiankov/truthlens/internal/worker"
)

// ErrEmptyClaim is reported when a claim is blank after trimming
var ErrEmptyClaim = eris.New("claim text is empty")

// Engine verifies claims. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	gateway   factcheck.Gateway
	analyzer  *analyze.Analyzer
	scorer    *score.Scorer
	extractor *extract.ClaimExtractor
	toolkit   nlp.Toolkit
	sources   *analyze.SourceClassifier
	logger    *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithToolkit sets the NLP toolkit used for claim extraction
func WithToolkit(t nlp.Toolkit) Option {
	return func(e *Engine) { e.toolkit = t }
}

// WithScorer replaces the default scorer
func WithScorer(s *score.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithSourceClassifier sets the publisher classifier used by the factor analyses
func WithSourceClassifier(c *analyze.SourceClassifier) Option {
	return func(e *Engine) { e.sources = c }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine around gateway. A nil gateway uses demo data.
func New(gateway factcheck.Gateway, opts ...Option) *Engine {
	e := &Engine{gateway: gateway}
	for _, opt := range opts {
		opt(e)
	}

	if e.gateway == nil {
		e.gateway = factcheck.NewDemoGateway()
	}
	if e.logger == nil {
		e.logger = zap.L()
	}
	if e.scorer == nil {
		e.scorer = score.NewScorer()
	}
	if e.toolkit == nil {
		e.toolkit = nlp.NewRuleToolkit()
	}
	e.analyzer = analyze.NewAnalyzer(e.sources)
	e.extractor = extract.NewClaimExtractor(e.toolkit, e.logger)
	return e
}

// Verify scores claimText. It never fails: a blank claim, a panic or an
// internal error all produce model.ErrorResult.
func (e *Engine) Verify(ctx context.Context, claimText string) (result model.ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("verification panicked", zap.Any("panic", r))
			result = model.ErrorResult("internal error")
		}
	}()

	text := strings.TrimSpace(claimText)
	if text == "" {
		return model.ErrorResult(ErrEmptyClaim.Error())
	}

	result, err := e.verify(ctx, text)
	if err != nil {
		e.logger.Error("verification failed", zap.Error(err))
		return model.ErrorResult("internal error")
	}
	return result
}

func (e *Engine) verify(ctx context.Context, text string) (model.ScoreResult, error) {
	var (
		ext      model.ExternalResultSet
		internal model.InternalAnalysis
	)

	g, gctx := errgroup.WithContext(ctx)
	worker.GoSafe(g, "fact check lookup", func() {
		ext = e.gateway.Lookup(gctx, text)
	})
	worker.GoSafe(g, "content analysis", func() {
		internal = analyze.Analyze(text)
	})
	if err := g.Wait(); err != nil {
		return model.ScoreResult{}, err
	}

	factors, err := e.analyzer.Factors(ctx, ext, internal, text)
	if err != nil {
		return model.ScoreResult{}, eris.Wrap(err, "factor analysis")
	}

	verdict := e.scorer.Score(text, ext, internal)

	result := model.ScoreResult{
		CredibilityScore: verdict.Score,
		Status:           verdict.Status,
		Category:         verdict.Category,
		RiskLevel:        verdict.RiskLevel,
		Sources:          nonNilStrings(ext.Sources),
		ExternalChecks:   nonNilChecks(ext.Claims),
		Reasoning:        explain.Reasoning(ext, internal, verdict.Score),
		RealFacts:        explain.RealFacts(text),
		FactualNews:      explain.FactualNews(text, verdict.Category, verdict.Score),
		Factors:          &factors,
		Signals:          verdict.Signals,
		Provenance:       ext.Provenance,
		Outcome:          model.OutcomeOK,
	}

	switch ext.Provenance {
	case model.ProvenanceDemo:
		result.Signals = append(result.Signals, model.Signal{
			Type:        model.SignalDemoData,
			Severity:    model.SeverityWarning,
			Description: "External fact-check data is illustrative and not corroboration",
			Data:        map[string]interface{}{"gateway": e.gateway.Name()},
		})
	case model.ProvenanceUnavailable:
		result.Outcome = model.OutcomeDegraded
		result.Signals = append(result.Signals, model.Signal{
			Type:        model.SignalExternalUnavailable,
			Severity:    model.SeverityWarning,
			Description: "External fact-check lookup failed; scored on internal analysis only",
			Data:        map[string]interface{}{"gateway": e.gateway.Name(), "reason": ext.Note},
		})
	}
	if ext.Note != "" {
		result.Notes = append(result.Notes, ext.Note)
	}

	return result, nil
}

// ExtractClaims splits text into candidate claims
func (e *Engine) ExtractClaims(_ context.Context, text string) model.Extraction {
	return e.extractor.Extract(text)
}

// MainClaim returns the claim a page or post is judged by
func (e *Engine) MainClaim(extraction model.Extraction) (model.ExtractedClaim, bool) {
	return extraction.MainClaim()
}

// TextQuality describes the shape of text
func (e *Engine) TextQuality(text string) model.TextQuality {
	return e.extractor.TextQuality(text)
}

// Keywords returns up to max content keywords of text
func (e *Engine) Keywords(text string, max int) []string {
	return e.extractor.Keywords(text, max)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilChecks(c []model.ExternalClaimRecord) []model.ExternalClaimRecord {
	if c == nil {
		return []model.ExternalClaimRecord{}
	}
	return c
}
