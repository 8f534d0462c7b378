package analyze

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/worker"
)

// Analyzer runs the factor analyses for a claim
type Analyzer struct {
	sources *SourceClassifier
}

// NewAnalyzer creates an analyzer using the given publisher classifier
func NewAnalyzer(sources *SourceClassifier) *Analyzer {
	if sources == nil {
		sources = NewSourceClassifier(nil)
	}
	return &Analyzer{sources: sources}
}

// Factors computes all factor analyses concurrently. The analyses share
// no state; each goroutine writes its own field of the breakdown.
func (a *Analyzer) Factors(ctx context.Context, ext model.ExternalResultSet, internal model.InternalAnalysis, claimText string) (model.FactorBreakdown, error) {
	var fb model.FactorBreakdown

	g, _ := errgroup.WithContext(ctx)
	worker.GoSafe(g, "analyze source_reliability", func() {
		fb.SourceReliability = a.sources.Reliability(ext.Sources)
	})
	worker.GoSafe(g, "analyze fact_check_matches", func() {
		fb.FactCheckMatches = Consensus(ext.Claims)
	})
	worker.GoSafe(g, "analyze content_analysis", func() {
		fb.Content = ContentStructureOf(claimText, internal)
	})
	worker.GoSafe(g, "analyze language_analysis", func() {
		fb.Language = LanguagePatternOf(claimText)
	})
	worker.GoSafe(g, "analyze verification_confidence", func() {
		fb.VerificationConfidence = VerificationConfidenceOf(ext, internal)
	})

	if err := g.Wait(); err != nil {
		return model.FactorBreakdown{}, err
	}
	return fb, nil
}
