package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/nlp"
	"github.com/ppiankov/truthlens/internal/store"
	"github.com/ppiankov/truthlens/internal/validate"
	"github.com/ppiankov/truthlens/internal/verify"
)

func newTestEngine() *verify.Engine {
	return verify.New(nil, verify.WithToolkit(nlp.NewRuleToolkit()), verify.WithLogger(zap.NewNop()))
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fixedNow(p *Pipeline) {
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
}

func TestCheckText_EmptyClaim(t *testing.T) {
	p := New(newTestEngine(), WithLogger(zap.NewNop()))

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := p.CheckText(context.Background(), in)
		assert.True(t, errors.Is(err, verify.ErrEmptyClaim), "%q", in)
	}
}

func TestCheckText_PersistsVerdictAndTrend(t *testing.T) {
	st := newTestStore(t)
	p := New(newTestEngine(), WithStore(st), WithLogger(zap.NewNop()))
	fixedNow(p)
	ctx := context.Background()

	report, err := p.CheckText(ctx, "  Vaccines cause autism  ")
	require.NoError(t, err)

	assert.Equal(t, "Vaccines cause autism", report.Claim)
	assert.Nil(t, report.Extraction)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), report.CheckedAt)
	require.NotZero(t, report.RecordID)

	rec, err := st.GetClaim(ctx, report.RecordID)
	require.NoError(t, err)
	assert.Equal(t, "Vaccines cause autism", rec.ClaimText)
	assert.Equal(t, report.Result.Status, rec.Status)
	assert.InDelta(t, report.Result.CredibilityScore, rec.CredibilityScore, 1e-9)
	assert.Equal(t, report.Result.Sources, rec.SourceList())

	trends, err := st.ListTrends(ctx, 0)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, report.Result.Category, trends[0].Category)
	assert.Equal(t, "2024-05-01", trends[0].Date)
	assert.Equal(t, 1, trends[0].ClaimCount)
}

func TestCheckText_WithoutStore(t *testing.T) {
	p := New(newTestEngine(), WithLogger(zap.NewNop()))

	report, err := p.CheckText(context.Background(), "The earth is flat")
	require.NoError(t, err)
	assert.Zero(t, report.RecordID)
	assert.Equal(t, model.StatusFalse, report.Result.Status)
	assert.Nil(t, report.LLM)
}

// reviewGateway returns one live review pointing at url
type reviewGateway struct{ url string }

func (g reviewGateway) Name() string { return "review" }

func (g reviewGateway) Lookup(_ context.Context, _ string) model.ExternalResultSet {
	return model.ExternalResultSet{
		Claims:     []model.ExternalClaimRecord{{Text: "Claim", Rating: "False", SourceURL: g.url}},
		Sources:    []string{"Reuters"},
		Provenance: model.ProvenanceLive,
	}
}

func TestCheckText_ChecksReviewLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	engine := verify.New(reviewGateway{url: srv.URL + "/fc/1"},
		verify.WithToolkit(nlp.NewRuleToolkit()), verify.WithLogger(zap.NewNop()))
	checker := validate.NewLinkChecker(model.HTTPConfig{Timeout: 5 * time.Second}, 2, zap.NewNop())
	p := New(engine, WithLinkChecker(checker), WithLogger(zap.NewNop()))

	report, err := p.CheckText(context.Background(), "The moon landing was faked")
	require.NoError(t, err)

	require.Len(t, report.Links, 1)
	assert.Equal(t, srv.URL+"/fc/1", report.Links[0].URL)
	assert.True(t, report.Links[0].Dead)

	md := NewRenderer(false).Markdown(report)
	assert.Contains(t, md, "## Review Links")
	assert.Contains(t, md, "| dead | HTTP 404 |")

	var out bytes.Buffer
	NewRenderer(false).RenderSummary(&out, report)
	assert.Contains(t, out.String(), "Review links: 1 checked, 1 dead")
}

func TestCheckText_NoLinksWithoutChecker(t *testing.T) {
	engine := verify.New(reviewGateway{url: "http://127.0.0.1:1/fc"},
		verify.WithToolkit(nlp.NewRuleToolkit()), verify.WithLogger(zap.NewNop()))
	p := New(engine, WithLogger(zap.NewNop()))

	report, err := p.CheckText(context.Background(), "The moon landing was faked")
	require.NoError(t, err)
	assert.Empty(t, report.Links)
}

func TestCheckContent_VerifiesMostClaimLikeSentence(t *testing.T) {
	p := New(newTestEngine(), WithLogger(zap.NewNop()))

	report, err := p.CheckContent(context.Background(),
		"I love sunny days. According to a new study, 40% of adults skip breakfast.")
	require.NoError(t, err)

	require.NotNil(t, report.Extraction)
	assert.Contains(t, report.Claim, "40% of adults skip breakfast")
	main, ok := report.Extraction.MainClaim()
	require.True(t, ok)
	assert.Equal(t, model.ClaimTypeResearch, main.Type)
	assert.Equal(t, main.Text, report.Claim)
}

func TestCheckContent_Empty(t *testing.T) {
	p := New(newTestEngine(), WithLogger(zap.NewNop()))

	_, err := p.CheckContent(context.Background(), "  ")
	assert.True(t, errors.Is(err, verify.ErrEmptyClaim))
}

const articleHTML = `<html><head><title>Breakfast</title><script>var x = 1;</script></head>
<body><nav>Home | About</nav>
<article><p>I love sunny days.</p><p>According to a new study, 40% of adults skip breakfast.</p></article>
<footer>Copyright</footer></body></html>`

func TestCheckURL_ChecksVisibleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	p := New(newTestEngine(), WithLogger(zap.NewNop()))
	report, err := p.CheckURL(context.Background(), server.URL+"/health/breakfast-study")
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/health/breakfast-study", report.SourceURL)
	assert.Equal(t, "breakfast study", report.Subject)
	require.NotNil(t, report.FetchMeta)
	assert.Equal(t, http.StatusOK, report.FetchMeta.StatusCode)
	assert.Contains(t, report.Claim, "40% of adults")
	assert.NotContains(t, report.Claim, "Copyright")
}

func TestCheckURL_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := New(newTestEngine(), WithLogger(zap.NewNop()))
	_, err := p.CheckURL(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCheck_Routes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	p := New(newTestEngine(), WithLogger(zap.NewNop()))

	fromURL, err := p.Check(context.Background(), "  "+server.URL+"/page ")
	require.NoError(t, err)
	assert.NotEmpty(t, fromURL.SourceURL)

	fromText, err := p.Check(context.Background(), "Drinking water prevents all diseases")
	require.NoError(t, err)
	assert.Empty(t, fromText.SourceURL)
	assert.NotNil(t, fromText.Extraction)
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a":        true,
		"HTTP://EXAMPLE.COM":           true,
		"ftp://example.com":            false,
		"example.com":                  false,
		"https://example.com has cats": false,
		"":                             false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsURL(in), in)
	}
}

func TestRender_WritesOutputs(t *testing.T) {
	p := New(newTestEngine(), WithLogger(zap.NewNop()))
	report, err := p.CheckText(context.Background(), "Vaccines cause autism")
	require.NoError(t, err)
	report.LLM = &model.LLMSummary{Enabled: true, Provider: "openai", Model: "gpt-4o-mini", SummaryMD: "Short narrative."}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "report.json")
	mdPath := filepath.Join(dir, "report.md")
	var stdout bytes.Buffer

	require.NoError(t, p.Render(report, jsonPath, mdPath, &stdout))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"claim": "Vaccines cause autism"`)
	assert.Contains(t, string(data), `"credibility_score"`)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Claim Check")
	assert.Contains(t, string(md), "> Vaccines cause autism")
	assert.Contains(t, string(md), "## Reasoning")
	assert.Contains(t, string(md), reportFooter)

	llmMD, err := os.ReadFile(filepath.Join(dir, "report.llm.md"))
	require.NoError(t, err)
	assert.Contains(t, string(llmMD), "Short narrative.")

	assert.Contains(t, stdout.String(), "Claim: Vaccines cause autism")
	assert.Contains(t, stdout.String(), "Credibility: ")
}

func TestRenderer_NoFooter(t *testing.T) {
	report := &model.CheckReport{Claim: "x", Result: model.ErrorResult("boom")}

	md := NewRenderer(false).Markdown(report)
	assert.NotContains(t, md, reportFooter)
	assert.Contains(t, md, "| Status | error |")
	assert.Contains(t, md, "- boom")
}

func TestLLMPath(t *testing.T) {
	assert.Equal(t, "out/report.llm.md", LLMPath("out/report.md"))
	assert.Equal(t, "notes.txt.llm.md", LLMPath("notes.txt"))
}
