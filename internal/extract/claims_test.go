package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/nlp"
)

// stubToolkit delegates to the rule toolkit unless told to fail
type stubToolkit struct {
	*nlp.RuleToolkit
	sentencesErr error
	entitiesErr  error
	tokensErr    error
	panics       bool
}

func newStub() *stubToolkit {
	return &stubToolkit{RuleToolkit: nlp.NewRuleToolkit()}
}

func (s *stubToolkit) Sentences(text string) ([]string, error) {
	if s.panics {
		panic("model not loaded")
	}
	if s.sentencesErr != nil {
		return nil, s.sentencesErr
	}
	return s.RuleToolkit.Sentences(text)
}

func (s *stubToolkit) Entities(text string) ([]model.Entity, error) {
	if s.entitiesErr != nil {
		return nil, s.entitiesErr
	}
	return s.RuleToolkit.Entities(text)
}

func (s *stubToolkit) Tokens(text string) ([]nlp.Token, error) {
	if s.tokensErr != nil {
		return nil, s.tokensErr
	}
	return s.RuleToolkit.Tokens(text)
}

func TestClaimExtractor_ResearchClaim(t *testing.T) {
	e := NewClaimExtractor(nil, nil)

	got := e.Extract("A recent study shows 40% of adults are dehydrated. The sky is blue.")

	require.Len(t, got.Claims, 1)
	c := got.Claims[0]
	assert.Equal(t, "A recent study shows 40% of adults are dehydrated.", c.Text)
	assert.Equal(t, 0, c.SentenceIndex)
	assert.Equal(t, 0.9, c.Confidence)
	assert.Equal(t, model.ClaimTypeResearch, c.Type)
	assert.True(t, c.HasClaimIndicator)
	assert.True(t, c.HasFactualContent)
	assert.True(t, c.HasNumbers)
	assert.Contains(t, c.Entities, model.Entity{Text: "40%", Label: "PERCENT", Description: nlp.Describe("PERCENT")})
	assert.Equal(t, model.OutcomeOK, got.Outcome)
}

func TestClaimExtractor_SentenceOrderAndMainClaim(t *testing.T) {
	e := NewClaimExtractor(nil, nil)

	got := e.Extract("Experts say coffee is healthy. Data shows 3 cups a day is fine.")

	require.Len(t, got.Claims, 2)
	assert.Equal(t, 0, got.Claims[0].SentenceIndex)
	assert.Equal(t, 0.4, got.Claims[0].Confidence)
	assert.Equal(t, model.ClaimTypeExpert, got.Claims[0].Type)
	assert.Equal(t, 1, got.Claims[1].SentenceIndex)
	assert.Equal(t, 0.9, got.Claims[1].Confidence)
	assert.Equal(t, model.ClaimTypeStatistical, got.Claims[1].Type)

	main, ok := got.MainClaim()
	require.True(t, ok)
	assert.Equal(t, 1, main.SentenceIndex)
}

func TestClaimExtractor_LongSentenceBonus(t *testing.T) {
	e := NewClaimExtractor(nil, nil)

	got := e.Extract("Reportedly the new mayor of the small coastal town plans to rebuild the old harbor soon")

	require.Len(t, got.Claims, 1)
	assert.Equal(t, 0.5, got.Claims[0].Confidence)
	assert.Equal(t, model.ClaimTypeGeneral, got.Claims[0].Type)
	assert.True(t, got.Claims[0].HasClaimIndicator)
}

func TestClaimExtractor_FallbackWholeText(t *testing.T) {
	e := NewClaimExtractor(nil, nil)

	tests := []string{
		"  The sky is blue and the grass is green  ",
		"It costs 5 dollars",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			got := e.Extract(text)

			require.Len(t, got.Claims, 1)
			c := got.Claims[0]
			assert.Equal(t, model.OutcomeOK, got.Outcome)
			assert.Equal(t, 0.5, c.Confidence)
			assert.Equal(t, 0, c.SentenceIndex)
			assert.Equal(t, model.ClaimTypeGeneral, c.Type)
			assert.False(t, c.HasFactualContent)
			assert.NotNil(t, c.Entities)
		})
	}
}

func TestClaimExtractor_EmptyInput(t *testing.T) {
	got := NewClaimExtractor(nil, nil).Extract(" \n ")

	assert.Empty(t, got.Claims)
	assert.NotNil(t, got.Claims)
	assert.Equal(t, model.OutcomeOK, got.Outcome)
}

func TestClaimExtractor_ToolkitFailureDegrades(t *testing.T) {
	stub := newStub()
	stub.sentencesErr = errors.New("segmenter offline")

	got := NewClaimExtractor(stub, nil).Extract(" Study shows 40% agree. ")

	require.Len(t, got.Claims, 1)
	c := got.Claims[0]
	assert.Equal(t, "Study shows 40% agree.", c.Text)
	assert.Equal(t, 0.3, c.Confidence)
	assert.Equal(t, model.ClaimTypeGeneral, c.Type)
	assert.Empty(t, c.Entities)
	assert.False(t, c.HasFactualContent)
	assert.Equal(t, model.OutcomeDegraded, got.Outcome)
	assert.Contains(t, got.Note, "segmenter offline")
}

func TestClaimExtractor_ToolkitPanicDegrades(t *testing.T) {
	stub := newStub()
	stub.panics = true

	got := NewClaimExtractor(stub, nil).Extract("Anything at all")

	require.Len(t, got.Claims, 1)
	assert.Equal(t, 0.3, got.Claims[0].Confidence)
	assert.Equal(t, model.OutcomeDegraded, got.Outcome)
}

func TestClaimExtractor_EntityFailureKeepsClaim(t *testing.T) {
	stub := newStub()
	stub.entitiesErr = errors.New("ner failed")

	got := NewClaimExtractor(stub, nil).Extract("According to the CDC, data shows 40% agree.")

	require.Len(t, got.Claims, 1)
	assert.Equal(t, model.OutcomeOK, got.Outcome)
	assert.Equal(t, []model.Entity{}, got.Claims[0].Entities)
	assert.Equal(t, 0.9, got.Claims[0].Confidence)
}

func TestClaimExtractor_ClassifyPrecedence(t *testing.T) {
	e := NewClaimExtractor(nil, nil)

	tests := []struct {
		text string
		want model.ClaimType
	}{
		{"statistics from a survey", model.ClaimTypeResearch},
		{"statistics say 5", model.ClaimTypeStatistical},
		{"an expert said so", model.ClaimTypeExpert},
		{"according to sources", model.ClaimTypeAttributed},
		{"nothing special", model.ClaimTypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, e.classify(tt.text))
		})
	}
}

func TestClaimExtractor_TextQuality(t *testing.T) {
	e := NewClaimExtractor(nil, nil)

	q := e.TextQuality("The WHO reported 5 cases. See http://who.int now.")

	assert.Equal(t, 10, q.WordCount)
	assert.Equal(t, 2, q.SentenceCount)
	assert.Equal(t, 5.0, q.AvgSentenceLength)
	assert.InDelta(t, 0.333, q.ComplexityScore, 0.001)
	assert.True(t, q.HasProperNouns)
	assert.True(t, q.HasNumbers)
	assert.True(t, q.HasURLs)
}

func TestClaimExtractor_TextQualityFallback(t *testing.T) {
	stub := newStub()
	stub.tokensErr = errors.New("tagger offline")

	q := NewClaimExtractor(stub, nil).TextQuality("one two 3")

	assert.Equal(t, model.TextQuality{
		WordCount:         3,
		SentenceCount:     1,
		AvgSentenceLength: 3,
		HasNumbers:        true,
		ComplexityScore:   0.5,
	}, q)
}

func TestClaimExtractor_Keywords(t *testing.T) {
	e := NewClaimExtractor(nil, nil)
	text := "Doctors quickly reported rising measles cases in Brazil and Brazil again."

	assert.Equal(t, []string{"doctors", "reported", "rising", "measles", "cases", "brazil"}, e.Keywords(text, 0))
	assert.Equal(t, []string{"doctors", "reported", "rising"}, e.Keywords(text, 3))
}

func TestClaimExtractor_KeywordsFallback(t *testing.T) {
	stub := newStub()
	stub.tokensErr = errors.New("tagger offline")

	got := NewClaimExtractor(stub, nil).Keywords("The big elephant walks", 10)

	assert.Equal(t, []string{"elephant", "walks"}, got)
}
