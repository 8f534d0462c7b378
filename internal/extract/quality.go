package extract

import (
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/nlp"
	"github.com/ppiankov/truthlens/internal/util"
)

// DefaultMaxKeywords is the keyword cap used when callers pass zero
const DefaultMaxKeywords = 10

// TextQuality measures word and sentence statistics of text
func (e *ClaimExtractor) TextQuality(text string) model.TextQuality {
	tokens, err := e.toolkit.Tokens(text)
	if err != nil {
		e.logger.Warn("text quality analysis failed, using word split", zap.Error(err))
		return fallbackQuality(text)
	}
	sentences, err := e.toolkit.Sentences(text)
	if err != nil {
		e.logger.Warn("text quality analysis failed, using word split", zap.Error(err))
		return fallbackQuality(text)
	}

	q := model.TextQuality{
		WordCount:     len(tokens),
		SentenceCount: len(sentences),
	}

	avg := float64(q.WordCount) / math.Max(float64(q.SentenceCount), 1)
	q.AvgSentenceLength = math.Round(avg*100) / 100
	q.ComplexityScore = math.Min(avg/15, 1)

	for _, t := range tokens {
		lower := strings.ToLower(t.Text)
		switch {
		case nlp.IsProperNounTag(t.Tag):
			q.HasProperNouns = true
		case nlp.IsNumberTag(t.Tag):
			q.HasNumbers = true
		}
		if strings.Contains(lower, "http") || strings.Contains(lower, "www.") {
			q.HasURLs = true
		}
	}

	return q
}

func fallbackQuality(text string) model.TextQuality {
	words := len(strings.Fields(text))
	return model.TextQuality{
		WordCount:         words,
		SentenceCount:     1,
		AvgSentenceLength: float64(words),
		HasNumbers:        util.HasDigit(text),
		HasURLs:           strings.Contains(strings.ToLower(text), "http"),
		ComplexityScore:   0.5,
	}
}

// Keywords returns up to max distinct lowercased content words in order
// of first appearance. Stop words, punctuation and words of two
// characters or fewer are dropped.
func (e *ClaimExtractor) Keywords(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxKeywords
	}

	tokens, err := e.toolkit.Tokens(text)
	if err != nil {
		e.logger.Warn("keyword extraction failed, using word split", zap.Error(err))
		return fallbackKeywords(text, max)
	}

	seen := make(map[string]bool)
	keywords := []string{}
	for _, t := range tokens {
		if len(keywords) == max {
			break
		}
		if nlp.IsStopWord(t.Text) || utf8.RuneCountInString(t.Text) <= 2 || !nlp.IsContentTag(t.Tag) {
			continue
		}
		kw := strings.ToLower(t.Text)
		if !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func fallbackKeywords(text string, max int) []string {
	keywords := []string{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(keywords) == max {
			break
		}
		if utf8.RuneCountInString(w) > 3 {
			keywords = append(keywords, w)
		}
	}
	return keywords
}
