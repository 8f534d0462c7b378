package nlp

import (
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/rotisserie/eris"

	"github.com/ppiankov/truthlens/internal/model"
)

// ProseToolkit is backed by the prose statistical models for
// segmentation, tagging and named-entity recognition
type ProseToolkit struct{}

// NewProseToolkit creates a prose-backed toolkit
func NewProseToolkit() *ProseToolkit {
	return &ProseToolkit{}
}

// Sentences segments text into trimmed, non-empty sentences
func (p *ProseToolkit) Sentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return nil, eris.Wrap(err, "segment text")
	}

	var sentences []string
	for _, s := range doc.Sentences() {
		if t := strings.TrimSpace(s.Text); t != "" {
			sentences = append(sentences, t)
		}
	}
	return sentences, nil
}

// Entities runs named-entity recognition over text
func (p *ProseToolkit) Entities(text string) ([]model.Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, eris.Wrap(err, "extract entities")
	}

	entities := []model.Entity{}
	for _, e := range doc.Entities() {
		entities = append(entities, model.Entity{
			Text:        e.Text,
			Label:       e.Label,
			Description: Describe(e.Label),
		})
	}
	return entities, nil
}

// Tokens tokenizes and part-of-speech tags text
func (p *ProseToolkit) Tokens(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.WithExtraction(false))
	if err != nil {
		return nil, eris.Wrap(err, "tag tokens")
	}

	tokens := make([]Token, 0, len(doc.Tokens()))
	for _, t := range doc.Tokens() {
		tokens = append(tokens, Token{Text: t.Text, Tag: t.Tag})
	}
	return tokens, nil
}
