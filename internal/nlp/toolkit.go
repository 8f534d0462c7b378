// Package nlp defines the language toolkit used for claim extraction:
// sentence segmentation, named entities and part-of-speech tokens.
package nlp

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/truthlens/internal/model"
)

// Toolkit segments text and tags entities and tokens
type Toolkit interface {
	Sentences(text string) ([]string, error)
	Entities(text string) ([]model.Entity, error)
	Tokens(text string) ([]Token, error)
}

// Token is a word or punctuation token with a Penn Treebank tag
type Token struct {
	Text string
	Tag  string
}

// Provider names accepted by NewToolkit
const (
	ProviderProse = "prose"
	ProviderRules = "rules"
)

// NewToolkit returns the toolkit for a configured provider name
func NewToolkit(provider string) (Toolkit, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderProse:
		return NewProseToolkit(), nil
	case ProviderRules:
		return NewRuleToolkit(), nil
	default:
		return nil, eris.Errorf("unknown nlp provider %q (expected %s or %s)", provider, ProviderProse, ProviderRules)
	}
}

var labelDescriptions = map[string]string{
	"PERSON":      "People, including fictional",
	"NORP":        "Nationalities or religious or political groups",
	"FAC":         "Buildings, airports, highways, bridges, etc.",
	"ORG":         "Companies, agencies, institutions, etc.",
	"GPE":         "Countries, cities, states",
	"LOC":         "Non-GPE locations, mountain ranges, bodies of water",
	"PRODUCT":     "Objects, vehicles, foods, etc. (not services)",
	"EVENT":       "Named hurricanes, battles, wars, sports events, etc.",
	"WORK_OF_ART": "Titles of books, songs, etc.",
	"LAW":         "Named documents made into laws.",
	"LANGUAGE":    "Any named language",
	"DATE":        "Absolute or relative dates or periods",
	"TIME":        "Times smaller than a day",
	"PERCENT":     `Percentage, including "%"`,
	"MONEY":       "Monetary values, including unit",
	"QUANTITY":    "Measurements, as of weight or distance",
	"ORDINAL":     `"first", "second", etc.`,
	"CARDINAL":    "Numerals that do not fall under another type",
	"PROPN":       "Proper noun",
}

// Describe returns a human-readable description of an entity label,
// or the label itself when it is unknown.
func Describe(label string) string {
	if d, ok := labelDescriptions[label]; ok {
		return d
	}
	return label
}

// IsContentTag reports whether a tag marks a noun, adjective or verb
func IsContentTag(tag string) bool {
	return strings.HasPrefix(tag, "NN") || strings.HasPrefix(tag, "JJ") || strings.HasPrefix(tag, "VB")
}

// IsProperNounTag reports whether a tag marks a proper noun
func IsProperNounTag(tag string) bool {
	return tag == "NNP" || tag == "NNPS"
}

// IsNumberTag reports whether a tag marks a cardinal number
func IsNumberTag(tag string) bool {
	return tag == "CD"
}
