package nlp

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/truthlens/internal/model"
)

const (
	punctTag    = "."
	functionTag = "DT"
)

var months = toSet(
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
)

var orgWords = toSet(
	"university", "institute", "organization", "organisation", "association",
	"agency", "department", "commission", "center", "centre", "council",
	"foundation", "inc", "corp", "ltd", "company", "ministry", "bureau",
)

// RuleToolkit is a deterministic toolkit built on punctuation and
// capitalization heuristics. It needs no model data.
type RuleToolkit struct{}

// NewRuleToolkit creates a rule-based toolkit
func NewRuleToolkit() *RuleToolkit {
	return &RuleToolkit{}
}

// Sentences splits on '.', '!' or '?' followed by whitespace or end of text
func (t *RuleToolkit) Sentences(text string) ([]string, error) {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Decimals such as "3.5" are not followed by whitespace
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences, nil
}

// Tokens splits text into word and punctuation tokens and tags them
func (t *RuleToolkit) Tokens(text string) ([]Token, error) {
	var tokens []Token
	for _, w := range splitWords(text) {
		if w.lead != "" {
			tokens = append(tokens, Token{Text: w.lead, Tag: punctTag})
		}
		if w.core != "" {
			tokens = append(tokens, Token{Text: w.core, Tag: tagWord(w.core, w.sentenceStart)})
		}
		if w.trail != "" {
			tokens = append(tokens, Token{Text: w.trail, Tag: punctTag})
		}
	}
	return tokens, nil
}

// Entities tags numbers, percentages, money, dates and capitalized spans
func (t *RuleToolkit) Entities(text string) ([]model.Entity, error) {
	words := splitWords(text)
	entities := []model.Entity{}

	add := func(text, label string) {
		entities = append(entities, model.Entity{Text: text, Label: label, Description: Describe(label)})
	}

	for i := 0; i < len(words); i++ {
		w := words[i]
		if w.core == "" {
			continue
		}

		switch {
		case isNumeric(w.core):
			switch {
			case strings.HasPrefix(w.trail, "%"):
				add(w.core+"%", "PERCENT")
			case w.trail == "" && i+1 < len(words) && strings.EqualFold(words[i+1].core, "percent"):
				add(w.core+" "+words[i+1].core, "PERCENT")
				i++
			case strings.HasSuffix(w.lead, "$"):
				add("$"+w.core, "MONEY")
			case isYear(w.core):
				add(w.core, "DATE")
			default:
				add(w.core, "CARDINAL")
			}

		case isMonth(w, words, i):
			span := w.core
			if w.trail == "" && i+1 < len(words) && isNumeric(words[i+1].core) && words[i+1].lead == "" {
				span += " " + words[i+1].core
				i++
			}
			add(span, "DATE")

		case isNameWord(w.core):
			j := i + 1
			for j < len(words) && words[j-1].trail == "" && words[j].lead == "" && isNameWord(words[j].core) {
				j++
			}
			span := words[i:j]
			i = j - 1

			if len(span) == 1 && span[0].sentenceStart && !isAcronym(span[0].core) {
				continue
			}

			parts := make([]string, len(span))
			label := "PROPN"
			for k, s := range span {
				parts[k] = s.core
				if isAcronym(s.core) || orgWords[strings.ToLower(s.core)] {
					label = "ORG"
				}
			}
			add(strings.Join(parts, " "), label)
		}
	}

	return entities, nil
}

// word is a whitespace-delimited field split into surrounding punctuation
// and its alphanumeric core
type word struct {
	lead, core, trail string
	sentenceStart     bool
}

func splitWords(text string) []word {
	var words []word
	sentenceStart := true

	for _, f := range strings.Fields(text) {
		lead, core, trail := splitPunct(f)
		words = append(words, word{lead: lead, core: core, trail: trail, sentenceStart: sentenceStart})

		switch {
		case core != "":
			sentenceStart = strings.ContainsAny(trail, ".!?")
		case strings.ContainsAny(lead, ".!?"):
			sentenceStart = true
		}
	}
	return words
}

func splitPunct(field string) (lead, core, trail string) {
	start := strings.IndexFunc(field, isWordRune)
	if start < 0 {
		return field, "", ""
	}
	end := strings.LastIndexFunc(field, isWordRune)
	_, size := utf8.DecodeRuneInString(field[end:])
	return field[:start], field[start : end+size], field[end+size:]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func tagWord(w string, sentenceStart bool) string {
	switch {
	case isNumeric(w):
		return "CD"
	case isAcronym(w):
		return "NNP"
	case IsStopWord(w):
		return functionTag
	case startsUpper(w) && !sentenceStart:
		return "NNP"
	}

	lower := strings.ToLower(w)
	switch {
	case strings.HasSuffix(lower, "ly"):
		return "RB"
	case strings.HasSuffix(lower, "ing"):
		return "VBG"
	case strings.HasSuffix(lower, "ed"):
		return "VBD"
	}
	return "NN"
}

func isNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ',' || r == '.':
		default:
			return false
		}
	}
	return digits > 0
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1500 && n <= 2100
}

// isMonth matches a capitalized month name; "May" needs a following number
func isMonth(w word, words []word, i int) bool {
	lower := strings.ToLower(w.core)
	if !months[lower] || !startsUpper(w.core) {
		return false
	}
	if lower == "may" {
		return w.trail == "" && i+1 < len(words) && isNumeric(words[i+1].core)
	}
	return true
}

func isNameWord(s string) bool {
	return startsUpper(s) && (isAcronym(s) || !IsStopWord(s))
}

func isAcronym(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			letters++
		case r == '.':
		default:
			return false
		}
	}
	return letters >= 2
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
