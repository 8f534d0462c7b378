package score

import (
	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

const defaultBaseScore = 5.8

// baseRule matches a topic and picks one of two scores depending on a
// qualifier. Rules are evaluated in order; the first topic match wins.
type baseRule struct {
	name          string
	topic         []string
	qualifierName string
	qualifier     func(lower string) bool
	qualified     float64
	otherwise     float64
}

type phraseOverride struct {
	name    string
	phrases []string
}

type categoryRule struct {
	category model.Category
	terms    []string
}

func anyOf(terms ...string) func(string) bool {
	return func(lower string) bool {
		return util.ContainsAny(lower, terms)
	}
}

var baseRules = []baseRule{
	{
		name:      "medical_absolutism",
		topic:     []string{"all diseases", "prevent all", "cure everything", "never fails"},
		qualified: 3.2,
		otherwise: 3.2,
	},
	{
		name:          "research_citation",
		topic:         []string{"study shows", "research proves", "scientists say"},
		qualifierName: "recent",
		qualifier:     anyOf("new", "recent", "latest"),
		qualified:     6.1,
		otherwise:     7.4,
	},
	{
		name:          "vaccine",
		topic:         []string{"vaccine", "vaccination"},
		qualifierName: "harm",
		qualifier:     anyOf("dangerous", "harmful", "toxic"),
		qualified:     1.8,
		otherwise:     8.6,
	},
	{
		name:          "hydration",
		topic:         []string{"water", "hydration"},
		qualifierName: "overreach",
		qualifier: func(lower string) bool {
			return util.ContainsAny(lower, []string{"glasses"}) &&
				util.ContainsAny(lower, []string{"prevent", "disease"})
		},
		qualified: 4.7,
		otherwise: 7.9,
	},
	{
		name:          "climate",
		topic:         []string{"climate change", "global warming"},
		qualifierName: "denial",
		qualifier:     anyOf("hoax", "fake", "conspiracy"),
		qualified:     1.6,
		otherwise:     8.9,
	},
	{
		name:          "election",
		topic:         []string{"election", "voting", "ballot"},
		qualifierName: "fraud",
		qualifier:     anyOf("fraud", "rigged", "stolen"),
		qualified:     2.3,
		otherwise:     7.7,
	},
	{
		name:          "wireless",
		topic:         []string{"5g", "radiation", "cell tower"},
		qualifierName: "harm",
		qualifier:     anyOf("cancer", "harmful", "dangerous"),
		qualified:     2.9,
		otherwise:     7.3,
	},
}

var statusOverrides = []phraseOverride{
	{
		name: "known_false",
		phrases: []string{
			"earth is flat", "flat earth", "vaccines cause autism",
			"covid vaccine contains microchip", "vaccine microchip",
			"drink bleach", "bleach cure", "mms cure",
		},
	},
	{
		name: "suspicious",
		phrases: []string{
			"doctors hate this", "one weird trick", "they don't want you to know",
			"big pharma conspiracy", "government cover-up", "secret cure",
		},
	},
}

var categoryRules = []categoryRule{
	{model.CategoryHealth, []string{"health", "medical", "vaccine", "doctor", "disease"}},
	{model.CategoryPolitics, []string{"election", "vote", "politics", "government"}},
	{model.CategoryFinance, []string{"money", "financial", "economy", "stock", "investment"}},
	{model.CategoryEnvironment, []string{"climate", "environment", "global warming"}},
	{model.CategoryTechnology, []string{"technology", "ai", "computer", "internet"}},
}
