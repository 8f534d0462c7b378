package explain

import (
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

// MaxRealFacts caps the facts attached to a result
const MaxRealFacts = 8

const reliabilityHigh = "High"

// factPool is a set of facts attached when a claim mentions a topic
type factPool struct {
	match func(lower string) bool
	facts []model.RealFact
}

// factRule adds a single fact when its predicate holds
type factRule struct {
	match func(lower string) bool
	fact  model.RealFact
}

func mentions(terms ...string) func(string) bool {
	return func(lower string) bool { return util.ContainsAny(lower, terms) }
}

// hydrationTopic matches claims about water and health
func hydrationTopic(lower string) bool {
	return strings.Contains(lower, "water") &&
		util.ContainsAny(lower, []string{"health", "disease", "prevent", "glasses"})
}

// Topic pools are exclusive: only the first matching pool contributes.
var topicPools = []factPool{
	{
		match: hydrationTopic,
		facts: []model.RealFact{
			{
				Type:        "scientific_fact",
				Content:     "The human body is approximately 60% water, and adequate hydration is essential for proper bodily functions including temperature regulation, joint lubrication, and nutrient transport.",
				Source:      "Mayo Clinic & National Academies of Sciences",
				Reliability: reliabilityHigh,
			},
			{
				Type:        "medical_fact",
				Content:     `While proper hydration supports immune function and overall health, no single intervention can "prevent all diseases" as claimed. Disease prevention requires multiple factors including genetics, lifestyle, vaccination, and medical care.`,
				Source:      "Centers for Disease Control and Prevention",
				Reliability: reliabilityHigh,
			},
			{
				Type:        "recommendation_fact",
				Content:     "The National Academies recommend about 15.5 cups (3.7 liters) of fluids daily for men and 11.5 cups (2.7 liters) for women, including water from food and other beverages.",
				Source:      "National Academies of Sciences, Engineering, and Medicine",
				Reliability: reliabilityHigh,
			},
		},
	},
	{
		match: mentions("vaccine", "vaccination"),
		facts: []model.RealFact{
			{
				Type:        "medical_fact",
				Content:     "Vaccines undergo rigorous testing in multiple phases of clinical trials before approval, and continue to be monitored for safety and effectiveness after deployment.",
				Source:      "FDA and CDC Vaccine Safety Monitoring",
				Reliability: reliabilityHigh,
			},
			{
				Type:        "scientific_fact",
				Content:     "Vaccines have prevented an estimated 21 million hospitalizations and 732,000 deaths among children born in the last 20 years in the US alone.",
				Source:      "CDC Vaccine Impact Studies",
				Reliability: reliabilityHigh,
			},
		},
	},
	{
		match: mentions("climate", "global warming", "temperature"),
		facts: []model.RealFact{
			{
				Type:        "scientific_fact",
				Content:     "Multiple independent datasets show global average temperatures have risen by approximately 1.1°C (2°F) since the late 19th century, with most warming occurring in the past 40 years.",
				Source:      "NASA Goddard Institute for Space Studies",
				Reliability: reliabilityHigh,
			},
			{
				Type:        "consensus_fact",
				Content:     "Over 97% of actively publishing climate scientists agree that recent climate change is primarily caused by human activities, based on multiple independent studies.",
				Source:      "NASA Climate Science Consensus",
				Reliability: reliabilityHigh,
			},
		},
	},
}

// Corrections are independent; every matching rule contributes.
var corrections = []factRule{
	{
		match: mentions("all", "every", "never", "always", "completely prevent"),
		fact: model.RealFact{
			Type:        "correction",
			Content:     "Be cautious of absolute statements in health and science. Most biological and medical processes are complex and influenced by multiple factors, making absolute claims rarely accurate.",
			Source:      "Scientific Method Principles",
			Reliability: reliabilityHigh,
		},
	},
	{
		match: func(lower string) bool {
			return strings.Contains(lower, "new study") &&
				!util.ContainsAny(lower, []string{"university", "journal", "published"})
		},
		fact: model.RealFact{
			Type:        "verification_tip",
			Content:     `When evaluating "new study" claims, look for: the research institution, journal name, sample size, peer review status, and whether results have been replicated by independent researchers.`,
			Source:      "Research Evaluation Guidelines",
			Reliability: reliabilityHigh,
		},
	},
	{
		match: mentions("cure", "miracle", "secret", "doctors don't want"),
		fact: model.RealFact{
			Type:        "warning",
			Content:     `Claims about "miracle cures" or "secrets doctors don't want you to know" are common in medical misinformation. Legitimate medical breakthroughs are published in peer-reviewed journals and widely reported by reputable medical organizations.`,
			Source:      "Medical Misinformation Guidelines",
			Reliability: reliabilityHigh,
		},
	},
}

// Guidance rules are exclusive: at most one contributes.
var guidance = []factRule{
	{
		match: mentions("health", "medical", "disease", "doctor"),
		fact: model.RealFact{
			Type:        "authoritative_guidance",
			Content:     "For reliable health information, consult healthcare professionals and trusted sources like the CDC, WHO, Mayo Clinic, or peer-reviewed medical journals. Be wary of health claims from non-medical sources.",
			Source:      "Health Information Best Practices",
			Reliability: reliabilityHigh,
		},
	},
	{
		match: mentions("study", "research", "scientist", "data"),
		fact: model.RealFact{
			Type:        "scientific_guidance",
			Content:     "Reliable scientific information comes from peer-reviewed research, replicated studies, and scientific consensus. Single studies should be evaluated within the broader context of existing research.",
			Source:      "Scientific Method Standards",
			Reliability: reliabilityHigh,
		},
	},
}

// RealFacts returns topic facts, then corrections, then guidance,
// truncated to MaxRealFacts. The result is never nil.
func RealFacts(claimText string) []model.RealFact {
	lower := strings.ToLower(claimText)
	facts := []model.RealFact{}

	for _, pool := range topicPools {
		if pool.match(lower) {
			facts = append(facts, pool.facts...)
			break
		}
	}

	for _, rule := range corrections {
		if rule.match(lower) {
			facts = append(facts, rule.fact)
		}
	}

	for _, rule := range guidance {
		if rule.match(lower) {
			facts = append(facts, rule.fact)
			break
		}
	}

	if len(facts) > MaxRealFacts {
		facts = facts[:MaxRealFacts]
	}
	return facts
}
