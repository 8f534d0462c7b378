package factcheck

import (
	"context"
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

type demoTopic struct {
	terms   []string
	record  model.ExternalClaimRecord
	sources []string
}

var demoTopics = []demoTopic{
	{
		terms: []string{"vaccine", "covid", "coronavirus"},
		record: model.ExternalClaimRecord{
			Text:      "Health-related claim detected",
			Claimant:  "Unknown",
			Rating:    "Needs verification",
			SourceURL: "https://example.com/health-factcheck",
		},
		sources: []string{"WHO", "CDC", "Medical Journals"},
	},
	{
		terms: []string{"election", "vote", "ballot"},
		record: model.ExternalClaimRecord{
			Text:      "Election-related claim detected",
			Claimant:  "Unknown",
			Rating:    "Requires fact-checking",
			SourceURL: "https://example.com/election-factcheck",
		},
		sources: []string{"Election Commission", "Reuters", "Associated Press"},
	},
}

var demoGeneral = demoTopic{
	record: model.ExternalClaimRecord{
		Text:      "General claim detected",
		Claimant:  "Unknown",
		Rating:    "Under review",
		SourceURL: "https://example.com/general-factcheck",
	},
	sources: []string{"News Sources", "Academic Papers"},
}

// DemoGateway returns fixed illustrative records chosen by topic.
// Its results carry provenance "demo" and are never corroboration.
type DemoGateway struct{}

// NewDemoGateway creates the offline demo gateway
func NewDemoGateway() *DemoGateway {
	return &DemoGateway{}
}

// Name returns the gateway name
func (g *DemoGateway) Name() string {
	return "demo"
}

// Lookup returns the fixture for the first matching topic
func (g *DemoGateway) Lookup(_ context.Context, claimText string) model.ExternalResultSet {
	lower := strings.ToLower(claimText)

	topic := demoGeneral
	for _, t := range demoTopics {
		if util.ContainsAny(lower, t.terms) {
			topic = t
			break
		}
	}

	set := model.ExternalResultSet{
		Claims:     []model.ExternalClaimRecord{topic.record},
		Sources:    []string{},
		Provenance: model.ProvenanceDemo,
		Note:       "demo data: no live fact-check API key configured",
	}
	for _, s := range topic.sources {
		set.AddSource(s)
	}
	return set
}
