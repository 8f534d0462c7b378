package model

// Provenance records where external fact-check data came from
type Provenance string

const (
	ProvenanceLive        Provenance = "live"        // Returned by a live fact-check provider
	ProvenanceDemo        Provenance = "demo"        // Illustrative fixture data, never corroboration
	ProvenanceUnavailable Provenance = "unavailable" // Lookup failed; the set is empty
)

// ExternalClaimRecord is a single third-party fact-check of a similar claim.
// Rating is free text from the provider and is empty when unknown.
type ExternalClaimRecord struct {
	Text      string `json:"text"`
	Claimant  string `json:"claimant"`
	Rating    string `json:"rating"`
	SourceURL string `json:"url"`
}

// ExternalResultSet is the normalized output of a fact-check lookup
type ExternalResultSet struct {
	Claims     []ExternalClaimRecord `json:"claims"`
	Sources    []string              `json:"sources"` // Deduplicated publisher names, first-seen order
	Provenance Provenance            `json:"provenance"`
	Note       string                `json:"note,omitempty"` // Reason when Provenance is unavailable
}

// EmptyResultSet returns the degraded result used when a lookup fails
func EmptyResultSet(reason string) ExternalResultSet {
	return ExternalResultSet{
		Claims:     []ExternalClaimRecord{},
		Sources:    []string{},
		Provenance: ProvenanceUnavailable,
		Note:       reason,
	}
}

// IsDemo reports whether the set holds illustrative data only
func (s ExternalResultSet) IsDemo() bool {
	return s.Provenance == ProvenanceDemo
}

// AddSource appends a publisher name unless it is empty or already present
func (s *ExternalResultSet) AddSource(name string) {
	if name == "" {
		return
	}
	for _, existing := range s.Sources {
		if existing == name {
			return
		}
	}
	s.Sources = append(s.Sources, name)
}
