package model

import "strings"

// Finding type identifiers. The aggregator assigns one of these to each
// finding it produces; they group findings for ordering and display.
const (
	// FindingSecurityAlert is the synthetic high-priority alert injected
	// first whenever at least one breach signal is present.
	FindingSecurityAlert = "security_alert"

	// FindingBreach is a per-breach-name finding.
	FindingBreach = "breach"

	// FindingIdentity is an identity-linkage finding (avatar, profile photo).
	FindingIdentity = "identity"

	// FindingCertificate is a certificate-transparency finding.
	FindingCertificate = "certificate"

	// FindingAccount is an account-existence finding on a payment or
	// creative platform.
	FindingAccount = "account"

	// FindingProfileSummary is the synthetic "N profiles found" header
	// injected before the individual per-site findings.
	FindingProfileSummary = "profile_summary"

	// FindingProfile is a per-site account-existence finding.
	FindingProfile = "profile"

	// FindingGraph is the reserved out-of-band entry carrying the graph
	// payload for visualization clients.
	FindingGraph = "graph"
)

// GraphDataToken is the fixed prefix that distinguishes the graph payload
// entry from ordinary findings. Rendering clients match on this token and
// must not count the entry toward displayed finding totals.
const GraphDataToken = "GRAPH_DATA:"

// Finding is an aggregator-produced, ordered, human-readable statement
// derived from a positive Signal or synthesized by the scoring policy.
// Ordering within a finding list is significant and must be preserved
// through storage and API responses.
type Finding struct {
	// Type is the finding type identifier (one of the Finding* constants).
	Type string `json:"type"`

	// Source identifies the probe or site the finding derives from.
	// Empty for synthetic findings.
	Source string `json:"source,omitempty"`

	// Text is the human-readable statement shown to the user.
	Text string `json:"text"`

	// Severity is the risk level; SeverityNone for non-breach findings.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// URL is an optional link to the discovered resource.
	URL string `json:"url,omitempty"`
}

// IsGraphPayload reports whether this finding is the reserved graph entry.
func (f Finding) IsGraphPayload() bool {
	return f.Type == FindingGraph || strings.HasPrefix(f.Text, GraphDataToken)
}

// CountDisplayFindings returns the number of findings that should be
// counted in user-facing totals. The graph payload entry is excluded.
func CountDisplayFindings(findings []Finding) int {
	count := 0
	for _, f := range findings {
		if !f.IsGraphPayload() {
			count++
		}
	}
	return count
}
