package model

// Category classifies a signal by the kind of exposure it represents.
// The aggregator weighs each category differently when computing the
// risk score.
type Category int

const (
	// CategoryIdentity marks signals implying real-world identity linkage,
	// such as an avatar or profile photo tied to the email address.
	CategoryIdentity Category = iota

	// CategorySocialMedia marks account-existence signals on social
	// platforms.
	CategorySocialMedia

	// CategoryFinancialOrCreative marks accounts on payment or creative
	// platforms, which indicate phishing targetability.
	CategoryFinancialOrCreative

	// CategoryBreach marks appearances in data-breach indexes.
	CategoryBreach

	// CategoryCertificate marks certificate-transparency hits for a domain.
	CategoryCertificate

	// CategoryGeneric marks site hits that fit no other category.
	CategoryGeneric
)

// String returns a human-readable representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryIdentity:
		return "identity"
	case CategorySocialMedia:
		return "social_media"
	case CategoryFinancialOrCreative:
		return "financial_or_creative"
	case CategoryBreach:
		return "breach"
	case CategoryCertificate:
		return "certificate"
	case CategoryGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Signal is a single probe's raw finding, normalized at the probe boundary.
// Probes must produce Signals rather than ad hoc result maps so that the
// aggregator never performs source-specific key lookups.
//
// A Signal with Present=false records that the lookup succeeded but found
// nothing; such signals are dropped before aggregation and never reach the
// finding list.
type Signal struct {
	// Source identifies the probe or site the signal came from
	// (e.g. "gravatar", "github", "crt.sh").
	Source string `json:"source"`

	// Present reports whether the signal is positive, e.g. "account exists".
	Present bool `json:"present"`

	// Description is the human-readable statement for this signal.
	Description string `json:"description"`

	// Category is the weight category used by the scoring policy.
	Category Category `json:"category"`

	// URL is an optional link to the discovered resource.
	URL string `json:"url,omitempty"`

	// Severity is only meaningful for breach signals.
	Severity Severity `json:"severity,omitempty"`
}
