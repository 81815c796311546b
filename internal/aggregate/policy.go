package aggregate

import (
	"strings"

	"github.com/anityu45/footprintscan/internal/model"
)

// Score bounds. The final score is clamped, not scaled: the policy
// deliberately saturates rather than rebalances, so five weak signals and
// one severe breach can land at the same ceiling.
const (
	// MinScore is the lower bound of the risk score.
	MinScore = 0

	// MaxScore is the upper bound of the risk score.
	MaxScore = 100
)

// Policy is the tunable scoring table applied by the Aggregator.
// All penalties are additive; the sum is clamped to [MinScore, MaxScore].
type Policy struct {
	// Identity is the penalty per identity-linkage signal (avatar or
	// profile photo presence). Small but annotated distinctly since it
	// implies real-world identity linkage, not just account existence.
	Identity int `yaml:"identity"`

	// SocialGeneric is the penalty per social-media site hit on a
	// platform outside the high-linkage set.
	SocialGeneric int `yaml:"social_generic"`

	// SocialHighLinkage is the penalty per hit on a platform that enables
	// direct identity correlation (real-name profiles, public activity).
	SocialHighLinkage int `yaml:"social_high_linkage"`

	// FinancialOrCreative is the penalty per account on a payment or
	// creative platform, reflecting phishing targetability.
	FinancialOrCreative int `yaml:"financial_or_creative"`

	// Generic is the penalty per uncategorized site hit.
	Generic int `yaml:"generic"`

	// BreachBase is the flat penalty per breach signal.
	BreachBase int `yaml:"breach_base"`

	// BreachLow..BreachCritical are the per-breach-name penalties scaled
	// by the signal's severity.
	BreachLow      int `yaml:"breach_low"`
	BreachMedium   int `yaml:"breach_medium"`
	BreachHigh     int `yaml:"breach_high"`
	BreachCritical int `yaml:"breach_critical"`

	// Certificate is the flat penalty per certificate-transparency signal,
	// regardless of how many certificates were discovered. A flat bonus
	// prevents one domain with thousands of certificates from dwarfing
	// all other signal.
	Certificate int `yaml:"certificate"`

	// HighLinkagePlatforms is the curated set of platforms that receive
	// the SocialHighLinkage penalty. Matching is case-insensitive.
	HighLinkagePlatforms []string `yaml:"high_linkage_platforms"`
}

// DefaultPolicy returns the canonical scoring table.
// Values match the production scorer: identity +10, financial/creative +20,
// certificate presence +15, generic site hit +5, high-linkage platform +10.
func DefaultPolicy() Policy {
	return Policy{
		Identity:            10,
		SocialGeneric:       5,
		SocialHighLinkage:   10,
		FinancialOrCreative: 20,
		Generic:             5,
		BreachBase:          10,
		BreachLow:           2,
		BreachMedium:        4,
		BreachHigh:          6,
		BreachCritical:      8,
		Certificate:         15,
		HighLinkagePlatforms: []string{
			"github", "linkedin", "twitter", "x", "facebook", "instagram",
		},
	}
}

// breachPenalty returns the per-name penalty for a breach severity.
func (p Policy) breachPenalty(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return p.BreachCritical
	case model.SeverityHigh:
		return p.BreachHigh
	case model.SeverityMedium:
		return p.BreachMedium
	case model.SeverityLow:
		return p.BreachLow
	default:
		return p.BreachLow
	}
}

// isHighLinkage reports whether the platform is in the high-linkage set.
func (p Policy) isHighLinkage(source string) bool {
	source = strings.ToLower(source)
	for _, platform := range p.HighLinkagePlatforms {
		if strings.ToLower(platform) == source {
			return true
		}
	}
	return false
}

// clampScore bounds a raw additive score to [MinScore, MaxScore].
func clampScore(raw int) int {
	if raw < MinScore {
		return MinScore
	}
	if raw > MaxScore {
		return MaxScore
	}
	return raw
}
