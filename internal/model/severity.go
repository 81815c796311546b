package model

// Severity represents the impact level of a breach signal.
// It is only meaningful for Breach-category signals; all other signal
// categories carry SeverityNone.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityNone indicates the signal carries no breach severity.
	// All non-breach signals use this value.
	SeverityNone Severity = iota

	// SeverityLow indicates exposure in a single breach.
	SeverityLow

	// SeverityMedium indicates exposure in a small number of breaches.
	SeverityMedium

	// SeverityHigh indicates exposure in many breaches; credential reuse
	// across the affected services is likely compromised.
	SeverityHigh

	// SeverityCritical indicates pervasive breach exposure requiring
	// immediate credential rotation.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "NONE"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// SeverityFromBreachCount maps the number of distinct breaches an identity
// appears in to a severity level. The thresholds follow the upstream breach
// index conventions: ten or more breaches is critical, five or more is high,
// two or more is medium, one is low.
func SeverityFromBreachCount(count int) Severity {
	switch {
	case count >= 10:
		return SeverityCritical
	case count >= 5:
		return SeverityHigh
	case count >= 2:
		return SeverityMedium
	case count >= 1:
		return SeverityLow
	default:
		return SeverityNone
	}
}
