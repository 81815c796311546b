package aggregate

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anityu45/footprintscan/internal/model"
)

// Aggregator applies the scoring policy to a signal sequence.
// It is safe for concurrent use: Aggregate reads only the immutable policy.
type Aggregator struct {
	policy Policy

	// titler upper-cases platform names for finding text
	// ("github" -> "Github" stays readable without a per-site table).
	titler cases.Caser
}

// New creates an Aggregator with the given policy.
func New(policy Policy) *Aggregator {
	return &Aggregator{
		policy: policy,
		titler: cases.Title(language.English),
	}
}

// Aggregate transforms the union of probe signals into an ordered finding
// list and a risk score in [MinScore, MaxScore].
//
// Signals with Present=false are dropped first and contribute nothing.
// Ordering of the output is fixed by category class:
//
//  1. synthetic security alert (when any breach signal is present)
//  2. per-breach findings
//  3. identity-linkage findings
//  4. certificate findings
//  5. financial/creative account findings
//  6. "N profiles found" header (when site signals exceed 1)
//  7. per-site findings, in input order
//  8. the reserved graph payload entry
//
// Within each class the input order is preserved, so the function is
// deterministic for a fixed input sequence.
func (a *Aggregator) Aggregate(signals []model.Signal) ([]model.Finding, int) {
	var (
		breaches  []model.Signal
		identity  []model.Signal
		certs     []model.Signal
		financial []model.Signal
		sites     []model.Signal
	)

	score := 0
	for _, sig := range signals {
		if !sig.Present {
			continue
		}
		switch sig.Category {
		case model.CategoryBreach:
			breaches = append(breaches, sig)
			score += a.policy.BreachBase + a.policy.breachPenalty(sig.Severity)
		case model.CategoryIdentity:
			identity = append(identity, sig)
			score += a.policy.Identity
		case model.CategoryCertificate:
			certs = append(certs, sig)
			score += a.policy.Certificate
		case model.CategoryFinancialOrCreative:
			financial = append(financial, sig)
			score += a.policy.FinancialOrCreative
		case model.CategorySocialMedia:
			sites = append(sites, sig)
			if a.policy.isHighLinkage(sig.Source) {
				score += a.policy.SocialHighLinkage
			} else {
				score += a.policy.SocialGeneric
			}
		case model.CategoryGeneric:
			sites = append(sites, sig)
			score += a.policy.Generic
		}
	}

	findings := make([]model.Finding, 0, len(breaches)+len(identity)+len(certs)+len(financial)+len(sites)+3)

	if len(breaches) > 0 {
		findings = append(findings, a.securityAlert(len(breaches)))
		for _, sig := range breaches {
			findings = append(findings, a.signalFinding(model.FindingBreach, sig))
		}
	}
	for _, sig := range identity {
		findings = append(findings, a.signalFinding(model.FindingIdentity, sig))
	}
	for _, sig := range certs {
		findings = append(findings, a.signalFinding(model.FindingCertificate, sig))
	}
	for _, sig := range financial {
		findings = append(findings, a.signalFinding(model.FindingAccount, sig))
	}
	if len(sites) > 1 {
		findings = append(findings, model.Finding{
			Type:         model.FindingProfileSummary,
			Text:         fmt.Sprintf("%d public profiles found for this username", len(sites)),
			Severity:     model.SeverityNone,
			SeverityText: model.SeverityNone.String(),
		})
	}
	for _, sig := range sites {
		findings = append(findings, a.signalFinding(model.FindingProfile, sig))
	}

	if len(findings) > 0 {
		findings = append(findings, a.graphFinding(signals))
	}

	return findings, clampScore(score)
}

// securityAlert builds the synthetic high-priority alert that leads the
// finding list whenever breach signals are present.
func (a *Aggregator) securityAlert(count int) model.Finding {
	noun := "data breaches"
	if count == 1 {
		noun = "a data breach"
	}
	return model.Finding{
		Type:         model.FindingSecurityAlert,
		Text:         fmt.Sprintf("Security alert: this identity appears in %s. Change affected passwords and enable 2FA.", noun),
		Severity:     model.SeverityCritical,
		SeverityText: model.SeverityCritical.String(),
	}
}

// signalFinding formats one finding from a retained signal.
// The text is deterministic over Source and Description.
func (a *Aggregator) signalFinding(findingType string, sig model.Signal) model.Finding {
	return model.Finding{
		Type:         findingType,
		Source:       sig.Source,
		Text:         fmt.Sprintf("%s: %s", a.titler.String(sig.Source), sig.Description),
		Severity:     sig.Severity,
		SeverityText: sig.Severity.String(),
		URL:          sig.URL,
	}
}
