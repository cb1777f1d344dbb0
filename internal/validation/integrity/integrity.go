// Package integrity reduces raw document-level technical signals to the
// flags the scorers consume.
package integrity

import (
	"strings"

	"dossier/internal/validation/config"
	"dossier/internal/validation/models"
)

// Analyzer inspects editing-tool fingerprints and font variety. The
// fingerprint list comes from the rule set and is matched case-insensitively
// as substrings of the upstream tool hints.
type Analyzer struct {
	fingerprints []string
}

// New builds an analyzer over the rule set's editor fingerprint list.
func New(rules config.RuleSet) *Analyzer {
	return &Analyzer{fingerprints: rules.EditingToolFingerprints}
}

// Analyze reduces raw signals to flags. Tool presence alone never sets
// Tampered; only the upstream structural-tampering signal does. The two are
// reported separately and penalized separately downstream.
func (a *Analyzer) Analyze(signals models.IntegritySignals) models.IntegrityFlags {
	flags := models.IntegrityFlags{
		Tampered:         signals.TamperedRaw,
		FontVariantCount: signals.FontVariantCount,
	}

	for _, hint := range signals.EditingToolHints {
		h := strings.ToLower(strings.TrimSpace(hint))
		if h == "" {
			continue
		}
		for _, fp := range a.fingerprints {
			if strings.Contains(h, fp) {
				flags.SuspiciousTool = strings.TrimSpace(hint)
				return flags
			}
		}
	}

	return flags
}
