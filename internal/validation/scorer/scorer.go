// Package scorer computes the per-document confidence score.
package scorer

import (
	"fmt"
	"strings"

	"dossier/internal/validation/config"
	"dossier/internal/validation/models"
)

// Deduction codes for individual document scoring.
const (
	CodeTampered       = "DOC_TAMPERED"
	CodeSuspiciousTool = "DOC_SUSPICIOUS_TOOL"
	CodeFontVariants   = "DOC_FONT_VARIANTS"
	CodeMissingFields  = "DOC_MISSING_FIELDS"
)

// Scorer derives a 0-100 confidence score from normalized fields and
// integrity flags. Deterministic and pure; the rule set is frozen at
// construction.
type Scorer struct {
	rules config.RuleSet
}

// New builds a scorer over the given rule set.
func New(rules config.RuleSet) *Scorer {
	return &Scorer{rules: rules}
}

// Score evaluates every rule against the base score of 100. A tampered
// document takes the critical deduction but later rules still apply, so
// cumulative severity keeps pushing the score down. The result clamps at 0.
func (s *Scorer) Score(kind models.DocumentKind, fields map[string]models.FieldValue, flags models.IntegrityFlags) (int, []models.Deduction) {
	var deductions []models.Deduction

	if flags.Tampered {
		deductions = append(deductions, models.Deduction{
			Code:   CodeTampered,
			Amount: s.rules.TamperPenalty,
			Reason: "technical tampering signal present",
		})
	}

	if flags.SuspiciousTool != "" {
		deductions = append(deductions, models.Deduction{
			Code:   CodeSuspiciousTool,
			Amount: s.rules.SuspiciousToolPenalty,
			Reason: fmt.Sprintf("document metadata names editing tool %q", flags.SuspiciousTool),
		})
	}

	if flags.FontVariantCount > s.rules.FontVariantThreshold {
		deductions = append(deductions, models.Deduction{
			Code:   CodeFontVariants,
			Amount: s.rules.FontVariantPenalty,
			Reason: fmt.Sprintf("%d distinct fonts exceeds threshold of %d", flags.FontVariantCount, s.rules.FontVariantThreshold),
		})
	}

	if missing := missingRequired(kind, fields); len(missing) > 0 {
		amount := len(missing) * s.rules.MissingFieldPenalty
		if amount > s.rules.MissingFieldCap {
			amount = s.rules.MissingFieldCap
		}
		deductions = append(deductions, models.Deduction{
			Code:   CodeMissingFields,
			Amount: amount,
			Reason: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		})
	}

	total := 0
	for _, d := range deductions {
		total += d.Amount
	}
	score := config.BaseScore - total
	if score < 0 {
		score = 0
	}
	return score, deductions
}

// missingRequired enumerates absent required fields in schema order.
// Important-but-optional fields never appear here.
func missingRequired(kind models.DocumentKind, fields map[string]models.FieldValue) []string {
	var missing []string
	for _, name := range kind.RequiredFields() {
		if !fields[name].Present() {
			missing = append(missing, name)
		}
	}
	return missing
}
