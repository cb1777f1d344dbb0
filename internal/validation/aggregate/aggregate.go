// Package aggregate combines cross-validation findings into one transparent
// score breakdown.
package aggregate

import (
	"fmt"
	"strings"

	"dossier/internal/validation/config"
	"dossier/internal/validation/models"
)

// Scorer turns findings into a ScoreBreakdown. Deterministic given its
// inputs; each rule category is applied once in evaluation order, and rules
// that deducted nothing still appear with amount 0 so the breakdown is fully
// explainable.
type Scorer struct {
	rules config.RuleSet
}

// New builds an aggregate scorer over the rule set.
func New(rules config.RuleSet) *Scorer {
	return &Scorer{rules: rules}
}

// Aggregate produces the bundle-level breakdown from the cross-validation
// findings. The final score is clamped to [0, 100].
func (s *Scorer) Aggregate(findings []models.Finding) models.ScoreBreakdown {
	byCode := groupByCode(findings)

	var deductions []models.Deduction

	// The degenerate empty-bundle marker precedes the regular rules; a
	// zero-document submission must bottom out at score 0.
	if empty := byCode[models.FindingEmptyBundle]; len(empty) > 0 {
		deductions = append(deductions, models.Deduction{
			Code:   string(models.FindingEmptyBundle),
			Amount: s.rules.EmptyBundlePenalty,
			Reason: "no documents submitted for evaluation",
		})
	}

	deductions = append(deductions, s.flatRule(byCode,
		models.FindingFraudPresent, s.rules.FraudPenalty,
		"no tampering detected in any document"))
	deductions = append(deductions, s.flatRule(byCode,
		models.FindingMissingCriticalDocuments, s.rules.MissingDocumentsPenalty,
		"all critical documents present"))
	deductions = append(deductions, s.flatRule(byCode,
		models.FindingMissingCriticalFields, s.rules.MissingFieldsPenalty,
		"all required fields present on critical documents"))
	deductions = append(deductions, s.flatRule(byCode,
		models.FindingLowConfidenceDocument, s.rules.LowConfidencePenalty,
		"all documents at or above the confidence threshold"))
	deductions = append(deductions, s.nameMismatchRule(byCode[models.FindingNameMismatch]))
	deductions = append(deductions, s.flatRule(byCode,
		models.FindingDateIntervalViolation, s.rules.DateIntervalPenalty,
		"death date within contract period, or dates not all present"))

	total := 0
	for _, d := range deductions {
		total += d.Amount
	}
	final := config.BaseScore - total
	if final < 0 {
		final = 0
	}

	return models.ScoreBreakdown{
		RuleSetVersion: s.rules.Version,
		BaseScore:      config.BaseScore,
		Deductions:     deductions,
		FinalScore:     final,
	}
}

// flatRule applies a once-per-category deduction: the amount is flat no
// matter how many findings carry the code.
func (s *Scorer) flatRule(byCode map[models.FindingCode][]models.Finding, code models.FindingCode, penalty int, cleanReason string) models.Deduction {
	found := byCode[code]
	if len(found) == 0 {
		return models.Deduction{Code: string(code), Amount: 0, Reason: cleanReason}
	}
	return models.Deduction{
		Code:   string(code),
		Amount: penalty,
		Reason: joinDetails(found),
	}
}

// nameMismatchRule deducts per distinct mismatching relation, capped.
func (s *Scorer) nameMismatchRule(found []models.Finding) models.Deduction {
	if len(found) == 0 {
		return models.Deduction{
			Code:   string(models.FindingNameMismatch),
			Amount: 0,
			Reason: "all checked identity relations match",
		}
	}

	relations := distinctRelations(found)
	amount := len(relations) * s.rules.NameMismatchPenalty
	if amount > s.rules.NameMismatchCap {
		amount = s.rules.NameMismatchCap
	}
	return models.Deduction{
		Code:   string(models.FindingNameMismatch),
		Amount: amount,
		Reason: joinDetails(found),
	}
}

func groupByCode(findings []models.Finding) map[models.FindingCode][]models.Finding {
	byCode := make(map[models.FindingCode][]models.Finding, len(findings))
	for _, f := range findings {
		byCode[f.Code] = append(byCode[f.Code], f)
	}
	return byCode
}

// distinctRelations preserves first-seen order so reasons reproduce exactly.
func distinctRelations(found []models.Finding) []string {
	seen := make(map[string]bool, len(found))
	var out []string
	for _, f := range found {
		if !seen[f.Relation] {
			seen[f.Relation] = true
			out = append(out, f.Relation)
		}
	}
	return out
}

func joinDetails(found []models.Finding) string {
	details := make([]string, len(found))
	for i, f := range found {
		details[i] = f.Detail
	}
	return strings.Join(details, "; ")
}

// Describe renders a one-line summary of a breakdown for logs and audit
// reasons, masking nothing: callers pass it through the audit masker.
func Describe(b models.ScoreBreakdown) string {
	applied := 0
	for _, d := range b.Deductions {
		if d.Amount > 0 {
			applied++
		}
	}
	if applied == 0 {
		return fmt.Sprintf("score %d, no deductions applied", b.FinalScore)
	}
	return fmt.Sprintf("score %d after %d deduction(s)", b.FinalScore, applied)
}
