// Package decide maps a final score to the three-way decision.
package decide

import (
	"dossier/internal/validation/config"
	"dossier/internal/validation/models"
)

// Mapper thresholds a breakdown's final score. There is no fourth outcome,
// and the recommendation stays advisory: anything below ACCEPT goes to a
// human with the full breakdown attached.
type Mapper struct {
	rules config.RuleSet
}

// New builds a mapper over the rule set's thresholds.
func New(rules config.RuleSet) *Mapper {
	return &Mapper{rules: rules}
}

// Map applies the inclusive thresholds: score >= 70 is VALID/ACCEPT,
// 50 <= score < 70 is QUESTIONABLE/INVESTIGATE, below 50 is INVALID/REJECT.
func (m *Mapper) Map(breakdown models.ScoreBreakdown) models.Decision {
	var (
		status models.Status
		rec    models.Recommendation
	)
	switch {
	case breakdown.FinalScore >= m.rules.AcceptThreshold:
		status, rec = models.StatusValid, models.RecommendAccept
	case breakdown.FinalScore >= m.rules.InvestigateThreshold:
		status, rec = models.StatusQuestionable, models.RecommendInvestigate
	default:
		status, rec = models.StatusInvalid, models.RecommendReject
	}

	return models.Decision{
		Status:         status,
		Recommendation: rec,
		Breakdown:      breakdown,
	}
}
