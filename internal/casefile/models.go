// Package casefile persists decided cases so reviewers can retrieve the
// decision and its full breakdown after the fact. The validation core stays
// pure; this layer owns the only durable state in the service.
package casefile

import (
	"time"

	"dossier/internal/validation/models"
	id "dossier/pkg/domain"
)

// Record is one decided case. Immutable once written: re-evaluating the same
// inputs produces an identical decision, so records are never updated.
type Record struct {
	ID             id.CaseID             `json:"id"`
	Subject        string                `json:"subject,omitempty"`
	Status         models.Status         `json:"status"`
	Recommendation models.Recommendation `json:"recommendation"`
	FinalScore     int                   `json:"final_score"`
	RuleSetVersion string                `json:"rule_set_version"`
	Breakdown      models.ScoreBreakdown `json:"breakdown"`
	Findings       []models.Finding      `json:"findings"`
	DocumentKinds  []models.DocumentKind `json:"document_kinds"`
	CreatedAt      time.Time             `json:"created_at"`
}
