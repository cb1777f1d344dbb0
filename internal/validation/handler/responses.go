package handler

import (
	"time"

	"dossier/internal/casefile"
	"dossier/internal/validation"
	"dossier/internal/validation/models"
)

// EvaluateCaseResponse is the wire shape of a decision. The breakdown lists
// every evaluated rule in order so downstream consumers can replay the score.
type EvaluateCaseResponse struct {
	CaseID         string                       `json:"case_id"`
	Status         models.Status                `json:"status"`
	Recommendation models.Recommendation        `json:"recommendation"`
	Breakdown      models.ScoreBreakdown        `json:"breakdown"`
	Findings       []models.Finding             `json:"findings"`
	Documents      []DocumentResult             `json:"documents"`
	Duplicates     []validation.DuplicateNotice `json:"duplicates,omitempty"`
	EvaluatedAt    time.Time                    `json:"evaluated_at"`
}

// DocumentResult is the per-document slice of the response.
type DocumentResult struct {
	Kind       models.DocumentKind   `json:"kind"`
	Score      int                   `json:"score"`
	Deductions []models.Deduction    `json:"deductions"`
	Integrity  models.IntegrityFlags `json:"integrity"`
}

// FromResult converts a service result to the wire shape.
func FromResult(result *validation.EvaluateResult) EvaluateCaseResponse {
	docs := make([]DocumentResult, len(result.Documents))
	for i, doc := range result.Documents {
		docs[i] = DocumentResult{
			Kind:       doc.Kind,
			Score:      doc.Score,
			Deductions: doc.Deductions,
			Integrity:  doc.Integrity,
		}
	}

	findings := result.Findings
	if findings == nil {
		findings = []models.Finding{}
	}

	return EvaluateCaseResponse{
		CaseID:         result.CaseID.String(),
		Status:         result.Decision.Status,
		Recommendation: result.Decision.Recommendation,
		Breakdown:      result.Decision.Breakdown,
		Findings:       findings,
		Documents:      docs,
		Duplicates:     result.Duplicates,
		EvaluatedAt:    result.EvaluatedAt,
	}
}

// CaseResponse is the wire shape of a persisted case.
type CaseResponse struct {
	CaseID         string                `json:"case_id"`
	Status         models.Status         `json:"status"`
	Recommendation models.Recommendation `json:"recommendation"`
	Breakdown      models.ScoreBreakdown `json:"breakdown"`
	Findings       []models.Finding      `json:"findings"`
	DocumentKinds  []models.DocumentKind `json:"document_kinds"`
	CreatedAt      time.Time             `json:"created_at"`
}

// FromRecord converts a case record to the wire shape.
func FromRecord(record *casefile.Record) CaseResponse {
	return CaseResponse{
		CaseID:         record.ID.String(),
		Status:         record.Status,
		Recommendation: record.Recommendation,
		Breakdown:      record.Breakdown,
		Findings:       record.Findings,
		DocumentKinds:  record.DocumentKinds,
		CreatedAt:      record.CreatedAt,
	}
}
