// Package audit records case decisions for traceability. Events are
// transport-agnostic so stores and sinks can fan out; sensitive identifiers
// are masked before an event is ever built.
package audit

import (
	"time"

	id "dossier/pkg/domain"
)

// Action names the audited operation.
type Action string

const (
	ActionCaseEvaluated  Action = "case_evaluated"
	ActionDuplicateFound Action = "duplicate_document_found"
)

// DocumentSummary is the per-document slice of an audit event. Field values
// here are already masked; raw IBAN, BIC, and document numbers never reach
// an event.
type DocumentSummary struct {
	Kind         string            `json:"kind"`
	Score        int               `json:"score"`
	Tampered     bool              `json:"tampered"`
	MaskedFields map[string]string `json:"masked_fields,omitempty"`
}

// Event captures one audited decision.
type Event struct {
	ID             string            `json:"id"`
	Timestamp      time.Time         `json:"timestamp"`
	CaseID         id.CaseID         `json:"case_id"`
	RequestID      string            `json:"request_id,omitempty"`
	Subject        string            `json:"subject,omitempty"`
	Action         Action            `json:"action"`
	Status         string            `json:"status"`
	Recommendation string            `json:"recommendation"`
	Score          int               `json:"score"`
	RuleSetVersion string            `json:"rule_set_version"`
	Reason         string            `json:"reason"`
	Documents      []DocumentSummary `json:"documents,omitempty"`
}
