package handler

import (
	"dossier/internal/fingerprint"
	"dossier/internal/validation"
	"dossier/internal/validation/models"
	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	pstrings "dossier/pkg/platform/strings"
)

// EvaluateCaseRequest is the wire shape for POST /v1/cases/evaluate.
type EvaluateCaseRequest struct {
	CaseID    string            `json:"case_id,omitempty"`
	Documents []DocumentPayload `json:"documents"`
}

// DocumentPayload is one document as produced by the extraction collaborator:
// a raw field bag plus integrity signals. The optional content digest only
// feeds duplicate detection.
type DocumentPayload struct {
	Kind          string                  `json:"kind"`
	Fields        map[string]string       `json:"fields"`
	Integrity     IntegritySignalsPayload `json:"integrity"`
	ContentSHA256 string                  `json:"content_sha256,omitempty"`
}

// IntegritySignalsPayload mirrors models.IntegritySignals on the wire.
type IntegritySignalsPayload struct {
	TamperedRaw      bool     `json:"tampered_raw"`
	EditingToolHints []string `json:"editing_tool_hints"`
	FontVariantCount int      `json:"font_variant_count"`
}

// ToDomain validates the request at the trust boundary and converts it.
// Unknown kinds, repeated classified kinds, and malformed digests are caller
// errors; everything else (missing fields, bad dates) is scoring territory.
func (r EvaluateCaseRequest) ToDomain() (validation.EvaluateRequest, error) {
	var req validation.EvaluateRequest

	if r.CaseID != "" {
		caseID, err := id.ParseCaseID(r.CaseID)
		if err != nil {
			return req, err
		}
		req.CaseID = caseID
	}

	seen := make(map[models.DocumentKind]bool, len(r.Documents))
	for i, doc := range r.Documents {
		kind, err := models.ParseDocumentKind(doc.Kind)
		if err != nil {
			return req, err
		}
		if kind != models.KindUnknown && seen[kind] {
			return req, dErrors.Newf(dErrors.CodeInvalidInput,
				"document %d: duplicate kind %s in bundle", i, kind)
		}
		seen[kind] = true

		if doc.ContentSHA256 != "" {
			if err := fingerprint.ValidateDigest(doc.ContentSHA256); err != nil {
				return req, err
			}
		}

		req.Documents = append(req.Documents, models.DocumentInput{
			Kind:   kind,
			Fields: doc.Fields,
			Integrity: models.IntegritySignals{
				TamperedRaw:      doc.Integrity.TamperedRaw,
				EditingToolHints: pstrings.DedupeAndTrim(doc.Integrity.EditingToolHints),
				FontVariantCount: doc.Integrity.FontVariantCount,
			},
			ContentSHA256: doc.ContentSHA256,
		})
	}

	return req, nil
}
