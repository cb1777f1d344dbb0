// Package models defines the domain types for claim bundle validation.
//
// A case bundle is the set of documents submitted for one claim. Each document
// carries extracted fields and technical integrity signals produced upstream;
// this module only reasons over those inputs, it never parses files itself.
package models

import (
	"time"

	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
)

// DocumentKind classifies a submitted document.
type DocumentKind string

const (
	KindIdentityDocument  DocumentKind = "identity_document"
	KindDeathCertificate  DocumentKind = "death_certificate"
	KindInsuranceContract DocumentKind = "insurance_contract"
	KindBankAccount       DocumentKind = "bank_account"
	KindProofOfResidence  DocumentKind = "proof_of_residence"
	KindUnknown           DocumentKind = "unknown"
)

// ParseDocumentKind validates a wire string against the allowed variants.
// Unrecognized kinds are rejected at the boundary; "unknown" is a legal,
// deliberately unclassified document.
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(s)
	if !k.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown document kind %q", s)
	}
	return k, nil
}

// IsValid checks if the kind is one of the supported variants.
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindIdentityDocument, KindDeathCertificate, KindInsuranceContract,
		KindBankAccount, KindProofOfResidence, KindUnknown:
		return true
	}
	return false
}

// IsCritical reports whether a death claim cannot be evaluated without this
// kind present in the bundle.
func (k DocumentKind) IsCritical() bool {
	switch k {
	case KindDeathCertificate, KindInsuranceContract, KindBankAccount:
		return true
	}
	return false
}

// String returns the string representation.
func (k DocumentKind) String() string { return string(k) }

// Field names shared across schemas.
const (
	FieldName             = "name"
	FieldFirstName        = "first_name"
	FieldBirthDate        = "birth_date"
	FieldDocumentNumber   = "document_number"
	FieldExpirationDate   = "expiration_date"
	FieldDeceasedName     = "deceased_name"
	FieldDeathDate        = "death_date"
	FieldLocation         = "location"
	FieldPolicyNumber     = "policy_number"
	FieldSubscriberName   = "subscriber_name"
	FieldBeneficiaryNames = "beneficiary_names"
	FieldEffectiveDate    = "effective_date"
	FieldEndDate          = "end_date"
	FieldAccountHolder    = "account_holder"
	FieldIBAN             = "iban"
	FieldBIC              = "bic"
	FieldAddress          = "address"
	FieldDocumentDate     = "document_date"
)

// requiredFields fixes the per-kind schema. Order matters: missing-field
// deductions and reasons enumerate in this order so breakdowns reproduce
// exactly between runs.
var requiredFields = map[DocumentKind][]string{
	KindIdentityDocument:  {FieldName, FieldFirstName, FieldBirthDate, FieldDocumentNumber, FieldExpirationDate},
	KindDeathCertificate:  {FieldDeceasedName, FieldDeathDate, FieldLocation},
	KindInsuranceContract: {FieldPolicyNumber, FieldSubscriberName, FieldBeneficiaryNames, FieldEffectiveDate, FieldEndDate},
	KindBankAccount:       {FieldAccountHolder, FieldIBAN, FieldBIC},
	KindProofOfResidence:  {FieldName, FieldAddress, FieldDocumentDate},
	KindUnknown:           nil,
}

// RequiredFields returns the required field names for a kind, in schema order.
// Unknown documents have no schema and contribute no missing-field deductions.
func (k DocumentKind) RequiredFields() []string {
	return requiredFields[k]
}

// dateFields lists fields normalized as dates rather than names/free text.
var dateFields = map[string]bool{
	FieldBirthDate:      true,
	FieldExpirationDate: true,
	FieldDeathDate:      true,
	FieldEffectiveDate:  true,
	FieldEndDate:        true,
	FieldDocumentDate:   true,
}

// IsDateField reports whether a field name carries a date value.
func IsDateField(name string) bool { return dateFields[name] }

// FieldValue is a normalized, comparable field. The zero value means absent.
type FieldValue struct {
	// Display preserves the original casing for human-facing output.
	Display string
	// Compare is the case- and accent-folded form used for matching.
	Compare string
	// Date is set for date-typed fields that parsed successfully.
	Date *time.Time
}

// Present reports whether the field carries a usable value. Unparseable
// dates normalize to absent, never to a guess.
func (v FieldValue) Present() bool {
	return v.Compare != "" || v.Date != nil
}

// IntegritySignals are the raw technical inputs produced by the extraction
// collaborator for one document.
type IntegritySignals struct {
	TamperedRaw      bool     `json:"tampered_raw"`
	EditingToolHints []string `json:"editing_tool_hints"`
	FontVariantCount int      `json:"font_variant_count"`
}

// IntegrityFlags is the reduced verdict over the raw signals. Tool presence
// and tampering stay separate so legitimate re-saving by common software is
// not conflated with forgery.
type IntegrityFlags struct {
	Tampered         bool   `json:"tampered"`
	SuspiciousTool   string `json:"suspicious_tool,omitempty"`
	FontVariantCount int    `json:"font_variant_count"`
}

// DocumentInput is one document as submitted for evaluation: a bag of raw
// extracted fields plus integrity signals. ContentSHA256 is optional and only
// feeds duplicate detection.
type DocumentInput struct {
	Kind          DocumentKind
	Fields        map[string]string
	Integrity     IntegritySignals
	ContentSHA256 string
}

// DocumentRecord is one document's analysis state. Created once fields finish
// extraction, scored once, never mutated after scoring.
type DocumentRecord struct {
	ID            id.DocumentID
	Kind          DocumentKind
	Fields        map[string]FieldValue
	Integrity     IntegrityFlags
	Score         int
	Deductions    []Deduction
	ContentSHA256 string
}

// Field returns the named field, absent when never extracted.
func (r *DocumentRecord) Field(name string) FieldValue {
	return r.Fields[name]
}

// CaseBundle is the set of documents submitted together for one claim.
// At most one record per kind is meaningful for scoring.
type CaseBundle struct {
	ID        id.CaseID
	Documents []*DocumentRecord
}

// ByKind returns the first document of the given kind, or nil.
func (b *CaseBundle) ByKind(kind DocumentKind) *DocumentRecord {
	for _, d := range b.Documents {
		if d.Kind == kind {
			return d
		}
	}
	return nil
}

// Deduction is one named, amount-bearing penalty against the base score.
// Codes are stable so identical inputs reproduce identical breakdowns.
type Deduction struct {
	Code   string `json:"code"`
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// ScoreBreakdown itemizes how a final score was reached. Deductions appear in
// rule evaluation order, including zero-amount rules, for full explainability.
type ScoreBreakdown struct {
	RuleSetVersion string      `json:"rule_set_version"`
	BaseScore      int         `json:"base_score"`
	Deductions     []Deduction `json:"deductions"`
	FinalScore     int         `json:"final_score"`
}

// Status is the three-way validity verdict over a case bundle.
type Status string

const (
	StatusValid        Status = "VALID"
	StatusQuestionable Status = "QUESTIONABLE"
	StatusInvalid      Status = "INVALID"
)

// Recommendation is the advisory terminal action. Final disposition for
// anything below ACCEPT belongs to a human reviewer.
type Recommendation string

const (
	RecommendAccept      Recommendation = "ACCEPT"
	RecommendInvestigate Recommendation = "INVESTIGATE"
	RecommendReject      Recommendation = "REJECT"
)

// Decision is the pure outcome of evaluating one case bundle.
type Decision struct {
	Status         Status         `json:"status"`
	Recommendation Recommendation `json:"recommendation"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
}
