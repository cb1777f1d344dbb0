package models

// FindingCode tags one cross-document observation with a stable identifier.
type FindingCode string

const (
	// FindingEmptyBundle marks the degenerate zero-document submission.
	FindingEmptyBundle FindingCode = "EMPTY_BUNDLE"
	// FindingFraudPresent fires when any record in the bundle is tampered.
	FindingFraudPresent FindingCode = "FRAUD_PRESENT"
	// FindingMissingCriticalDocuments fires when a critical kind is absent
	// from the bundle entirely.
	FindingMissingCriticalDocuments FindingCode = "MISSING_CRITICAL_DOCUMENTS"
	// FindingMissingCriticalFields fires when a required field is absent on a
	// present critical document.
	FindingMissingCriticalFields FindingCode = "MISSING_CRITICAL_FIELDS"
	// FindingLowConfidenceDocument fires when a record scores below the
	// confidence threshold.
	FindingLowConfidenceDocument FindingCode = "LOW_CONFIDENCE_DOCUMENT"
	// FindingNameMismatch fires once per identity relation whose two present
	// sides do not match.
	FindingNameMismatch FindingCode = "NAME_MISMATCH"
	// FindingDateIntervalViolation fires when the death date falls outside
	// the contract period, all three dates being present.
	FindingDateIntervalViolation FindingCode = "DATE_INTERVAL_VIOLATION"
)

// Finding is one cross-document observation feeding the aggregate scorer.
// Detail carries the human-readable specifics; Relation is set only for
// name-mismatch findings.
type Finding struct {
	Code     FindingCode `json:"code"`
	Detail   string      `json:"detail"`
	Relation string      `json:"relation,omitempty"`
}

// Identity relations checked by the cross-validator, in evaluation order.
const (
	RelationDeceasedSubscriber  = "deceased_vs_subscriber"
	RelationBeneficiaryAccount  = "beneficiary_vs_account_holder"
	RelationIdentitySubscriber  = "identity_vs_subscriber"
	RelationResidenceSubscriber = "residence_vs_subscriber"
)
