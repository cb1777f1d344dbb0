// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct types over uuid.UUID so a CaseID can never be passed where
// a DocumentID is expected. Parse functions enforce the trust-boundary
// invariant: IDs must be valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "dossier/pkg/domain-errors"
)

// CaseID identifies one submitted claim bundle.
type CaseID uuid.UUID

// DocumentID identifies one document within a case.
type DocumentID uuid.UUID

// NewCaseID generates a fresh case identifier.
func NewCaseID() CaseID { return CaseID(uuid.New()) }

// NewDocumentID generates a fresh document identifier.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// ParseCaseID validates and converts a string into a CaseID.
func ParseCaseID(s string) (CaseID, error) {
	u, err := parseUUID(s, "case_id")
	return CaseID(u), err
}

// ParseDocumentID validates and converts a string into a DocumentID.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document_id")
	return DocumentID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", field)
	}
	return u, nil
}

func (id CaseID) String() string     { return uuid.UUID(id).String() }
func (id DocumentID) String() string { return uuid.UUID(id).String() }

// MarshalText renders the ID in canonical UUID form. Defined types do not
// inherit uuid.UUID's methods, and JSON payloads (audit events, responses)
// must carry the string form, never the raw byte array.
func (id CaseID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id DocumentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *CaseID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*id = CaseID(u)
	return nil
}

func (id *DocumentID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*id = DocumentID(u)
	return nil
}

// IsNil reports whether the ID is the zero value.
func (id CaseID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
