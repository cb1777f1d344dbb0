// Package ports declares the collaborator interfaces the validation service
// depends on. Implementations live in their own modules; the service only
// sees these contracts.
package ports

import (
	"context"

	"dossier/internal/audit"
	"dossier/internal/casefile"
	"dossier/internal/fingerprint"
	id "dossier/pkg/domain"
)

// CaseStore persists decided cases.
type CaseStore interface {
	Save(ctx context.Context, record *casefile.Record) error
	Get(ctx context.Context, caseID id.CaseID) (*casefile.Record, error)
	Recent(ctx context.Context, limit int) ([]*casefile.Record, error)
}

// AuditPublisher emits decision audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// FingerprintStore tracks content digests of previously decided documents.
type FingerprintStore interface {
	Lookup(ctx context.Context, digest string) (*fingerprint.Entry, error)
	Register(ctx context.Context, entry fingerprint.Entry) error
}
