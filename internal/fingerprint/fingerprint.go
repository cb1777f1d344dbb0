// Package fingerprint tracks content digests of previously decided documents.
// A resubmitted document is flagged as a duplicate together with the earlier
// decision; the flag is advisory and never changes any score.
package fingerprint

import (
	"context"
	"regexp"
	"time"

	dErrors "dossier/pkg/domain-errors"
)

// Entry records the decision context a digest was first seen in.
type Entry struct {
	Digest         string    `json:"digest"`
	CaseID         string    `json:"case_id"`
	Recommendation string    `json:"recommendation"`
	Score          int       `json:"score"`
	SeenAt         time.Time `json:"seen_at"`
}

// Store is the lookup/register contract for document digests.
type Store interface {
	// Lookup returns the entry for a digest, or nil when unseen.
	Lookup(ctx context.Context, digest string) (*Entry, error)
	// Register records a digest. First write wins; re-registering an
	// existing digest is a no-op.
	Register(ctx context.Context, entry Entry) error
}

var sha256Hex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidateDigest checks that a client-supplied digest is lowercase SHA-256 hex.
func ValidateDigest(digest string) error {
	if !sha256Hex.MatchString(digest) {
		return dErrors.New(dErrors.CodeInvalidInput, "content digest must be 64 lowercase hex characters")
	}
	return nil
}
