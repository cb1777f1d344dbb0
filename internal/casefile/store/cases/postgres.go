package cases

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dossier/internal/casefile"
	"dossier/internal/validation/models"
	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

// Postgres stores case records in a single table, with the breakdown and
// findings serialized as JSONB. Records are write-once.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed case store over an open connection.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the cases table when it does not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cases (
			id UUID PRIMARY KEY,
			subject TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			final_score INT NOT NULL,
			rule_set_version TEXT NOT NULL,
			breakdown JSONB NOT NULL,
			findings JSONB NOT NULL,
			document_kinds TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure cases schema: %w", err)
	}
	return nil
}

func (s *Postgres) Save(ctx context.Context, record *casefile.Record) error {
	breakdown, err := json.Marshal(record.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	findings, err := json.Marshal(record.Findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}

	kinds := make([]string, len(record.DocumentKinds))
	for i, k := range record.DocumentKinds {
		kinds[i] = string(k)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO cases (id, subject, status, recommendation, final_score,
			rule_set_version, breakdown, findings, document_kinds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		uuid.UUID(record.ID), record.Subject, string(record.Status),
		string(record.Recommendation), record.FinalScore, record.RuleSetVersion,
		breakdown, findings, strings.Join(kinds, ","), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, caseID id.CaseID) (*casefile.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, subject, status, recommendation, final_score,
			rule_set_version, breakdown, findings, document_kinds, created_at
		FROM cases WHERE id = $1`, uuid.UUID(caseID))

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	return record, nil
}

func (s *Postgres) Recent(ctx context.Context, limit int) ([]*casefile.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject, status, recommendation, final_score,
			rule_set_version, breakdown, findings, document_kinds, created_at
		FROM cases ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent cases: %w", err)
	}
	defer rows.Close()

	var out []*casefile.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*casefile.Record, error) {
	var (
		record    casefile.Record
		rawID     uuid.UUID
		status    string
		rec       string
		breakdown []byte
		findings  []byte
		kinds     string
	)
	err := row.Scan(&rawID, &record.Subject, &status, &rec, &record.FinalScore,
		&record.RuleSetVersion, &breakdown, &findings, &kinds, &record.CreatedAt)
	if err != nil {
		return nil, err
	}

	record.ID = id.CaseID(rawID)
	record.Status = models.Status(status)
	record.Recommendation = models.Recommendation(rec)
	if err := json.Unmarshal(breakdown, &record.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	if err := json.Unmarshal(findings, &record.Findings); err != nil {
		return nil, fmt.Errorf("unmarshal findings: %w", err)
	}
	if kinds != "" {
		for _, k := range strings.Split(kinds, ",") {
			record.DocumentKinds = append(record.DocumentKinds, models.DocumentKind(k))
		}
	}
	return &record, nil
}
