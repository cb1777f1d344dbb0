// Package cases provides the case record stores: an in-memory implementation
// for tests and single-process runs, and a Postgres implementation for
// durable deployments.
package cases

import (
	"context"
	"sort"
	"sync"

	"dossier/internal/casefile"
	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

// Memory is a mutex-guarded map store.
type Memory struct {
	mu      sync.RWMutex
	records map[id.CaseID]*casefile.Record
}

// NewMemory creates an empty in-memory case store.
func NewMemory() *Memory {
	return &Memory{records: make(map[id.CaseID]*casefile.Record)}
}

// Save stores a record. Case records are write-once; saving an existing ID
// returns sentinel.ErrConflict.
func (s *Memory) Save(ctx context.Context, record *casefile.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *record
	s.records[record.ID] = &cp
	return nil
}

// Get returns the record for a case ID, or sentinel.ErrNotFound.
func (s *Memory) Get(ctx context.Context, caseID id.CaseID) (*casefile.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

// Recent returns up to limit records, newest first.
func (s *Memory) Recent(ctx context.Context, limit int) ([]*casefile.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*casefile.Record, 0, len(s.records))
	for _, record := range s.records {
		cp := *record
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
