package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "dossier/pkg/domain"
)

type failingPublisher struct{ err error }

func (p failingPublisher) Emit(ctx context.Context, event Event) error { return p.err }

func TestStorePublisher(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	pub := NewStorePublisher(store)

	caseID := id.NewCaseID()
	require.NoError(t, pub.Emit(ctx, Event{
		CaseID: caseID,
		Action: ActionCaseEvaluated,
		Status: "VALID",
	}))

	events, err := store.ListByCase(ctx, caseID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID, "publisher assigns an event ID")
	assert.False(t, events[0].Timestamp.IsZero(), "publisher stamps the event")
}

func TestFanOut(t *testing.T) {
	ctx := context.Background()

	t.Run("all publishers see the event even after a failure", func(t *testing.T) {
		store := NewMemoryStore()
		boom := errors.New("sink down")
		fan := FanOut{failingPublisher{err: boom}, NewStorePublisher(store)}

		caseID := id.NewCaseID()
		err := fan.Emit(ctx, Event{CaseID: caseID, Action: ActionCaseEvaluated})
		assert.ErrorIs(t, err, boom)

		events, listErr := store.ListByCase(ctx, caseID)
		require.NoError(t, listErr)
		assert.Len(t, events, 1)
	})

	t.Run("empty fan-out is a no-op", func(t *testing.T) {
		assert.NoError(t, FanOut{}.Emit(ctx, Event{CaseID: id.NewCaseID()}))
	})
}

func TestMemoryStoreRecent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for range 3 {
		require.NoError(t, store.Append(ctx, Event{CaseID: id.NewCaseID()}))
	}

	events, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
