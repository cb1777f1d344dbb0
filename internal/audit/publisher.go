package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher emits audit events. Implementations decide delivery semantics:
// the store publisher is synchronous, the Kafka publisher fire-and-forget.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// StorePublisher appends events straight to a store. Synchronous; an append
// failure surfaces to the caller.
type StorePublisher struct {
	store Store
}

// NewStorePublisher creates a publisher backed by the given store.
func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	prepare(&event)
	return p.store.Append(ctx, event)
}

// FanOut emits to several publishers in order. The first error wins but all
// publishers still see the event.
type FanOut []Publisher

func (f FanOut) Emit(ctx context.Context, event Event) error {
	prepare(&event)
	var firstErr error
	for _, p := range f {
		if err := p.Emit(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func prepare(event *Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
}
