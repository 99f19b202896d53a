package services

import (
	"context"
	"errors"
	"sync"

	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
)

const defaultEventLogCapacity = 1024

// EventLog keeps the most recent events in memory. It backs event listing
// when no database is configured.
type EventLog struct {
	mu       sync.RWMutex
	events   []business.VaultEvent
	capacity int
}

var (
	_ interfaces.EventPublisher = (*EventLog)(nil)
	_ interfaces.EventReader    = (*EventLog)(nil)
)

// NewEventLog creates a log that retains up to capacity events.
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = defaultEventLogCapacity
	}
	return &EventLog{capacity: capacity}
}

func (l *EventLog) Publish(_ context.Context, event business.VaultEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)
	if over := len(l.events) - l.capacity; over > 0 {
		l.events = append(l.events[:0:0], l.events[over:]...)
	}
	return nil
}

// ListEvents returns up to limit events for owner, newest first. The zero
// owner matches every event.
func (l *EventLog) ListEvents(_ context.Context, owner solana.PublicKey, limit int) ([]business.VaultEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]business.VaultEvent, 0)
	for i := len(l.events) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if owner.IsZero() || l.events[i].Owner.Equals(owner) {
			out = append(out, l.events[i])
		}
	}
	return out, nil
}

// FanoutPublisher delivers each event to every publisher and joins their errors.
type FanoutPublisher []interfaces.EventPublisher

func (f FanoutPublisher) Publish(ctx context.Context, event business.VaultEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
