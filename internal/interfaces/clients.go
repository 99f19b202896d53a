package interfaces

import (
	"context"

	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
)

// EventPublisher delivers committed vault events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event business.VaultEvent) error
}

// EventReader lists previously published events, newest first.
type EventReader interface {
	ListEvents(ctx context.Context, owner solana.PublicKey, limit int) ([]business.VaultEvent, error)
}
