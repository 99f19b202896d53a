package business

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// EventType names a committed vault state transition.
type EventType string

const (
	EventDelegationGranted   EventType = "delegation.granted"
	EventDelegationRevoked   EventType = "delegation.revoked"
	EventDelegationSuspended EventType = "delegation.suspended"
	EventNativeCommitted     EventType = "native.committed"
	EventNativeReclaimed     EventType = "native.reclaimed"
	EventNativeClosed        EventType = "native.closed"
	EventTokensTransferred   EventType = "tokens.transferred"
	EventLiquiditySynced     EventType = "liquidity.synced"
)

// VaultEvent records one committed operation. Events are emitted only after
// the ledger transaction commits.
type VaultEvent struct {
	ID           uuid.UUID        `json:"id"`
	Type         EventType        `json:"type"`
	Record       solana.PublicKey `json:"record"`
	Owner        solana.PublicKey `json:"owner"`
	Asset        solana.PublicKey `json:"asset"`
	Actor        solana.PublicKey `json:"actor"`
	Counterparty solana.PublicKey `json:"counterparty,omitempty"`
	Amount       uint64           `json:"amount"`
	Balance      uint64           `json:"balance"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// NewVaultEvent stamps an event with a fresh id.
func NewVaultEvent(eventType EventType, record, owner, asset, actor solana.PublicKey, occurredAt time.Time) VaultEvent {
	return VaultEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Record:     record,
		Owner:      owner,
		Asset:      asset,
		Actor:      actor,
		OccurredAt: occurredAt.UTC(),
	}
}
