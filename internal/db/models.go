package db

import (
	"time"

	"github.com/google/uuid"
)

type LedgerAccount struct {
	Pubkey    string
	Owner     string
	Lamports  int64
	Data      []byte
	UpdatedAt time.Time
}

type TokenAccount struct {
	Pubkey          string
	Mint            string
	Owner           string
	Amount          int64
	Delegate        *string
	DelegatedAmount int64
	UpdatedAt       time.Time
}

type VaultEvent struct {
	ID           uuid.UUID
	EventType    string
	Record       string
	Owner        string
	Asset        string
	Actor        string
	Counterparty *string
	Amount       int64
	Balance      int64
	OccurredAt   time.Time
}
