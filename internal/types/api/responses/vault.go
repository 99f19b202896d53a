package responses

import (
	"strconv"
	"time"

	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/types/business"
)

// RecordResponse is the public view of a delegation record or native profile.
type RecordResponse struct {
	Object                 string `json:"object"`
	Address                string `json:"address"`
	Bump                   uint8  `json:"bump"`
	Owner                  string `json:"owner"`
	VaultTokenAccount      string `json:"vault_token_account"`
	AssetMint              string `json:"asset_mint"`
	Native                 bool   `json:"native"`
	DelegatedAmount        string `json:"delegated_amount"`
	RemainingAllowance     string `json:"remaining_allowance"`
	VaultSolBalance        string `json:"vault_sol_balance"`
	VaultSolBalanceDisplay string `json:"vault_sol_balance_display"`
	IsEnabled              bool   `json:"is_enabled"`
	ExpiresAt              *int64 `json:"expires_at,omitempty"`
	Created                bool   `json:"created"`
}

// TransferResponse reports a committed token movement.
type TransferResponse struct {
	Object      string         `json:"object"`
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	Amount      string         `json:"amount"`
	Record      RecordResponse `json:"record"`
}

// CloseProfileResponse reports the lamports refunded by a close.
type CloseProfileResponse struct {
	Object          string `json:"object"`
	Refunded        string `json:"refunded"`
	RefundedDisplay string `json:"refunded_display"`
}

// EventResponse is one entry of the vault event feed.
type EventResponse struct {
	ID           string `json:"id"`
	Object       string `json:"object"`
	Type         string `json:"type"`
	Record       string `json:"record"`
	Owner        string `json:"owner"`
	Asset        string `json:"asset"`
	Actor        string `json:"actor"`
	Counterparty string `json:"counterparty,omitempty"`
	Amount       string `json:"amount"`
	Balance      string `json:"balance"`
	OccurredAt   int64  `json:"occurred_at"`
}

// ListResponse wraps a page of items.
type ListResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

func NewRecordResponse(h business.RecordHandle) RecordResponse {
	r := h.Record
	resp := RecordResponse{
		Object:                 "delegation_record",
		Address:                h.Key.String(),
		Bump:                   h.Bump,
		Owner:                  r.Owner.String(),
		VaultTokenAccount:      r.VaultTokenAccount.String(),
		AssetMint:              r.AssetMint.String(),
		Native:                 r.IsNative(),
		DelegatedAmount:        formatUint(r.DelegatedAmount),
		RemainingAllowance:     formatUint(r.RemainingAllowance),
		VaultSolBalance:        formatUint(r.VaultSolBalance),
		VaultSolBalanceDisplay: helpers.FormatLamports(r.VaultSolBalance),
		IsEnabled:              r.IsEnabled,
		Created:                h.Created,
	}
	if resp.Native {
		resp.Object = "native_profile"
	}
	if r.ExpiresAt != 0 {
		expires := r.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}

func NewTransferResponse(t business.TransferResult) TransferResponse {
	return TransferResponse{
		Object:      "transfer",
		Source:      t.Source.String(),
		Destination: t.Destination.String(),
		Amount:      formatUint(t.Amount),
		Record:      NewRecordResponse(t.Handle),
	}
}

func NewCloseProfileResponse(refunded uint64) CloseProfileResponse {
	return CloseProfileResponse{
		Object:          "native_profile_closed",
		Refunded:        formatUint(refunded),
		RefundedDisplay: helpers.FormatLamports(refunded),
	}
}

func NewEventResponse(e business.VaultEvent) EventResponse {
	resp := EventResponse{
		ID:         e.ID.String(),
		Object:     "vault_event",
		Type:       string(e.Type),
		Record:     e.Record.String(),
		Owner:      e.Owner.String(),
		Asset:      e.Asset.String(),
		Actor:      e.Actor.String(),
		Amount:     formatUint(e.Amount),
		Balance:    formatUint(e.Balance),
		OccurredAt: e.OccurredAt.Unix(),
	}
	if !e.Counterparty.IsZero() {
		resp.Counterparty = e.Counterparty.String()
	}
	return resp
}

func NewEventList(events []business.VaultEvent) ListResponse[EventResponse] {
	data := make([]EventResponse, 0, len(events))
	for _, e := range events {
		data = append(data, NewEventResponse(e))
	}
	return ListResponse[EventResponse]{Object: "list", Data: data}
}

// HealthResponse reports liveness and dependency checks.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Time   time.Time         `json:"time"`
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
