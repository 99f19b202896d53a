package db

import (
	"context"

	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const maxEventPage = 500

// EventStore persists vault events in the vault_events table.
type EventStore struct {
	queries *Queries
}

var (
	_ interfaces.EventPublisher = (*EventStore)(nil)
	_ interfaces.EventReader    = (*EventStore)(nil)
)

// NewEventStore creates an event store over db.
func NewEventStore(db DBTX) *EventStore {
	return &EventStore{queries: New(db)}
}

func (s *EventStore) Publish(ctx context.Context, event business.VaultEvent) error {
	arg, err := eventToParams(event)
	if err != nil {
		return err
	}
	return errors.Wrap(s.queries.InsertVaultEvent(ctx, arg), "failed to store vault event")
}

// ListEvents returns events for owner, newest first. The zero owner lists
// every owner.
func (s *EventStore) ListEvents(ctx context.Context, owner solana.PublicKey, limit int) ([]business.VaultEvent, error) {
	if limit <= 0 || limit > maxEventPage {
		limit = maxEventPage
	}
	filter := ""
	if !owner.IsZero() {
		filter = owner.String()
	}
	rows, err := s.queries.ListVaultEvents(ctx, ListVaultEventsParams{Owner: filter, Limit: int32(limit)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vault events")
	}

	events := make([]business.VaultEvent, 0, len(rows))
	for _, row := range rows {
		event, err := eventFromRow(row)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func eventToParams(e business.VaultEvent) (InsertVaultEventParams, error) {
	amount, err := helpers.ToInt64(e.Amount)
	if err != nil {
		return InsertVaultEventParams{}, err
	}
	balance, err := helpers.ToInt64(e.Balance)
	if err != nil {
		return InsertVaultEventParams{}, err
	}
	arg := InsertVaultEventParams{
		ID:         e.ID,
		EventType:  string(e.Type),
		Record:     e.Record.String(),
		Owner:      e.Owner.String(),
		Asset:      e.Asset.String(),
		Actor:      e.Actor.String(),
		Amount:     amount,
		Balance:    balance,
		OccurredAt: e.OccurredAt,
	}
	if !e.Counterparty.IsZero() {
		counterparty := e.Counterparty.String()
		arg.Counterparty = &counterparty
	}
	return arg, nil
}

func eventFromRow(row VaultEvent) (business.VaultEvent, error) {
	e := business.VaultEvent{
		ID:         row.ID,
		Type:       business.EventType(row.EventType),
		OccurredAt: row.OccurredAt.UTC(),
	}
	keys := []struct {
		dst *solana.PublicKey
		src string
	}{
		{&e.Record, row.Record},
		{&e.Owner, row.Owner},
		{&e.Asset, row.Asset},
		{&e.Actor, row.Actor},
	}
	if row.Counterparty != nil {
		keys = append(keys, struct {
			dst *solana.PublicKey
			src string
		}{&e.Counterparty, *row.Counterparty})
	}
	for _, k := range keys {
		key, err := solana.PublicKeyFromBase58(k.src)
		if err != nil {
			return e, errors.Wrapf(err, "invalid stored event key %q", k.src)
		}
		*k.dst = key
	}

	var err error
	if e.Amount, err = helpers.FromInt64(row.Amount); err != nil {
		return e, err
	}
	if e.Balance, err = helpers.FromInt64(row.Balance); err != nil {
		return e, err
	}
	return e, nil
}
