package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const insertVaultEvent = `-- name: InsertVaultEvent :exec
INSERT INTO vault_events (id, event_type, record, owner, asset, actor, counterparty, amount, balance, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO NOTHING
`

type InsertVaultEventParams struct {
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

func (q *Queries) InsertVaultEvent(ctx context.Context, arg InsertVaultEventParams) error {
	_, err := q.db.Exec(ctx, insertVaultEvent,
		arg.ID,
		arg.EventType,
		arg.Record,
		arg.Owner,
		arg.Asset,
		arg.Actor,
		arg.Counterparty,
		arg.Amount,
		arg.Balance,
		arg.OccurredAt,
	)
	return err
}

const listVaultEvents = `-- name: ListVaultEvents :many
SELECT id, event_type, record, owner, asset, actor, counterparty, amount, balance, occurred_at FROM vault_events
WHERE ($1::text = '' OR owner = $1::text)
ORDER BY occurred_at DESC
LIMIT $2
`

type ListVaultEventsParams struct {
	Owner string
	Limit int32
}

func (q *Queries) ListVaultEvents(ctx context.Context, arg ListVaultEventsParams) ([]VaultEvent, error) {
	rows, err := q.db.Query(ctx, listVaultEvents, arg.Owner, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []VaultEvent{}
	for rows.Next() {
		var i VaultEvent
		if err := rows.Scan(
			&i.ID,
			&i.EventType,
			&i.Record,
			&i.Owner,
			&i.Asset,
			&i.Actor,
			&i.Counterparty,
			&i.Amount,
			&i.Balance,
			&i.OccurredAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
