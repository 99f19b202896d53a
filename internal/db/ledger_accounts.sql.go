package db

import (
	"context"
)

const getLedgerAccountForUpdate = `-- name: GetLedgerAccountForUpdate :one
SELECT pubkey, owner, lamports, data, updated_at FROM ledger_accounts
WHERE pubkey = $1
FOR UPDATE
`

func (q *Queries) GetLedgerAccountForUpdate(ctx context.Context, pubkey string) (LedgerAccount, error) {
	row := q.db.QueryRow(ctx, getLedgerAccountForUpdate, pubkey)
	var i LedgerAccount
	err := row.Scan(
		&i.Pubkey,
		&i.Owner,
		&i.Lamports,
		&i.Data,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertLedgerAccount = `-- name: UpsertLedgerAccount :exec
INSERT INTO ledger_accounts (pubkey, owner, lamports, data, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (pubkey) DO UPDATE
SET owner = EXCLUDED.owner,
    lamports = EXCLUDED.lamports,
    data = EXCLUDED.data,
    updated_at = NOW()
`

type UpsertLedgerAccountParams struct {
	Pubkey   string
	Owner    string
	Lamports int64
	Data     []byte
}

func (q *Queries) UpsertLedgerAccount(ctx context.Context, arg UpsertLedgerAccountParams) error {
	_, err := q.db.Exec(ctx, upsertLedgerAccount,
		arg.Pubkey,
		arg.Owner,
		arg.Lamports,
		arg.Data,
	)
	return err
}

const deleteLedgerAccount = `-- name: DeleteLedgerAccount :exec
DELETE FROM ledger_accounts
WHERE pubkey = $1
`

func (q *Queries) DeleteLedgerAccount(ctx context.Context, pubkey string) error {
	_, err := q.db.Exec(ctx, deleteLedgerAccount, pubkey)
	return err
}
