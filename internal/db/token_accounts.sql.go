package db

import (
	"context"
)

const getTokenAccountForUpdate = `-- name: GetTokenAccountForUpdate :one
SELECT pubkey, mint, owner, amount, delegate, delegated_amount, updated_at FROM token_accounts
WHERE pubkey = $1
FOR UPDATE
`

func (q *Queries) GetTokenAccountForUpdate(ctx context.Context, pubkey string) (TokenAccount, error) {
	row := q.db.QueryRow(ctx, getTokenAccountForUpdate, pubkey)
	var i TokenAccount
	err := row.Scan(
		&i.Pubkey,
		&i.Mint,
		&i.Owner,
		&i.Amount,
		&i.Delegate,
		&i.DelegatedAmount,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertTokenAccount = `-- name: UpsertTokenAccount :exec
INSERT INTO token_accounts (pubkey, mint, owner, amount, delegate, delegated_amount, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
ON CONFLICT (pubkey) DO UPDATE
SET mint = EXCLUDED.mint,
    owner = EXCLUDED.owner,
    amount = EXCLUDED.amount,
    delegate = EXCLUDED.delegate,
    delegated_amount = EXCLUDED.delegated_amount,
    updated_at = NOW()
`

type UpsertTokenAccountParams struct {
	Pubkey          string
	Mint            string
	Owner           string
	Amount          int64
	Delegate        *string
	DelegatedAmount int64
}

func (q *Queries) UpsertTokenAccount(ctx context.Context, arg UpsertTokenAccountParams) error {
	_, err := q.db.Exec(ctx, upsertTokenAccount,
		arg.Pubkey,
		arg.Mint,
		arg.Owner,
		arg.Amount,
		arg.Delegate,
		arg.DelegatedAmount,
	)
	return err
}
