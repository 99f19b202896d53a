package db

import (
	"context"
	"time"

	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/ledger"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PostgresLedger is a LedgerRuntime backed by Postgres. Each Execute call is
// one SERIALIZABLE transaction; rows are locked as they are read and
// serialization conflicts are retried with backoff.
type PostgresLedger struct {
	pool      helpers.TxBeginner
	programID solana.PublicKey
	clock     func() time.Time
	retry     helpers.RetryPolicy
	logger    *zap.Logger
}

var (
	_ interfaces.LedgerRuntime = (*PostgresLedger)(nil)
	_ interfaces.LedgerSeeder  = (*PostgresLedger)(nil)
)

// LedgerOption configures a PostgresLedger.
type LedgerOption func(*PostgresLedger)

// WithClock overrides the transaction clock.
func WithClock(clock func() time.Time) LedgerOption {
	return func(l *PostgresLedger) {
		l.clock = clock
	}
}

// WithRetryPolicy overrides how serialization conflicts are retried.
func WithRetryPolicy(policy helpers.RetryPolicy) LedgerOption {
	return func(l *PostgresLedger) {
		l.retry = policy
	}
}

// WithLogger sets the logger used for rollback diagnostics.
func WithLogger(log *zap.Logger) LedgerOption {
	return func(l *PostgresLedger) {
		l.logger = logger.OrNop(log)
	}
}

// NewPostgresLedger creates a ledger runtime over pool.
func NewPostgresLedger(pool helpers.TxBeginner, programID solana.PublicKey, opts ...LedgerOption) *PostgresLedger {
	l := &PostgresLedger{
		pool:      pool,
		programID: programID,
		clock:     time.Now,
		retry:     helpers.DefaultRetryPolicy,
		logger:    logger.OrNop(nil),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *PostgresLedger) ProgramID() solana.PublicKey {
	return l.programID
}

func (l *PostgresLedger) Execute(ctx context.Context, signers business.Signers, fn func(tx interfaces.LedgerTx) error) error {
	opts := helpers.TransactionOptions{IsolationLevel: pgx.Serializable}
	err := helpers.WithTransactionRetry(ctx, l.pool, opts, l.retry, func(tx pgx.Tx) error {
		store := &pgStore{ctx: ctx, q: New(tx)}
		return fn(ledger.NewTransaction(store, l.programID, signers, l.clock()))
	})
	if err != nil {
		l.logger.Debug("ledger transaction rolled back", zap.Error(err))
	}
	return err
}

// Airdrop credits lamports to a system account, creating it if needed.
func (l *PostgresLedger) Airdrop(ctx context.Context, key solana.PublicKey, lamports uint64) error {
	return l.Execute(ctx, nil, func(tx interfaces.LedgerTx) error {
		return tx.Credit(key, lamports)
	})
}

// CreateTokenAccount registers a token holding for owner.
func (l *PostgresLedger) CreateTokenAccount(ctx context.Context, key, mint, owner solana.PublicKey, amount uint64) error {
	opts := helpers.TransactionOptions{IsolationLevel: pgx.Serializable}
	return helpers.WithTransactionRetry(ctx, l.pool, opts, l.retry, func(tx pgx.Tx) error {
		store := &pgStore{ctx: ctx, q: New(tx)}
		if _, err := store.GetTokenAccount(key); err == nil {
			return business.ErrAlreadyInitialized
		} else if !errors.Is(err, business.ErrAccountNotFound) {
			return err
		}
		return store.PutTokenAccount(&business.TokenAccount{Key: key, Mint: mint, Owner: owner, Amount: amount})
	})
}

// pgStore implements ledger.AccountStore inside one pgx transaction.
type pgStore struct {
	ctx context.Context
	q   *Queries
}

var _ ledger.AccountStore = (*pgStore)(nil)

func (s *pgStore) GetAccount(key solana.PublicKey) (*business.Account, error) {
	row, err := s.q.GetLedgerAccountForUpdate(s.ctx, key.String())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, business.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load ledger account %s", key)
	}
	return accountFromRow(row)
}

func (s *pgStore) PutAccount(account *business.Account) error {
	arg, err := accountToParams(account)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.q.UpsertLedgerAccount(s.ctx, arg), "failed to store ledger account %s", account.Key)
}

func (s *pgStore) DeleteAccount(key solana.PublicKey) error {
	return errors.Wrapf(s.q.DeleteLedgerAccount(s.ctx, key.String()), "failed to delete ledger account %s", key)
}

func (s *pgStore) GetTokenAccount(key solana.PublicKey) (*business.TokenAccount, error) {
	row, err := s.q.GetTokenAccountForUpdate(s.ctx, key.String())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, business.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load token account %s", key)
	}
	return tokenAccountFromRow(row)
}

func (s *pgStore) PutTokenAccount(account *business.TokenAccount) error {
	arg, err := tokenAccountToParams(account)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.q.UpsertTokenAccount(s.ctx, arg), "failed to store token account %s", account.Key)
}

func accountFromRow(row LedgerAccount) (*business.Account, error) {
	key, err := solana.PublicKeyFromBase58(row.Pubkey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid stored account key")
	}
	owner, err := solana.PublicKeyFromBase58(row.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid stored account owner")
	}
	lamports, err := helpers.FromInt64(row.Lamports)
	if err != nil {
		return nil, err
	}
	return &business.Account{Key: key, Owner: owner, Lamports: lamports, Data: row.Data}, nil
}

func accountToParams(a *business.Account) (UpsertLedgerAccountParams, error) {
	lamports, err := helpers.ToInt64(a.Lamports)
	if err != nil {
		return UpsertLedgerAccountParams{}, err
	}
	data := a.Data
	if data == nil {
		data = []byte{}
	}
	return UpsertLedgerAccountParams{
		Pubkey:   a.Key.String(),
		Owner:    a.Owner.String(),
		Lamports: lamports,
		Data:     data,
	}, nil
}

func tokenAccountFromRow(row TokenAccount) (*business.TokenAccount, error) {
	var (
		acct business.TokenAccount
		err  error
	)
	if acct.Key, err = solana.PublicKeyFromBase58(row.Pubkey); err != nil {
		return nil, errors.Wrap(err, "invalid stored token account key")
	}
	if acct.Mint, err = solana.PublicKeyFromBase58(row.Mint); err != nil {
		return nil, errors.Wrap(err, "invalid stored token mint")
	}
	if acct.Owner, err = solana.PublicKeyFromBase58(row.Owner); err != nil {
		return nil, errors.Wrap(err, "invalid stored token owner")
	}
	if row.Delegate != nil {
		if acct.Delegate, err = solana.PublicKeyFromBase58(*row.Delegate); err != nil {
			return nil, errors.Wrap(err, "invalid stored token delegate")
		}
	}
	if acct.Amount, err = helpers.FromInt64(row.Amount); err != nil {
		return nil, err
	}
	if acct.DelegatedAmount, err = helpers.FromInt64(row.DelegatedAmount); err != nil {
		return nil, err
	}
	return &acct, nil
}

func tokenAccountToParams(a *business.TokenAccount) (UpsertTokenAccountParams, error) {
	amount, err := helpers.ToInt64(a.Amount)
	if err != nil {
		return UpsertTokenAccountParams{}, err
	}
	delegated, err := helpers.ToInt64(a.DelegatedAmount)
	if err != nil {
		return UpsertTokenAccountParams{}, err
	}
	arg := UpsertTokenAccountParams{
		Pubkey:          a.Key.String(),
		Mint:            a.Mint.String(),
		Owner:           a.Owner.String(),
		Amount:          amount,
		DelegatedAmount: delegated,
	}
	if a.HasDelegate() {
		delegate := a.Delegate.String()
		arg.Delegate = &delegate
	}
	return arg, nil
}
