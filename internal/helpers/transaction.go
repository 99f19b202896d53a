package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// TransactionFunc is a function that executes within a database transaction
type TransactionFunc func(tx pgx.Tx) error

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionOptions provides additional options for transaction execution
type TransactionOptions struct {
	IsolationLevel pgx.TxIsoLevel
	AccessMode     pgx.TxAccessMode
	DeferrableMode pgx.TxDeferrableMode
}

// RetryPolicy bounds WithTransactionRetry.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy retries serialization conflicts a handful of times.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      5,
	InitialInterval: 20 * time.Millisecond,
	MaxElapsedTime:  5 * time.Second,
}

// WithTransaction executes a function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function returns nil, the transaction is committed.
func WithTransaction(ctx context.Context, db TxBeginner, fn TransactionFunc) error {
	return WithTransactionOptions(ctx, db, TransactionOptions{}, fn)
}

// WithTransactionOptions executes a function within a database transaction with custom options
func WithTransactionOptions(ctx context.Context, db TxBeginner, opts TransactionOptions, fn TransactionFunc) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:       opts.IsolationLevel,
		AccessMode:     opts.AccessMode,
		DeferrableMode: opts.DeferrableMode,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback after a successful commit returns ErrTxClosed, which is ignored.
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			logger.OrNop(nil).Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionRetry runs fn in a transaction, retrying with exponential
// backoff while Postgres reports serialization failures or deadlocks.
func WithTransactionRetry(ctx context.Context, db TxBeginner, opts TransactionOptions, policy RetryPolicy, fn TransactionFunc) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := WithTransactionOptions(ctx, db, opts, fn)
		if err == nil {
			return nil
		}
		if IsRetryableTxError(err) {
			logger.OrNop(nil).Warn("Transaction conflict, retrying",
				zap.Int("attempt", attempt),
				zap.Uint64("max_retries", policy.MaxRetries),
				zap.Error(err),
			)
			return err
		}
		return backoff.Permanent(err)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = policy.InitialInterval
	expo.MaxElapsedTime = policy.MaxElapsedTime

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(expo, policy.MaxRetries), ctx))
}

// IsRetryableTxError reports serialization_failure (40001) and deadlock_detected (40P01).
func IsRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
