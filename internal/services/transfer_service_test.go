package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/mocks"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTransferService_ExecuteTransfer(t *testing.T) {
	t.Run("ceiling transfer succeeds exactly once", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)

		res, err := f.transfer(ceiling)
		require.NoError(t, err)
		assert.Equal(t, ceiling, res.Amount)
		assert.Equal(t, f.userTokens, res.Source)
		assert.Equal(t, f.destTokens, res.Destination)

		rec, _ := f.record(t, f.user, f.mint)
		assert.Equal(t, ceiling, rec.DelegatedAmount)
		assert.Zero(t, rec.RemainingAllowance)
		assert.Equal(t, ceiling, f.tokenAccount(t, f.userTokens).Amount)
		assert.Equal(t, ceiling, f.tokenAccount(t, f.destTokens).Amount)

		_, err = f.transfer(ceiling)
		assert.ErrorIs(t, err, business.ErrTransferLimitExceeded)
		_, err = f.transfer(1)
		assert.ErrorIs(t, err, business.ErrTransferLimitExceeded)
		assert.Equal(t, ceiling, f.tokenAccount(t, f.destTokens).Amount)
	})

	t.Run("running allowance across transfers", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)

		for _, amount := range []uint64{ceiling / 4, ceiling / 4, ceiling / 2} {
			_, err := f.transfer(amount)
			require.NoError(t, err)
		}
		rec, _ := f.record(t, f.user, f.mint)
		assert.Zero(t, rec.RemainingAllowance)
		assert.Equal(t, ceiling, rec.DelegatedAmount)
		assert.False(t, f.tokenAccount(t, f.userTokens).HasDelegate())
	})

	t.Run("transfer back into the delegated account rejected", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)

		_, err := f.transfers.ExecuteTransfer(context.Background(), business.Signers{f.operator}, params.ExecuteTransferParams{
			Operator:    f.operator,
			Owner:       f.user,
			Mint:        f.mint,
			Destination: f.userTokens,
			Amount:      10,
		})
		assert.ErrorIs(t, err, business.ErrTokenAccountMismatch)

		rec, _ := f.record(t, f.user, f.mint)
		assert.Equal(t, ceiling, rec.RemainingAllowance)
		tokens := f.tokenAccount(t, f.userTokens)
		assert.Equal(t, ceiling, tokens.DelegatedAmount)
		assert.Equal(t, 2*ceiling, tokens.Amount)
	})

	tests := []struct {
		name    string
		prepare func(t *testing.T, f *vaultFixture)
		signers func(f *vaultFixture) business.Signers
		amount  uint64
		wantErr error
	}{
		{
			name:    "above hard limit",
			amount:  ceiling + 1,
			wantErr: business.ErrAmountExceedsHardLimit,
		},
		{
			name:    "zero amount",
			amount:  0,
			wantErr: business.ErrInvalidAmount,
		},
		{
			name:    "operator did not sign",
			signers: func(f *vaultFixture) business.Signers { return business.Signers{f.stranger} },
			amount:  1,
			wantErr: business.ErrMissingSignature,
		},
		{
			name: "suspended delegation",
			prepare: func(t *testing.T, f *vaultFixture) {
				_, err := f.delegations.SuspendDelegation(context.Background(), business.Signers{f.admin}, params.SuspendDelegationParams{
					Admin: f.admin,
					Owner: f.user,
					Mint:  f.mint,
				})
				require.NoError(t, err)
			},
			amount:  1,
			wantErr: business.ErrDelegationRevoked,
		},
		{
			name: "source balance too low",
			prepare: func(t *testing.T, f *vaultFixture) {
				require.NoError(t, f.ledger.Execute(context.Background(), business.Signers{f.user}, func(tx interfaces.LedgerTx) error {
					return tx.Tokens().Transfer(f.userTokens, f.destTokens, f.user, 2*ceiling-10)
				}))
			},
			amount:  11,
			wantErr: business.ErrTokenInsufficientFunds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVaultFixture(t)
			f.setup(t)
			if tt.prepare != nil {
				tt.prepare(t, f)
			}
			before, _ := f.record(t, f.user, f.mint)
			tokensBefore := f.tokenAccount(t, f.userTokens)

			signers := business.Signers{f.operator}
			if tt.signers != nil {
				signers = tt.signers(f)
			}
			_, err := f.transfers.ExecuteTransfer(context.Background(), signers, params.ExecuteTransferParams{
				Operator:    f.operator,
				Owner:       f.user,
				Mint:        f.mint,
				Destination: f.destTokens,
				Amount:      tt.amount,
			})
			assert.ErrorIs(t, err, tt.wantErr)

			after, _ := f.record(t, f.user, f.mint)
			assert.Equal(t, before, after)
			assert.Equal(t, tokensBefore, f.tokenAccount(t, f.userTokens))
		})
	}

	t.Run("expired delegation", func(t *testing.T) {
		f := newVaultFixture(t)
		_, err := f.delegations.SetupDelegation(context.Background(), business.Signers{f.user}, params.SetupDelegationParams{
			User:         f.user,
			TokenAccount: f.userTokens,
			Mint:         f.mint,
			ExpiresIn:    time.Minute,
		})
		require.NoError(t, err)

		_, err = f.transfer(1)
		require.NoError(t, err)

		f.clock.Advance(time.Minute)
		_, err = f.transfer(1)
		assert.ErrorIs(t, err, business.ErrDelegationExpired)
	})

	t.Run("missing record", func(t *testing.T) {
		f := newVaultFixture(t)
		_, err := f.transfer(1)
		assert.ErrorIs(t, err, business.ErrDelegationNotFound)
	})

	t.Run("native profile has no token account", func(t *testing.T) {
		f := newVaultFixture(t)
		f.commit(t, 10)
		_, err := f.transfers.ExecuteTransfer(context.Background(), business.Signers{f.operator}, params.ExecuteTransferParams{
			Operator:    f.operator,
			Owner:       f.user,
			Mint:        business.NativeAssetMint,
			Destination: f.destTokens,
			Amount:      1,
		})
		assert.ErrorIs(t, err, business.ErrTokenAccountMismatch)
	})
}

func TestTransferService_ExecuteMaxTransfer(t *testing.T) {
	f := newVaultFixture(t)
	f.setup(t)
	ctx := context.Background()
	p := params.ExecuteMaxTransferParams{
		Operator:    f.operator,
		Owner:       f.user,
		Mint:        f.mint,
		Destination: f.destTokens,
	}

	_, err := f.transfer(2*ceiling - 30)
	assert.ErrorIs(t, err, business.ErrAmountExceedsHardLimit)

	// Drain the source down to 30 tokens outside the vault.
	_, err = f.transfer(ceiling / 2)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Execute(ctx, business.Signers{f.user}, func(tx interfaces.LedgerTx) error {
		return tx.Tokens().Transfer(f.userTokens, f.destTokens, f.user, ceiling+ceiling/2-30)
	}))

	res, err := f.transfers.ExecuteMaxTransfer(ctx, business.Signers{f.operator}, p)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), res.Amount)

	require.NoError(t, f.ledger.MintTo(f.userTokens, ceiling))
	res, err = f.transfers.ExecuteMaxTransfer(ctx, business.Signers{f.operator}, p)
	require.NoError(t, err)
	assert.Equal(t, ceiling/2-30, res.Amount)

	_, err = f.transfers.ExecuteMaxTransfer(ctx, business.Signers{f.operator}, p)
	assert.ErrorIs(t, err, business.ErrInvalidAmount)

	rec, _ := f.record(t, f.user, f.mint)
	assert.Zero(t, rec.RemainingAllowance)
	assert.Equal(t, ceiling, rec.DelegatedAmount)
}

func TestTransferService_SyncLiquidity(t *testing.T) {
	t.Run("any signer may sweep tracked balance", func(t *testing.T) {
		f := newVaultFixture(t)
		f.commit(t, 1_000)
		dest := newKey()

		h, err := f.transfers.SyncLiquidity(context.Background(), business.Signers{f.stranger}, params.SyncLiquidityParams{
			Operator:    f.stranger,
			Owner:       f.user,
			Destination: dest,
			Amount:      600,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(400), h.Record.VaultSolBalance)
		assert.Equal(t, uint64(600), f.ledger.Balance(dest))

		_, acct := f.record(t, f.user, business.NativeAssetMint)
		assert.Equal(t, recordRent+400, acct.Lamports)
	})

	t.Run("sweep ignores suspension", func(t *testing.T) {
		f := newVaultFixture(t)
		f.commit(t, 1_000)
		_, err := f.delegations.SuspendDelegation(context.Background(), business.Signers{f.admin}, params.SuspendDelegationParams{
			Admin: f.admin,
			Owner: f.user,
			Mint:  business.NativeAssetMint,
		})
		require.NoError(t, err)

		_, err = f.transfers.SyncLiquidity(context.Background(), business.Signers{f.operator}, params.SyncLiquidityParams{
			Operator:    f.operator,
			Owner:       f.user,
			Destination: f.operator,
			Amount:      1_000,
		})
		require.NoError(t, err)
	})

	tests := []struct {
		name    string
		signers func(f *vaultFixture) business.Signers
		owner   func(f *vaultFixture) solana.PublicKey
		amount  uint64
		wantErr error
	}{
		{
			name:    "unsigned",
			signers: func(f *vaultFixture) business.Signers { return nil },
			amount:  1,
			wantErr: business.ErrMissingSignature,
		},
		{
			name:    "more than tracked",
			amount:  1_001,
			wantErr: business.ErrInsufficientFunds,
		},
		{
			name:    "zero",
			amount:  0,
			wantErr: business.ErrInvalidAmount,
		},
		{
			name:    "unknown owner",
			owner:   func(f *vaultFixture) solana.PublicKey { return f.stranger },
			amount:  1,
			wantErr: business.ErrDelegationNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVaultFixture(t)
			f.commit(t, 1_000)
			signers := business.Signers{f.operator}
			if tt.signers != nil {
				signers = tt.signers(f)
			}
			owner := f.user
			if tt.owner != nil {
				owner = tt.owner(f)
			}
			_, err := f.transfers.SyncLiquidity(context.Background(), signers, params.SyncLiquidityParams{
				Operator:    f.operator,
				Owner:       owner,
				Destination: f.operator,
				Amount:      tt.amount,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			rec, acct := f.record(t, f.user, business.NativeAssetMint)
			assert.Equal(t, uint64(1_000), rec.VaultSolBalance)
			assert.Equal(t, recordRent+1_000, acct.Lamports)
		})
	}
}

func TestTransferService_PublishesAfterCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher := mocks.NewMockEventPublisher(ctrl)
	f := newVaultFixtureWithPublisher(t, publisher)

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event business.VaultEvent) error {
			assert.Equal(t, business.EventDelegationGranted, event.Type)
			return nil
		})
	f.setup(t)

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event business.VaultEvent) error {
			assert.Equal(t, business.EventTokensTransferred, event.Type)
			assert.Equal(t, uint64(5), event.Amount)
			assert.Equal(t, ceiling-5, event.Balance)
			assert.Equal(t, f.destTokens, event.Counterparty)
			return errors.New("queue unavailable")
		})
	res, err := f.transfer(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), res.Amount)

	// Rejected calls publish nothing.
	_, err = f.transfer(ceiling)
	assert.ErrorIs(t, err, business.ErrTransferLimitExceeded)
}
