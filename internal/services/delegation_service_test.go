package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/services"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRecordKey(t *testing.T) {
	f := newVaultFixture(t)

	k1, b1, err := services.DeriveRecordKey(f.cfg, f.user, f.mint)
	require.NoError(t, err)
	k2, b2, err := services.DeriveRecordKey(f.cfg, f.user, f.mint)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Equal(t, b1, b2)

	want, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(f.cfg.SeedPrefix), f.user[:], f.mint[:]}, f.cfg.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, want, k1)

	native, _, err := services.DeriveRecordKey(f.cfg, f.user, business.NativeAssetMint)
	require.NoError(t, err)
	other, _, err := services.DeriveRecordKey(f.cfg, f.stranger, f.mint)
	require.NoError(t, err)
	assert.NotEqual(t, k1, native)
	assert.NotEqual(t, k1, other)

	// Deriving never allocates.
	assert.False(t, f.recordExists(t, f.user, f.mint))
}

func TestDelegationService_SetupDelegation(t *testing.T) {
	t.Run("creates record and approves program authority", func(t *testing.T) {
		f := newVaultFixture(t)
		h := f.setup(t)
		assert.True(t, h.Created)

		rec, acct := f.record(t, f.user, f.mint)
		assert.Equal(t, f.user, rec.Owner)
		assert.Equal(t, f.userTokens, rec.VaultTokenAccount)
		assert.Equal(t, f.mint, rec.AssetMint)
		assert.Equal(t, ceiling, rec.DelegatedAmount)
		assert.Equal(t, ceiling, rec.RemainingAllowance)
		assert.Zero(t, rec.VaultSolBalance)
		assert.True(t, rec.IsEnabled)
		assert.Zero(t, rec.ExpiresAt)
		assert.Equal(t, recordRent, acct.Lamports)
		assert.Equal(t, f.cfg.ProgramID, acct.Owner)
		assert.Equal(t, startLamports-recordRent, f.ledger.Balance(f.user))

		authority, err := services.DeriveProgramAuthority(f.cfg)
		require.NoError(t, err)
		tokens := f.tokenAccount(t, f.userTokens)
		assert.Equal(t, authority, tokens.Delegate)
		assert.Equal(t, ceiling, tokens.DelegatedAmount)

		events, err := f.events.ListEvents(context.Background(), f.user, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, business.EventDelegationGranted, events[0].Type)
		assert.Equal(t, h.Key, events[0].Record)
	})

	t.Run("stores expiry from offset", func(t *testing.T) {
		f := newVaultFixture(t)
		_, err := f.delegations.SetupDelegation(context.Background(), business.Signers{f.user}, params.SetupDelegationParams{
			User:         f.user,
			TokenAccount: f.userTokens,
			Mint:         f.mint,
			ExpiresIn:    time.Hour,
		})
		require.NoError(t, err)
		rec, _ := f.record(t, f.user, f.mint)
		assert.Equal(t, f.clock.Now().Add(time.Hour).Unix(), rec.ExpiresAt)
	})

	t.Run("out of range expiry rejected", func(t *testing.T) {
		for _, expiresIn := range []time.Duration{-time.Second, constants.MaxDelegationLifetime + time.Second} {
			f := newVaultFixture(t)
			_, err := f.delegations.SetupDelegation(context.Background(), business.Signers{f.user}, params.SetupDelegationParams{
				User:         f.user,
				TokenAccount: f.userTokens,
				Mint:         f.mint,
				ExpiresIn:    expiresIn,
			})
			assert.ErrorIs(t, err, business.ErrInvalidExpiry, expiresIn.String())
			assert.False(t, f.recordExists(t, f.user, f.mint))
		}
	})

	t.Run("second setup fails with AlreadyInitialized", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)
		_, err := f.delegations.SetupDelegation(context.Background(), business.Signers{f.user}, params.SetupDelegationParams{
			User:         f.user,
			TokenAccount: f.userTokens,
			Mint:         f.mint,
		})
		assert.ErrorIs(t, err, business.ErrAlreadyInitialized)
		assert.Equal(t, startLamports-recordRent, f.ledger.Balance(f.user))
	})

	failures := []struct {
		name    string
		prepare func(f *vaultFixture) (business.Signers, params.SetupDelegationParams)
		wantErr error
	}{
		{
			name: "missing user signature",
			prepare: func(f *vaultFixture) (business.Signers, params.SetupDelegationParams) {
				return business.Signers{f.operator}, params.SetupDelegationParams{User: f.user, TokenAccount: f.userTokens, Mint: f.mint}
			},
			wantErr: business.ErrMissingSignature,
		},
		{
			name: "token account owned by someone else",
			prepare: func(f *vaultFixture) (business.Signers, params.SetupDelegationParams) {
				return business.Signers{f.operator}, params.SetupDelegationParams{User: f.operator, TokenAccount: f.userTokens, Mint: f.mint}
			},
			wantErr: business.ErrTokenAccountMismatch,
		},
		{
			name: "token account holds another mint",
			prepare: func(f *vaultFixture) (business.Signers, params.SetupDelegationParams) {
				return business.Signers{f.user}, params.SetupDelegationParams{User: f.user, TokenAccount: f.userTokens, Mint: newKey()}
			},
			wantErr: business.ErrTokenAccountMismatch,
		},
		{
			name: "native sentinel as mint",
			prepare: func(f *vaultFixture) (business.Signers, params.SetupDelegationParams) {
				return business.Signers{f.user}, params.SetupDelegationParams{User: f.user, TokenAccount: f.userTokens, Mint: business.NativeAssetMint}
			},
			wantErr: business.ErrTokenAccountMismatch,
		},
		{
			name: "unknown token account",
			prepare: func(f *vaultFixture) (business.Signers, params.SetupDelegationParams) {
				return business.Signers{f.user}, params.SetupDelegationParams{User: f.user, TokenAccount: newKey(), Mint: f.mint}
			},
			wantErr: business.ErrAccountNotFound,
		},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			f := newVaultFixture(t)
			signers, p := tt.prepare(f)
			_, err := f.delegations.SetupDelegation(context.Background(), signers, p)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, f.recordExists(t, p.User, p.Mint))
			assert.False(t, f.tokenAccount(t, f.userTokens).HasDelegate())
		})
	}
}

func TestDelegationService_RevokeDelegation(t *testing.T) {
	t.Run("revoke destroys record and refunds rent", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)

		err := f.delegations.RevokeDelegation(context.Background(), business.Signers{f.user}, params.RevokeDelegationParams{
			Caller: f.user,
			Mint:   f.mint,
		})
		require.NoError(t, err)

		assert.False(t, f.recordExists(t, f.user, f.mint))
		assert.Equal(t, startLamports, f.ledger.Balance(f.user))
		tokens := f.tokenAccount(t, f.userTokens)
		assert.False(t, tokens.HasDelegate())
		assert.Zero(t, tokens.DelegatedAmount)

		_, err = f.transfer(1)
		assert.ErrorIs(t, err, business.ErrDelegationNotFound)

		err = f.delegations.RevokeDelegation(context.Background(), business.Signers{f.user}, params.RevokeDelegationParams{
			Caller: f.user,
			Mint:   f.mint,
		})
		assert.ErrorIs(t, err, business.ErrDelegationNotFound)
		assert.Equal(t, startLamports, f.ledger.Balance(f.user))
	})

	t.Run("setup after revoke starts fresh", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)
		_, err := f.transfer(ceiling / 2)
		require.NoError(t, err)
		require.NoError(t, f.delegations.RevokeDelegation(context.Background(), business.Signers{f.user}, params.RevokeDelegationParams{
			Caller: f.user,
			Mint:   f.mint,
		}))

		h := f.setup(t)
		assert.True(t, h.Created)
		rec, _ := f.record(t, f.user, f.mint)
		assert.Equal(t, ceiling, rec.RemainingAllowance)
		assert.True(t, rec.IsEnabled)
	})

	t.Run("non-owner cannot revoke", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)
		err := f.delegations.RevokeDelegation(context.Background(), business.Signers{f.stranger}, params.RevokeDelegationParams{
			Caller: f.stranger,
			Owner:  f.user,
			Mint:   f.mint,
		})
		assert.ErrorIs(t, err, business.ErrNotOwner)
		rec, _ := f.record(t, f.user, f.mint)
		assert.True(t, rec.IsEnabled)
	})

	t.Run("unsigned revoke rejected", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)
		err := f.delegations.RevokeDelegation(context.Background(), business.Signers{f.stranger}, params.RevokeDelegationParams{
			Caller: f.user,
			Mint:   f.mint,
		})
		assert.ErrorIs(t, err, business.ErrMissingSignature)
		assert.True(t, f.recordExists(t, f.user, f.mint))
	})
}

func TestDelegationService_SuspendDelegation(t *testing.T) {
	t.Run("admin suspends without destroying", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)

		h, err := f.delegations.SuspendDelegation(context.Background(), business.Signers{f.admin}, params.SuspendDelegationParams{
			Admin: f.admin,
			Owner: f.user,
			Mint:  f.mint,
		})
		require.NoError(t, err)
		assert.False(t, h.Record.IsEnabled)

		got, err := f.delegations.GetDelegation(context.Background(), f.user, f.mint)
		require.NoError(t, err)
		assert.False(t, got.Record.IsEnabled)
		assert.Equal(t, ceiling, got.Record.DelegatedAmount)

		_, err = f.transfer(1)
		assert.ErrorIs(t, err, business.ErrDelegationRevoked)

		require.NoError(t, f.delegations.RevokeDelegation(context.Background(), business.Signers{f.user}, params.RevokeDelegationParams{
			Caller: f.user,
			Mint:   f.mint,
		}))
	})

	tests := []struct {
		name    string
		admin   func(f *vaultFixture) solana.PublicKey
		signers func(f *vaultFixture) business.Signers
		wantErr error
	}{
		{
			name:    "non-admin",
			admin:   func(f *vaultFixture) solana.PublicKey { return f.stranger },
			signers: func(f *vaultFixture) business.Signers { return business.Signers{f.stranger} },
			wantErr: business.ErrUnauthorized,
		},
		{
			name:    "admin did not sign",
			admin:   func(f *vaultFixture) solana.PublicKey { return f.admin },
			signers: func(f *vaultFixture) business.Signers { return business.Signers{f.stranger} },
			wantErr: business.ErrMissingSignature,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVaultFixture(t)
			f.setup(t)
			_, err := f.delegations.SuspendDelegation(context.Background(), tt.signers(f), params.SuspendDelegationParams{
				Admin: tt.admin(f),
				Owner: f.user,
				Mint:  f.mint,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			rec, _ := f.record(t, f.user, f.mint)
			assert.True(t, rec.IsEnabled)
		})
	}

	t.Run("suspension disabled without admin", func(t *testing.T) {
		f := newVaultFixture(t)
		f.setup(t)
		cfg := f.cfg
		cfg.Admin = solana.PublicKey{}
		svc := services.NewDelegationService(f.ledger, cfg, nil)
		_, err := svc.SuspendDelegation(context.Background(), business.Signers{{}}, params.SuspendDelegationParams{
			Owner: f.user,
			Mint:  f.mint,
		})
		assert.ErrorIs(t, err, business.ErrUnauthorized)
	})
}

func TestDelegationService_GetDelegation(t *testing.T) {
	f := newVaultFixture(t)
	_, err := f.delegations.GetDelegation(context.Background(), f.user, f.mint)
	assert.ErrorIs(t, err, business.ErrDelegationNotFound)

	created := f.setup(t)
	got, err := f.delegations.GetDelegation(context.Background(), f.user, f.mint)
	require.NoError(t, err)
	assert.Equal(t, created.Key, got.Key)
	assert.Equal(t, created.Record, got.Record)
	assert.False(t, got.Created)
}

func TestServicesWithoutGlobalLogger(t *testing.T) {
	saved := logger.Log
	logger.Log = nil
	t.Cleanup(func() { logger.Log = saved })

	f := newVaultFixture(t)

	assert.NotPanics(t, func() {
		f.setup(t)
		f.commit(t, 1_000)
		res, err := f.transfer(10)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), res.Amount)

		_, err = f.transfer(0)
		assert.ErrorIs(t, err, business.ErrInvalidAmount)
	})
}
