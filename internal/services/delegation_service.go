package services

import (
	"context"
	"fmt"

	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// DelegationService grants, revokes and suspends token delegations
type DelegationService struct {
	vaultService
}

var _ interfaces.DelegationService = (*DelegationService)(nil)

// NewDelegationService creates a new delegation service
func NewDelegationService(runtime interfaces.LedgerRuntime, cfg business.VaultConfig, publisher interfaces.EventPublisher) *DelegationService {
	return &DelegationService{
		vaultService: newVaultService(runtime, cfg, publisher, logger.Log),
	}
}

// SetupDelegation creates the record for (user, mint) and approves the
// program authority to move up to the global ceiling from the user's token
// account.
func (s *DelegationService) SetupDelegation(ctx context.Context, signers business.Signers, p params.SetupDelegationParams) (*business.RecordHandle, error) {
	if p.Mint.Equals(business.NativeAssetMint) {
		return nil, fmt.Errorf("%w: native coin cannot be delegated", business.ErrTokenAccountMismatch)
	}
	if p.ExpiresIn < 0 || p.ExpiresIn > constants.MaxDelegationLifetime {
		return nil, fmt.Errorf("%w: %s", business.ErrInvalidExpiry, p.ExpiresIn)
	}

	var (
		handle *business.RecordHandle
		event  business.VaultEvent
	)
	err := s.runtime.Execute(ctx, signers, func(tx interfaces.LedgerTx) error {
		h, err := s.store.locate(p.User, p.Mint)
		if err != nil {
			return err
		}
		exists, err := s.store.exists(tx, h)
		if err != nil {
			return err
		}
		if exists {
			return business.ErrAlreadyInitialized
		}
		if !tx.IsSigner(p.User) {
			return fmt.Errorf("%w: user %s", business.ErrMissingSignature, p.User)
		}

		tokenAccount, err := tx.Tokens().TokenAccount(p.TokenAccount)
		if err != nil {
			return fmt.Errorf("token account %s: %w", p.TokenAccount, err)
		}
		if !tokenAccount.Owner.Equals(p.User) || !tokenAccount.Mint.Equals(p.Mint) {
			return business.ErrTokenAccountMismatch
		}

		authority, err := DeriveProgramAuthority(s.cfg)
		if err != nil {
			return err
		}

		if err := tx.Allocate(h.Key, p.User, business.RecordAccountSize); err != nil {
			return err
		}
		h.Created = true
		h.Record = business.DelegationRecord{
			Owner:              p.User,
			VaultTokenAccount:  p.TokenAccount,
			AssetMint:          p.Mint,
			DelegatedAmount:    s.cfg.MaxTransfer,
			RemainingAllowance: s.cfg.MaxTransfer,
			IsEnabled:          true,
		}
		if p.ExpiresIn > 0 {
			h.Record.ExpiresAt = tx.Now().Add(p.ExpiresIn).Unix()
		}
		if err := s.store.save(tx, h); err != nil {
			return err
		}
		if err := tx.Tokens().Approve(p.TokenAccount, authority, p.User, s.cfg.MaxTransfer); err != nil {
			return err
		}

		handle = h
		event = business.NewVaultEvent(business.EventDelegationGranted, h.Key, p.User, p.Mint, p.User, tx.Now())
		event.Counterparty = authority
		event.Amount = s.cfg.MaxTransfer
		return nil
	})
	if err != nil {
		s.logger.Warn("delegation setup failed",
			zap.String("user", p.User.String()),
			zap.String("mint", p.Mint.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("delegation granted",
		zap.String("record", handle.Key.String()),
		zap.String("user", p.User.String()),
		zap.String("mint", p.Mint.String()),
		zap.Uint64("ceiling", s.cfg.MaxTransfer))
	s.publish(ctx, event)
	return handle, nil
}

// RevokeDelegation disables the record, clears the token approval and
// destroys the record, refunding its storage to the owner.
func (s *DelegationService) RevokeDelegation(ctx context.Context, signers business.Signers, p params.RevokeDelegationParams) error {
	owner := params.ResolveOwner(p.Caller, p.Owner)

	var event business.VaultEvent
	err := s.runtime.Execute(ctx, signers, func(tx interfaces.LedgerTx) error {
		h, err := s.store.load(tx, owner, p.Mint)
		if err != nil {
			return err
		}
		if !tx.IsSigner(p.Caller) {
			return fmt.Errorf("%w: caller %s", business.ErrMissingSignature, p.Caller)
		}
		if !h.Record.Owner.Equals(p.Caller) {
			return business.ErrNotOwner
		}

		h.Record.IsEnabled = false
		if err := s.store.save(tx, h); err != nil {
			return err
		}
		if !h.Record.IsNative() {
			if err := tx.Tokens().Revoke(h.Record.VaultTokenAccount, p.Caller); err != nil {
				return err
			}
		}

		acct, err := tx.Account(h.Key)
		if err != nil {
			return err
		}
		if err := tx.Close(h.Key, p.Caller); err != nil {
			return err
		}

		event = business.NewVaultEvent(business.EventDelegationRevoked, h.Key, owner, p.Mint, p.Caller, tx.Now())
		event.Amount = acct.Lamports
		return nil
	})
	if err != nil {
		s.logger.Warn("delegation revoke failed",
			zap.String("caller", p.Caller.String()),
			zap.String("mint", p.Mint.String()),
			zap.Error(err))
		return err
	}

	s.logger.Info("delegation revoked",
		zap.String("record", event.Record.String()),
		zap.String("owner", owner.String()),
		zap.Uint64("refunded_lamports", event.Amount))
	s.publish(ctx, event)
	return nil
}

// SuspendDelegation lets the configured admin disable a delegation without
// destroying it. Suspension is permanent; the owner may still revoke.
func (s *DelegationService) SuspendDelegation(ctx context.Context, signers business.Signers, p params.SuspendDelegationParams) (*business.RecordHandle, error) {
	if s.cfg.Admin.IsZero() || !s.cfg.Admin.Equals(p.Admin) {
		return nil, business.ErrUnauthorized
	}

	var (
		handle *business.RecordHandle
		event  business.VaultEvent
	)
	err := s.runtime.Execute(ctx, signers, func(tx interfaces.LedgerTx) error {
		if !tx.IsSigner(p.Admin) {
			return fmt.Errorf("%w: admin %s", business.ErrMissingSignature, p.Admin)
		}
		h, err := s.store.load(tx, p.Owner, p.Mint)
		if err != nil {
			return err
		}
		h.Record.IsEnabled = false
		if err := s.store.save(tx, h); err != nil {
			return err
		}
		handle = h
		event = business.NewVaultEvent(business.EventDelegationSuspended, h.Key, p.Owner, p.Mint, p.Admin, tx.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delegation suspended",
		zap.String("record", handle.Key.String()),
		zap.String("owner", p.Owner.String()),
		zap.String("admin", p.Admin.String()))
	s.publish(ctx, event)
	return handle, nil
}

// GetDelegation returns the current record for (owner, mint)
func (s *DelegationService) GetDelegation(ctx context.Context, owner, mint solana.PublicKey) (*business.RecordHandle, error) {
	var handle *business.RecordHandle
	err := s.read(ctx, func(tx interfaces.LedgerTx) error {
		h, err := s.store.load(tx, owner, mint)
		if err != nil {
			return err
		}
		handle = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return handle, nil
}
