package services

import (
	"context"
	"fmt"

	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// NativeCustodyService tracks native coin committed by users into their profile
type NativeCustodyService struct {
	vaultService
}

var _ interfaces.NativeCustodyService = (*NativeCustodyService)(nil)

// NewNativeCustodyService creates a new native custody service
func NewNativeCustodyService(runtime interfaces.LedgerRuntime, cfg business.VaultConfig, publisher interfaces.EventPublisher) *NativeCustodyService {
	return &NativeCustodyService{
		vaultService: newVaultService(runtime, cfg, publisher, logger.Log),
	}
}

// CommitNative moves amount from the user into their native profile,
// creating the profile on first use.
func (s *NativeCustodyService) CommitNative(ctx context.Context, signers business.Signers, p params.CommitNativeParams) (*business.RecordHandle, error) {
	var (
		handle *business.RecordHandle
		event  business.VaultEvent
	)
	err := s.runtime.Execute(ctx, signers, func(tx interfaces.LedgerTx) error {
		if !tx.IsSigner(p.User) {
			return fmt.Errorf("%w: user %s", business.ErrMissingSignature, p.User)
		}
		h, err := s.store.getOrCreate(tx, p.User, business.NativeAssetMint, p.User)
		if err != nil {
			return err
		}
		if h.Created {
			h.Record.IsEnabled = true
		} else if !h.Record.Owner.Equals(p.User) {
			return business.ErrNotOwner
		}

		balance, err := helpers.CheckedAdd(h.Record.VaultSolBalance, p.Amount)
		if err != nil {
			return err
		}
		if err := tx.TransferNative(p.User, h.Key, p.Amount); err != nil {
			return err
		}
		h.Record.VaultSolBalance = balance
		if err := s.store.save(tx, h); err != nil {
			return err
		}

		handle = h
		event = business.NewVaultEvent(business.EventNativeCommitted, h.Key, p.User, business.NativeAssetMint, p.User, tx.Now())
		event.Amount = p.Amount
		event.Balance = balance
		return nil
	})
	if err != nil {
		s.logger.Warn("native commit failed",
			zap.String("user", p.User.String()),
			zap.Uint64("amount", p.Amount),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("native coin committed",
		zap.String("record", handle.Key.String()),
		zap.String("user", p.User.String()),
		zap.Bool("created", handle.Created),
		zap.String("amount", helpers.FormatLamports(p.Amount)),
		zap.Uint64("balance", handle.Record.VaultSolBalance))
	s.publish(ctx, event)
	return handle, nil
}

// ReclaimNative returns amount of tracked balance to the profile owner.
func (s *NativeCustodyService) ReclaimNative(ctx context.Context, signers business.Signers, p params.ReclaimNativeParams) (*business.RecordHandle, error) {
	owner := params.ResolveOwner(p.Caller, p.Owner)

	var (
		handle *business.RecordHandle
		event  business.VaultEvent
	)
	err := s.runtime.Execute(ctx, signers, func(tx interfaces.LedgerTx) error {
		h, err := s.ownedProfile(tx, p.Caller, owner)
		if err != nil {
			return err
		}
		if err := s.withdraw(tx, h, p.Caller, p.Amount); err != nil {
			return err
		}

		handle = h
		event = business.NewVaultEvent(business.EventNativeReclaimed, h.Key, owner, business.NativeAssetMint, p.Caller, tx.Now())
		event.Counterparty = p.Caller
		event.Amount = p.Amount
		event.Balance = h.Record.VaultSolBalance
		return nil
	})
	if err != nil {
		s.logger.Warn("native reclaim failed",
			zap.String("caller", p.Caller.String()),
			zap.Uint64("amount", p.Amount),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("native coin reclaimed",
		zap.String("record", handle.Key.String()),
		zap.String("owner", owner.String()),
		zap.String("amount", helpers.FormatLamports(p.Amount)),
		zap.Uint64("balance", handle.Record.VaultSolBalance))
	s.publish(ctx, event)
	return handle, nil
}

// CloseNativeProfile destroys the owner's native profile and refunds every
// lamport it holds, tracked balance and rent reserve alike. It returns the
// refunded amount.
func (s *NativeCustodyService) CloseNativeProfile(ctx context.Context, signers business.Signers, p params.CloseNativeProfileParams) (uint64, error) {
	owner := params.ResolveOwner(p.Caller, p.Owner)

	var event business.VaultEvent
	err := s.runtime.Execute(ctx, signers, func(tx interfaces.LedgerTx) error {
		h, err := s.ownedProfile(tx, p.Caller, owner)
		if err != nil {
			return err
		}
		acct, err := tx.Account(h.Key)
		if err != nil {
			return err
		}
		if err := tx.Close(h.Key, p.Caller); err != nil {
			return err
		}

		event = business.NewVaultEvent(business.EventNativeClosed, h.Key, owner, business.NativeAssetMint, p.Caller, tx.Now())
		event.Counterparty = p.Caller
		event.Amount = acct.Lamports
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("native profile closed",
		zap.String("record", event.Record.String()),
		zap.String("owner", owner.String()),
		zap.String("refunded", helpers.FormatLamports(event.Amount)))
	s.publish(ctx, event)
	return event.Amount, nil
}

// GetNativeProfile returns the native profile of owner
func (s *NativeCustodyService) GetNativeProfile(ctx context.Context, owner solana.PublicKey) (*business.RecordHandle, error) {
	var handle *business.RecordHandle
	err := s.read(ctx, func(tx interfaces.LedgerTx) error {
		h, err := s.store.load(tx, owner, business.NativeAssetMint)
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

// ownedProfile loads the native profile of owner and checks that caller
// signed and owns it.
func (s *NativeCustodyService) ownedProfile(tx interfaces.LedgerTx, caller, owner solana.PublicKey) (*business.RecordHandle, error) {
	h, err := s.store.load(tx, owner, business.NativeAssetMint)
	if err != nil {
		return nil, err
	}
	if !tx.IsSigner(caller) {
		return nil, fmt.Errorf("%w: caller %s", business.ErrMissingSignature, caller)
	}
	if !h.Record.Owner.Equals(caller) {
		return nil, business.ErrNotOwner
	}
	return h, nil
}
