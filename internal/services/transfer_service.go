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

// TransferService executes operator-initiated movements out of user records
type TransferService struct {
	vaultService
}

var _ interfaces.TransferService = (*TransferService)(nil)

// NewTransferService creates a new transfer service
func NewTransferService(runtime interfaces.LedgerRuntime, cfg business.VaultConfig, publisher interfaces.EventPublisher) *TransferService {
	return &TransferService{
		vaultService: newVaultService(runtime, cfg, publisher, logger.Log),
	}
}

// ExecuteTransfer moves amount tokens from the owner's linked token account
// to destination, signed by the program authority.
func (s *TransferService) ExecuteTransfer(ctx context.Context, signers business.Signers, p params.ExecuteTransferParams) (*business.TransferResult, error) {
	if p.Amount == 0 {
		return nil, business.ErrInvalidAmount
	}
	return s.transfer(ctx, signers, p.Operator, p.Owner, p.Mint, p.Destination, func(tx interfaces.LedgerTx, h *business.RecordHandle) (uint64, error) {
		return p.Amount, nil
	})
}

// ExecuteMaxTransfer moves the largest amount the delegation still allows:
// the remaining allowance, capped by the source balance.
func (s *TransferService) ExecuteMaxTransfer(ctx context.Context, signers business.Signers, p params.ExecuteMaxTransferParams) (*business.TransferResult, error) {
	return s.transfer(ctx, signers, p.Operator, p.Owner, p.Mint, p.Destination, func(tx interfaces.LedgerTx, h *business.RecordHandle) (uint64, error) {
		source, err := tx.Tokens().TokenAccount(h.Record.VaultTokenAccount)
		if err != nil {
			return 0, err
		}
		amount := min(h.Record.RemainingAllowance, h.Record.DelegatedAmount, s.cfg.MaxTransfer, source.Amount)
		if amount == 0 {
			return 0, fmt.Errorf("%w: nothing left to transfer", business.ErrInvalidAmount)
		}
		return amount, nil
	})
}

func (s *TransferService) transfer(
	ctx context.Context,
	signers business.Signers,
	operator, owner, mint, destination solana.PublicKey,
	amountFn func(tx interfaces.LedgerTx, h *business.RecordHandle) (uint64, error),
) (*business.TransferResult, error) {
	var (
		result *business.TransferResult
		event  business.VaultEvent
	)
	err := s.runtime.Execute(ctx, signers, func(tx interfaces.LedgerTx) error {
		h, err := s.store.load(tx, owner, mint)
		if err != nil {
			return err
		}
		if h.Record.IsNative() {
			return fmt.Errorf("%w: native profiles have no token account", business.ErrTokenAccountMismatch)
		}
		if destination.Equals(h.Record.VaultTokenAccount) {
			return fmt.Errorf("%w: destination is the delegated token account", business.ErrTokenAccountMismatch)
		}
		if !tx.IsSigner(operator) {
			return fmt.Errorf("%w: operator %s", business.ErrMissingSignature, operator)
		}
		if !h.Record.IsEnabled {
			return business.ErrDelegationRevoked
		}
		if h.Record.IsExpired(tx.Now()) {
			return business.ErrDelegationExpired
		}

		amount, err := amountFn(tx, h)
		if err != nil {
			return err
		}
		if amount > s.cfg.MaxTransfer {
			return fmt.Errorf("%w: %d exceeds %d", business.ErrAmountExceedsHardLimit, amount, s.cfg.MaxTransfer)
		}
		if amount > h.Record.DelegatedAmount || amount > h.Record.RemainingAllowance {
			return fmt.Errorf("%w: %d requested, %d remaining", business.ErrTransferLimitExceeded, amount, h.Record.RemainingAllowance)
		}

		authority, err := tx.SignWithSeeds([]byte(s.cfg.AuthoritySeed))
		if err != nil {
			return err
		}
		if err := tx.Tokens().Transfer(h.Record.VaultTokenAccount, destination, authority, amount); err != nil {
			return err
		}
		if h.Record.RemainingAllowance, err = helpers.CheckedSub(h.Record.RemainingAllowance, amount); err != nil {
			return err
		}
		if err := s.store.save(tx, h); err != nil {
			return err
		}

		result = &business.TransferResult{
			Handle:      *h,
			Source:      h.Record.VaultTokenAccount,
			Destination: destination,
			Amount:      amount,
		}
		event = business.NewVaultEvent(business.EventTokensTransferred, h.Key, owner, mint, operator, tx.Now())
		event.Counterparty = destination
		event.Amount = amount
		event.Balance = h.Record.RemainingAllowance
		return nil
	})
	if err != nil {
		s.logger.Warn("token transfer rejected",
			zap.String("operator", operator.String()),
			zap.String("owner", owner.String()),
			zap.String("mint", mint.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("tokens transferred",
		zap.String("record", result.Handle.Key.String()),
		zap.String("destination", destination.String()),
		zap.Uint64("amount", result.Amount),
		zap.Uint64("remaining_allowance", result.Handle.Record.RemainingAllowance))
	s.publish(ctx, event)
	return result, nil
}

// SyncLiquidity sweeps tracked native balance out of a profile on behalf of
// any signing operator. The profile is located from the stored owner; its
// enabled flag is not consulted.
func (s *TransferService) SyncLiquidity(ctx context.Context, signers business.Signers, p params.SyncLiquidityParams) (*business.RecordHandle, error) {
	if p.Amount == 0 {
		return nil, business.ErrInvalidAmount
	}

	var (
		handle *business.RecordHandle
		event  business.VaultEvent
	)
	err := s.runtime.Execute(ctx, signers, func(tx interfaces.LedgerTx) error {
		if !tx.IsSigner(p.Operator) {
			return fmt.Errorf("%w: operator %s", business.ErrMissingSignature, p.Operator)
		}
		h, err := s.store.load(tx, p.Owner, business.NativeAssetMint)
		if err != nil {
			return err
		}
		if err := s.withdraw(tx, h, p.Destination, p.Amount); err != nil {
			return err
		}

		handle = h
		event = business.NewVaultEvent(business.EventLiquiditySynced, h.Key, p.Owner, business.NativeAssetMint, p.Operator, tx.Now())
		event.Counterparty = p.Destination
		event.Amount = p.Amount
		event.Balance = h.Record.VaultSolBalance
		return nil
	})
	if err != nil {
		s.logger.Warn("liquidity sync failed",
			zap.String("operator", p.Operator.String()),
			zap.String("owner", p.Owner.String()),
			zap.Uint64("amount", p.Amount),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("liquidity synced",
		zap.String("record", handle.Key.String()),
		zap.String("operator", p.Operator.String()),
		zap.String("destination", p.Destination.String()),
		zap.String("amount", helpers.FormatLamports(p.Amount)),
		zap.Uint64("balance", handle.Record.VaultSolBalance))
	s.publish(ctx, event)
	return handle, nil
}
