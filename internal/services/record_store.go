package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// DeriveRecordKey returns the storage key of the record for (owner, asset).
// It is pure: the same inputs always produce the same key whether or not the
// record exists.
func DeriveRecordKey(cfg business.VaultConfig, owner, asset solana.PublicKey) (solana.PublicKey, uint8, error) {
	key, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(cfg.SeedPrefix), owner[:], asset[:]},
		cfg.ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive record key: %w", err)
	}
	return key, bump, nil
}

// DeriveProgramAuthority returns the identity the vault signs token
// transfers with.
func DeriveProgramAuthority(cfg business.VaultConfig) (solana.PublicKey, error) {
	key, _, err := solana.FindProgramAddress([][]byte{[]byte(cfg.AuthoritySeed)}, cfg.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive program authority: %w", err)
	}
	return key, nil
}

// recordStore locates, loads and persists records inside a ledger transaction.
type recordStore struct {
	cfg business.VaultConfig
}

// locate returns an empty handle carrying only the derived key.
func (s recordStore) locate(owner, asset solana.PublicKey) (*business.RecordHandle, error) {
	key, bump, err := DeriveRecordKey(s.cfg, owner, asset)
	if err != nil {
		return nil, err
	}
	return &business.RecordHandle{Key: key, Bump: bump}, nil
}

// exists reports whether storage is allocated at the handle's key.
func (s recordStore) exists(tx interfaces.LedgerTx, h *business.RecordHandle) (bool, error) {
	_, err := tx.Account(h.Key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, business.ErrAccountNotFound):
		return false, nil
	default:
		return false, err
	}
}

// load reads an initialized record or fails with ErrDelegationNotFound.
func (s recordStore) load(tx interfaces.LedgerTx, owner, asset solana.PublicKey) (*business.RecordHandle, error) {
	h, err := s.locate(owner, asset)
	if err != nil {
		return nil, err
	}
	acct, err := tx.Account(h.Key)
	if errors.Is(err, business.ErrAccountNotFound) {
		return nil, business.ErrDelegationNotFound
	}
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(s.cfg.ProgramID) {
		return nil, fmt.Errorf("%w: record %s", business.ErrInvalidAccountOwner, h.Key)
	}
	rec, err := business.DecodeRecord(acct.Data)
	if err != nil {
		return nil, err
	}
	if !rec.IsInitialized() {
		return nil, business.ErrDelegationNotFound
	}
	h.Record = rec
	return h, nil
}

// getOrCreate returns the existing record for (owner, asset) or allocates
// a fresh one paid for by payer. Created is set on the handle when storage
// was allocated in this transaction.
func (s recordStore) getOrCreate(tx interfaces.LedgerTx, owner, asset, payer solana.PublicKey) (*business.RecordHandle, error) {
	h, err := s.locate(owner, asset)
	if err != nil {
		return nil, err
	}
	ok, err := s.exists(tx, h)
	if err != nil {
		return nil, err
	}
	if ok {
		return s.load(tx, owner, asset)
	}
	if err := tx.Allocate(h.Key, payer, business.RecordAccountSize); err != nil {
		return nil, err
	}
	h.Created = true
	h.Record = business.DelegationRecord{Owner: owner, AssetMint: asset}
	return h, nil
}

func (s recordStore) save(tx interfaces.LedgerTx, h *business.RecordHandle) error {
	data, err := business.EncodeRecord(h.Record)
	if err != nil {
		return err
	}
	return tx.WriteData(h.Key, data)
}

// disposable is the backing above the rent reserve that withdrawals may use.
func (s recordStore) disposable(tx interfaces.LedgerTx, h *business.RecordHandle) (uint64, error) {
	acct, err := tx.Account(h.Key)
	if err != nil {
		return 0, err
	}
	reserve := tx.RentExemptMinimum(len(acct.Data))
	if acct.Lamports < reserve {
		return 0, nil
	}
	return acct.Lamports - reserve, nil
}

// vaultService holds what every vault operation needs.
type vaultService struct {
	runtime   interfaces.LedgerRuntime
	cfg       business.VaultConfig
	store     recordStore
	publisher interfaces.EventPublisher
	logger    *zap.Logger
}

func newVaultService(runtime interfaces.LedgerRuntime, cfg business.VaultConfig, publisher interfaces.EventPublisher, log *zap.Logger) vaultService {
	return vaultService{
		runtime:   runtime,
		cfg:       cfg,
		store:     recordStore{cfg: cfg},
		publisher: publisher,
		logger:    logger.OrNop(log),
	}
}

// publish delivers events after commit. Delivery failures are logged and
// never undo the committed state.
func (s vaultService) publish(ctx context.Context, events ...business.VaultEvent) {
	if s.publisher == nil {
		return
	}
	for _, event := range events {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish vault event",
				zap.String("event_id", event.ID.String()),
				zap.String("type", string(event.Type)),
				zap.Error(err))
		}
	}
}

// read runs fn in a transaction without signers.
func (s vaultService) read(ctx context.Context, fn func(tx interfaces.LedgerTx) error) error {
	return s.runtime.Execute(ctx, nil, fn)
}

// withdraw moves amount of tracked native balance out of the record. It is
// shared by owner reclaim and operator sweep; callers check authorization.
func (s vaultService) withdraw(tx interfaces.LedgerTx, h *business.RecordHandle, destination solana.PublicKey, amount uint64) error {
	if amount > h.Record.VaultSolBalance {
		return fmt.Errorf("%w: %d tracked, %d requested", business.ErrInsufficientFunds, h.Record.VaultSolBalance, amount)
	}
	backing, err := s.store.disposable(tx, h)
	if err != nil {
		return err
	}
	if h.Record.VaultSolBalance > backing {
		s.logger.Error("tracked native balance exceeds backing",
			zap.String("record", h.Key.String()),
			zap.Uint64("tracked", h.Record.VaultSolBalance),
			zap.Uint64("backing", backing))
		return fmt.Errorf("%w: backing %d below tracked %d", business.ErrInsufficientFunds, backing, h.Record.VaultSolBalance)
	}

	if err := tx.Debit(h.Key, amount); err != nil {
		return err
	}
	if err := tx.Credit(destination, amount); err != nil {
		return err
	}
	if h.Record.VaultSolBalance, err = helpers.CheckedSub(h.Record.VaultSolBalance, amount); err != nil {
		return err
	}
	return s.store.save(tx, h)
}
