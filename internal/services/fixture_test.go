package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/ledger"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/services"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

const (
	ceiling       = constants.DefaultMaxTransfer
	startLamports = 10 * constants.LamportsPerSol
)

var recordRent = ledger.RentExemptMinimum(business.RecordAccountSize)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type vaultFixture struct {
	ledger *ledger.MemoryLedger
	clock  *fakeClock
	cfg    business.VaultConfig
	events *services.EventLog

	delegations *services.DelegationService
	custody     *services.NativeCustodyService
	transfers   *services.TransferService

	user, operator, admin, stranger solana.PublicKey
	mint, userTokens, destTokens    solana.PublicKey
}

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func newVaultFixture(t *testing.T) *vaultFixture {
	return newVaultFixtureWithPublisher(t, nil)
}

func newVaultFixtureWithPublisher(t *testing.T, publisher interfaces.EventPublisher) *vaultFixture {
	t.Helper()

	f := &vaultFixture{
		clock:    &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		events:   services.NewEventLog(0),
		user:     newKey(),
		operator: newKey(),
		admin:    newKey(),
		stranger: newKey(),
		mint:     newKey(),

		userTokens: newKey(),
		destTokens: newKey(),
	}
	f.cfg = business.VaultConfig{
		ProgramID:     solana.MustPublicKeyFromBase58(constants.DefaultProgramID),
		SeedPrefix:    constants.DefaultSeedPrefix,
		AuthoritySeed: constants.DefaultAuthoritySeed,
		MaxTransfer:   ceiling,
		Admin:         f.admin,
	}
	require.NoError(t, f.cfg.Validate())

	f.ledger = ledger.NewMemoryLedger(f.cfg.ProgramID, ledger.WithClock(f.clock.Now))
	for _, k := range []solana.PublicKey{f.user, f.operator, f.admin, f.stranger} {
		require.NoError(t, f.ledger.Airdrop(k, startLamports))
	}
	require.NoError(t, f.ledger.CreateTokenAccount(f.userTokens, f.mint, f.user, 2*ceiling))
	require.NoError(t, f.ledger.CreateTokenAccount(f.destTokens, f.mint, f.operator, 0))

	if publisher == nil {
		publisher = f.events
	}
	f.delegations = services.NewDelegationService(f.ledger, f.cfg, publisher)
	f.custody = services.NewNativeCustodyService(f.ledger, f.cfg, publisher)
	f.transfers = services.NewTransferService(f.ledger, f.cfg, publisher)
	return f
}

func (f *vaultFixture) setup(t *testing.T) *business.RecordHandle {
	t.Helper()
	h, err := f.delegations.SetupDelegation(context.Background(), business.Signers{f.user}, params.SetupDelegationParams{
		User:         f.user,
		TokenAccount: f.userTokens,
		Mint:         f.mint,
	})
	require.NoError(t, err)
	return h
}

func (f *vaultFixture) commit(t *testing.T, amount uint64) *business.RecordHandle {
	t.Helper()
	h, err := f.custody.CommitNative(context.Background(), business.Signers{f.user}, params.CommitNativeParams{
		User:   f.user,
		Amount: amount,
	})
	require.NoError(t, err)
	return h
}

func (f *vaultFixture) transfer(amount uint64) (*business.TransferResult, error) {
	return f.transfers.ExecuteTransfer(context.Background(), business.Signers{f.operator}, params.ExecuteTransferParams{
		Operator:    f.operator,
		Owner:       f.user,
		Mint:        f.mint,
		Destination: f.destTokens,
		Amount:      amount,
	})
}

func (f *vaultFixture) record(t *testing.T, owner, asset solana.PublicKey) (business.DelegationRecord, *business.Account) {
	t.Helper()
	key, _, err := services.DeriveRecordKey(f.cfg, owner, asset)
	require.NoError(t, err)
	acct, err := f.ledger.Account(key)
	require.NoError(t, err)
	rec, err := business.DecodeRecord(acct.Data)
	require.NoError(t, err)
	return rec, acct
}

func (f *vaultFixture) recordExists(t *testing.T, owner, asset solana.PublicKey) bool {
	t.Helper()
	key, _, err := services.DeriveRecordKey(f.cfg, owner, asset)
	require.NoError(t, err)
	_, err = f.ledger.Account(key)
	return err == nil
}

func (f *vaultFixture) tokenAccount(t *testing.T, key solana.PublicKey) *business.TokenAccount {
	t.Helper()
	acct, err := f.ledger.TokenAccount(key)
	require.NoError(t, err)
	return acct
}

// seedRecord writes rec directly into storage, bypassing every vault rule.
// extraLamports is added on top of the rent reserve.
func (f *vaultFixture) seedRecord(t *testing.T, rec business.DelegationRecord, extraLamports uint64) solana.PublicKey {
	t.Helper()
	key, _, err := services.DeriveRecordKey(f.cfg, rec.Owner, rec.AssetMint)
	require.NoError(t, err)

	payer := newKey()
	require.NoError(t, f.ledger.Airdrop(payer, startLamports))
	err = f.ledger.Execute(context.Background(), business.Signers{payer}, func(tx interfaces.LedgerTx) error {
		if err := tx.Allocate(key, payer, business.RecordAccountSize); err != nil {
			return err
		}
		data, err := business.EncodeRecord(rec)
		if err != nil {
			return err
		}
		if err := tx.WriteData(key, data); err != nil {
			return err
		}
		return tx.Credit(key, extraLamports)
	})
	require.NoError(t, err)
	return key
}
