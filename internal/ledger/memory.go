package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// MemoryLedger is an in-process LedgerRuntime. Every Execute call runs
// against a private copy of the state under a single lock and the copy
// replaces the live state only when fn succeeds.
type MemoryLedger struct {
	mu        sync.Mutex
	programID solana.PublicKey
	state     *memoryStore
	clock     func() time.Time
	logger    *zap.Logger
}

var _ interfaces.LedgerRuntime = (*MemoryLedger)(nil)

// MemoryOption configures a MemoryLedger.
type MemoryOption func(*MemoryLedger)

// WithClock overrides the transaction clock.
func WithClock(clock func() time.Time) MemoryOption {
	return func(l *MemoryLedger) {
		l.clock = clock
	}
}

// WithLogger sets the logger used for commit diagnostics.
func WithLogger(log *zap.Logger) MemoryOption {
	return func(l *MemoryLedger) {
		l.logger = log
	}
}

// NewMemoryLedger creates an empty ledger for programID.
func NewMemoryLedger(programID solana.PublicKey, opts ...MemoryOption) *MemoryLedger {
	l := &MemoryLedger{
		programID: programID,
		state:     newMemoryStore(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logger.OrNop(l.logger)
	return l
}

func (l *MemoryLedger) ProgramID() solana.PublicKey {
	return l.programID
}

// Execute runs fn atomically. A failing fn leaves the ledger untouched.
func (l *MemoryLedger) Execute(ctx context.Context, signers business.Signers, fn func(tx interfaces.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	working := l.state.clone()
	if err := fn(NewTransaction(working, l.programID, signers, l.clock())); err != nil {
		l.logger.Debug("ledger transaction rolled back", zap.Error(err))
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	l.state = working
	return nil
}

// Airdrop credits lamports to a system account, creating it if needed.
func (l *MemoryLedger) Airdrop(key solana.PublicKey, lamports uint64) error {
	return l.Execute(context.Background(), nil, func(tx interfaces.LedgerTx) error {
		return tx.Credit(key, lamports)
	})
}

// CreateTokenAccount registers a token holding for owner.
func (l *MemoryLedger) CreateTokenAccount(key, mint, owner solana.PublicKey, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.state.tokens[key]; ok {
		return fmt.Errorf("token account %s: %w", key, business.ErrAlreadyInitialized)
	}
	l.state.tokens[key] = &business.TokenAccount{Key: key, Mint: mint, Owner: owner, Amount: amount}
	return nil
}

// MintTo increases the balance of an existing token account.
func (l *MemoryLedger) MintTo(key solana.PublicKey, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.state.tokens[key]
	if !ok {
		return fmt.Errorf("token account %s: %w", key, business.ErrAccountNotFound)
	}
	total, err := helpers.CheckedAdd(acct.Amount, amount)
	if err != nil {
		return err
	}
	acct.Amount = total
	return nil
}

// Account returns a copy of the committed account.
func (l *MemoryLedger) Account(key solana.PublicKey) (*business.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.GetAccount(key)
}

// TokenAccount returns a copy of the committed token account.
func (l *MemoryLedger) TokenAccount(key solana.PublicKey) (*business.TokenAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.GetTokenAccount(key)
}

// Balance returns the committed lamports of key, zero when it does not exist.
func (l *MemoryLedger) Balance(key solana.PublicKey) uint64 {
	acct, err := l.Account(key)
	if err != nil {
		return 0
	}
	return acct.Lamports
}

type memoryStore struct {
	accounts map[solana.PublicKey]*business.Account
	tokens   map[solana.PublicKey]*business.TokenAccount
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: make(map[solana.PublicKey]*business.Account),
		tokens:   make(map[solana.PublicKey]*business.TokenAccount),
	}
}

func (s *memoryStore) clone() *memoryStore {
	c := &memoryStore{
		accounts: make(map[solana.PublicKey]*business.Account, len(s.accounts)),
		tokens:   make(map[solana.PublicKey]*business.TokenAccount, len(s.tokens)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v.Clone()
	}
	for k, v := range s.tokens {
		c.tokens[k] = v.Clone()
	}
	return c
}

func (s *memoryStore) GetAccount(key solana.PublicKey) (*business.Account, error) {
	acct, ok := s.accounts[key]
	if !ok {
		return nil, business.ErrAccountNotFound
	}
	return acct.Clone(), nil
}

func (s *memoryStore) PutAccount(account *business.Account) error {
	s.accounts[account.Key] = account.Clone()
	return nil
}

func (s *memoryStore) DeleteAccount(key solana.PublicKey) error {
	delete(s.accounts, key)
	return nil
}

func (s *memoryStore) GetTokenAccount(key solana.PublicKey) (*business.TokenAccount, error) {
	acct, ok := s.tokens[key]
	if !ok {
		return nil, business.ErrAccountNotFound
	}
	return acct.Clone(), nil
}

func (s *memoryStore) PutTokenAccount(account *business.TokenAccount) error {
	s.tokens[account.Key] = account.Clone()
	return nil
}
