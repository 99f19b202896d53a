package interfaces

import (
	"context"
	"time"

	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
)

// LedgerRuntime is the host execution environment. Execute runs fn as one
// atomic transaction: either every mutation made through tx commits, or none do.
// Calls touching the same accounts are serialized by the runtime.
type LedgerRuntime interface {
	Execute(ctx context.Context, signers business.Signers, fn func(tx LedgerTx) error) error
	ProgramID() solana.PublicKey
}

// LedgerTx is the view of the ledger inside one transaction.
type LedgerTx interface {
	// IsSigner reports whether id signed the transaction or was signed for
	// through SignWithSeeds.
	IsSigner(id solana.PublicKey) bool

	// SignWithSeeds derives the program address for seeds and treats it as a
	// signer for the rest of the transaction.
	SignWithSeeds(seeds ...[]byte) (solana.PublicKey, error)

	// Account returns a copy of the account or ErrAccountNotFound.
	Account(key solana.PublicKey) (*business.Account, error)

	// Allocate creates a program-owned account of space bytes funded with the
	// rent-exempt minimum from payer. Fails with ErrAlreadyInitialized.
	Allocate(key, payer solana.PublicKey, space int) error

	// WriteData replaces the data of a program-owned account. The length may not change.
	WriteData(key solana.PublicKey, data []byte) error

	// Close moves every lamport of a program-owned account to recipient and deletes it.
	Close(key, recipient solana.PublicKey) error

	// TransferNative is the system transfer primitive; from must sign.
	TransferNative(from, to solana.PublicKey, amount uint64) error

	// Debit removes lamports from a program-owned account without a signature.
	Debit(key solana.PublicKey, amount uint64) error

	// Credit adds lamports to any account, creating it if needed.
	Credit(key solana.PublicKey, amount uint64) error

	// RentExemptMinimum is the reserve a data account of space bytes must keep.
	RentExemptMinimum(space int) uint64

	// Now is the ledger clock for the transaction.
	Now() time.Time

	// Tokens is the token custody mechanism bound to this transaction.
	Tokens() TokenCustody
}

// TokenCustody is the fungible-token program: the vault only approves, transfers and revokes.
type TokenCustody interface {
	// TokenAccount returns a copy of the token account or ErrAccountNotFound.
	TokenAccount(key solana.PublicKey) (*business.TokenAccount, error)

	// Approve lets delegate move up to amount from source; owner must sign.
	Approve(source, delegate, owner solana.PublicKey, amount uint64) error

	// Transfer moves amount from source to destination on authority's behalf.
	// authority must sign and be either the owner or the approved delegate.
	Transfer(source, destination, authority solana.PublicKey, amount uint64) error

	// Revoke clears any delegate on source; owner must sign.
	Revoke(source, owner solana.PublicKey) error
}

// LedgerSeeder funds accounts outside the vault's rules. It backs the
// non-production seeding endpoints.
type LedgerSeeder interface {
	Airdrop(ctx context.Context, key solana.PublicKey, lamports uint64) error
	CreateTokenAccount(ctx context.Context, key, mint, owner solana.PublicKey, amount uint64) error
}
