package ledger

import (
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
)

// AccountStore is the raw persistence behind a ledger transaction. Backends
// implement it; the account and token rules live in Transaction.
//
// Get methods return business.ErrAccountNotFound for unknown keys and must
// hand out copies the caller may mutate.
type AccountStore interface {
	GetAccount(key solana.PublicKey) (*business.Account, error)
	PutAccount(account *business.Account) error
	DeleteAccount(key solana.PublicKey) error

	GetTokenAccount(key solana.PublicKey) (*business.TokenAccount, error)
	PutTokenAccount(account *business.TokenAccount) error
}

const (
	// accountStorageOverhead is charged on top of the data length.
	accountStorageOverhead = 128
	lamportsPerByteYear    = 3480
	exemptionYears         = 2
)

// RentExemptMinimum returns the lamports an account with space data bytes
// must hold to stay rent exempt.
func RentExemptMinimum(space int) uint64 {
	if space < 0 {
		space = 0
	}
	return uint64(accountStorageOverhead+space) * lamportsPerByteYear * exemptionYears
}
