package business

import "github.com/gagliardetto/solana-go"

// Account is a native-balance account held by the ledger runtime.
type Account struct {
	Key      solana.PublicKey
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	if a.Data != nil {
		c.Data = append([]byte(nil), a.Data...)
	}
	return &c
}

// TokenAccount is a fungible-token holding managed by the token custody mechanism.
type TokenAccount struct {
	Key             solana.PublicKey
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        solana.PublicKey
	DelegatedAmount uint64
}

// HasDelegate reports whether a spending delegate is approved.
func (t *TokenAccount) HasDelegate() bool {
	return !t.Delegate.IsZero()
}

// Clone returns a copy of the token account.
func (t *TokenAccount) Clone() *TokenAccount {
	c := *t
	return &c
}
