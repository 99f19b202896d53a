package requests

import (
	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/gagliardetto/solana-go"
)

// AirdropRequest credits lamports to an address on a non-production ledger.
type AirdropRequest struct {
	Address  string `json:"address" binding:"required"`
	Lamports uint64 `json:"lamports,string"`
}

// CreateTokenAccountRequest registers a token holding. A fresh address is
// generated when Address is empty.
type CreateTokenAccountRequest struct {
	Address string `json:"address,omitempty"`
	Mint    string `json:"mint" binding:"required"`
	Owner   string `json:"owner" binding:"required"`
	Amount  uint64 `json:"amount,string"`
}

// SeedAccount is a parsed CreateTokenAccountRequest.
type SeedAccount struct {
	Address, Mint, Owner solana.PublicKey
	Amount               uint64
}

func (r AirdropRequest) ToParams() (SeedAccount, error) {
	addr, err := helpers.ParsePublicKey("address", r.Address)
	if err != nil {
		return SeedAccount{}, err
	}
	return SeedAccount{Address: addr, Amount: r.Lamports}, nil
}

func (r CreateTokenAccountRequest) ToParams() (SeedAccount, error) {
	var s SeedAccount
	var err error
	if r.Address == "" {
		s.Address = solana.NewWallet().PublicKey()
	} else if s.Address, err = helpers.ParsePublicKey("address", r.Address); err != nil {
		return s, err
	}
	if s.Mint, err = helpers.ParsePublicKey("mint", r.Mint); err != nil {
		return s, err
	}
	if s.Owner, err = helpers.ParsePublicKey("owner", r.Owner); err != nil {
		return s, err
	}
	s.Amount = r.Amount
	return s, nil
}
