package params

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// SetupDelegationParams contains parameters for granting a token delegation
type SetupDelegationParams struct {
	User         solana.PublicKey
	TokenAccount solana.PublicKey
	Mint         solana.PublicKey
	// ExpiresIn bounds the delegation lifetime; zero never expires.
	ExpiresIn time.Duration
}

// RevokeDelegationParams contains parameters for revoking a delegation.
// Owner defaults to Caller when unset.
type RevokeDelegationParams struct {
	Caller solana.PublicKey
	Owner  solana.PublicKey
	Mint   solana.PublicKey
}

// SuspendDelegationParams contains parameters for an admin suspension
type SuspendDelegationParams struct {
	Admin solana.PublicKey
	Owner solana.PublicKey
	Mint  solana.PublicKey
}

// CommitNativeParams contains parameters for depositing native coin
type CommitNativeParams struct {
	User   solana.PublicKey
	Amount uint64
}

// ReclaimNativeParams contains parameters for an owner withdrawal.
// Owner defaults to Caller when unset.
type ReclaimNativeParams struct {
	Caller solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// CloseNativeProfileParams contains parameters for closing a native profile
type CloseNativeProfileParams struct {
	Caller solana.PublicKey
	Owner  solana.PublicKey
}

// ExecuteTransferParams contains parameters for an operator token transfer
type ExecuteTransferParams struct {
	Operator    solana.PublicKey
	Owner       solana.PublicKey
	Mint        solana.PublicKey
	Destination solana.PublicKey
	Amount      uint64
}

// ExecuteMaxTransferParams contains parameters for draining the remaining allowance
type ExecuteMaxTransferParams struct {
	Operator    solana.PublicKey
	Owner       solana.PublicKey
	Mint        solana.PublicKey
	Destination solana.PublicKey
}

// SyncLiquidityParams contains parameters for an operator sweep of tracked native balance
type SyncLiquidityParams struct {
	Operator    solana.PublicKey
	Owner       solana.PublicKey
	Destination solana.PublicKey
	Amount      uint64
}

// ResolveOwner returns owner, or caller when owner is the zero key.
func ResolveOwner(caller, owner solana.PublicKey) solana.PublicKey {
	if owner.IsZero() {
		return caller
	}
	return owner
}
