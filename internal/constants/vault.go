package constants

import "time"

// Vault defaults. They seed the immutable VaultConfig built at startup and
// are never mutated at runtime.
const (
	DefaultSeedPrefix    = "secure-monitor-v1"
	DefaultAuthoritySeed = "vault-auth"

	// LamportsPerSol is the number of base units in one native coin.
	LamportsPerSol uint64 = 1_000_000_000

	// DefaultMaxTransfer is the global transfer ceiling: 100 whole tokens at 9 decimals.
	DefaultMaxTransfer uint64 = 100 * 1_000_000_000

	// DefaultProgramID identifies the vault program when VAULT_PROGRAM_ID is unset.
	DefaultProgramID = "8mKiRaRw4TaMhdMeCjqMtXFxgc4Kv863nLECCcZrYb9F"

	// MaxDelegationLifetime bounds expiry offsets accepted at setup.
	MaxDelegationLifetime = 100 * 365 * 24 * time.Hour

	// NativeDecimals is the precision used when rendering native amounts.
	NativeDecimals int32 = 9
)
