package business

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

// NativeAssetMint marks a record as a native coin profile rather than a token delegation.
var NativeAssetMint = solana.SystemProgramID

const (
	// DiscriminatorSize prefixes every record account.
	DiscriminatorSize = 8

	// RecordCoreSize is owner + vault_token_account + asset_mint + delegated_amount +
	// vault_sol_balance + is_enabled.
	RecordCoreSize = 32 + 32 + 32 + 8 + 8 + 1

	// RecordExtensionSize holds remaining_allowance and expires_at.
	RecordExtensionSize = 8 + 8

	// RecordBodySize is the encoded record without its discriminator.
	RecordBodySize = RecordCoreSize + RecordExtensionSize

	// RecordAccountSize is the storage space allocated per record.
	RecordAccountSize = DiscriminatorSize + RecordBodySize
)

// RecordDiscriminator is sha256("account:DelegationRecord")[:8].
var RecordDiscriminator = func() [DiscriminatorSize]byte {
	var d [DiscriminatorSize]byte
	sum := sha256.Sum256([]byte("account:DelegationRecord"))
	copy(d[:], sum[:DiscriminatorSize])
	return d
}()

// DelegationRecord is the per-(owner, asset) vault state.
type DelegationRecord struct {
	Owner              solana.PublicKey `json:"owner"`
	VaultTokenAccount  solana.PublicKey `json:"vault_token_account"`
	AssetMint          solana.PublicKey `json:"asset_mint"`
	DelegatedAmount    uint64           `json:"delegated_amount"`
	VaultSolBalance    uint64           `json:"vault_sol_balance"`
	IsEnabled          bool             `json:"is_enabled"`
	RemainingAllowance uint64           `json:"remaining_allowance"`
	ExpiresAt          int64            `json:"expires_at"`
}

// IsNative reports whether the record is a native coin profile.
func (r *DelegationRecord) IsNative() bool {
	return r.AssetMint.Equals(NativeAssetMint)
}

// IsInitialized reports whether the owner has been set.
func (r *DelegationRecord) IsInitialized() bool {
	return !r.Owner.IsZero()
}

// IsExpired reports whether the delegation carries an expiry that now has passed.
func (r *DelegationRecord) IsExpired(now time.Time) bool {
	return r.ExpiresAt != 0 && now.Unix() >= r.ExpiresAt
}

// RecordHandle binds a decoded record to its storage location.
type RecordHandle struct {
	Key     solana.PublicKey
	Bump    uint8
	Record  DelegationRecord
	Created bool
}

// VaultConfig carries the process-wide constants of the vault. It is built
// once at startup and passed by value.
type VaultConfig struct {
	ProgramID     solana.PublicKey
	SeedPrefix    string
	AuthoritySeed string
	MaxTransfer   uint64
	// Admin may suspend any delegation. The zero key disables suspension.
	Admin solana.PublicKey
}

// Signers is the set of identities whose signatures the host verified for a call.
type Signers []solana.PublicKey

// Contains reports whether id signed the call.
func (s Signers) Contains(id solana.PublicKey) bool {
	for _, k := range s {
		if k.Equals(id) {
			return true
		}
	}
	return false
}

// Validate checks the configuration once at startup.
func (c VaultConfig) Validate() error {
	switch {
	case c.ProgramID.IsZero():
		return fmt.Errorf("vault program id is required")
	case c.SeedPrefix == "" || len(c.SeedPrefix) > solana.MaxSeedLength:
		return fmt.Errorf("seed prefix must be 1-%d bytes", solana.MaxSeedLength)
	case c.AuthoritySeed == "" || len(c.AuthoritySeed) > solana.MaxSeedLength:
		return fmt.Errorf("authority seed must be 1-%d bytes", solana.MaxSeedLength)
	case c.MaxTransfer == 0:
		return fmt.Errorf("max transfer must be greater than zero")
	}
	return nil
}

// TransferResult describes a committed token movement.
type TransferResult struct {
	Handle      RecordHandle     `json:"-"`
	Source      solana.PublicKey `json:"source"`
	Destination solana.PublicKey `json:"destination"`
	Amount      uint64           `json:"amount"`
}
