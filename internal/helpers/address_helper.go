package helpers

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ParsePublicKey decodes a base58 identity, naming the offending field on failure.
func ParsePublicKey(field, value string) (solana.PublicKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", field)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return key, nil
}

// IsAddressValid reports whether value is a well-formed base58 identity.
func IsAddressValid(value string) bool {
	_, err := ParsePublicKey("address", value)
	return err == nil
}
