package helpers

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/shopspring/decimal"
)

// CheckedAdd returns a+b or ErrArithmeticOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", business.ErrArithmeticOverflow, a, b)
	}
	return sum, nil
}

// CheckedSub returns a-b or ErrArithmeticOverflow when b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: %d - %d", business.ErrArithmeticOverflow, a, b)
	}
	return diff, nil
}

// ToInt64 narrows a base-unit amount for BIGINT storage.
func ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d does not fit in int64", business.ErrArithmeticOverflow, v)
	}
	return int64(v), nil
}

// FromInt64 widens a stored BIGINT back to a base-unit amount.
func FromInt64(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: negative stored amount %d", business.ErrArithmeticOverflow, v)
	}
	return uint64(v), nil
}

// FormatAmount renders base units as a decimal string with the given precision.
func FormatAmount(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).String()
}

// FormatLamports renders a native amount in whole coins.
func FormatLamports(amount uint64) string {
	return FormatAmount(amount, constants.NativeDecimals)
}

// ParseAmount converts a decimal string such as "1.25" into base units.
func ParseAmount(value string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: must not be negative", value)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", value, decimals)
	}
	n := scaled.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("invalid amount %q: out of range", value)
	}
	return n.Uint64(), nil
}
