package helpers

import (
	"errors"
	"math"
	"testing"

	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedAdd(t *testing.T) {
	sum, err := CheckedAdd(200, 300)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), sum)

	_, err = CheckedAdd(math.MaxUint64, 1)
	assert.True(t, errors.Is(err, business.ErrArithmeticOverflow))
}

func TestCheckedSub(t *testing.T) {
	diff, err := CheckedSub(500, 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), diff)

	_, err = CheckedSub(200, 201)
	assert.True(t, errors.Is(err, business.ErrArithmeticOverflow))
}

func TestInt64Conversions(t *testing.T) {
	v, err := ToInt64(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = ToInt64(math.MaxUint64)
	assert.Error(t, err)

	u, err := FromInt64(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u)

	_, err = FromInt64(-1)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals int32
		want     string
	}{
		{amount: 1_500_000_000, decimals: 9, want: "1.5"},
		{amount: 100_000_000_000, decimals: 9, want: "100"},
		{amount: 1, decimals: 9, want: "0.000000001"},
		{amount: 0, decimals: 6, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.decimals))
		})
	}

	assert.Equal(t, "0.3", FormatLamports(300_000_000))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    uint64
		wantErr bool
	}{
		{name: "whole", value: "100", want: 100_000_000_000},
		{name: "fraction", value: "1.25", want: 1_250_000_000},
		{name: "smallest unit", value: "0.000000001", want: 1},
		{name: "too precise", value: "0.0000000001", wantErr: true},
		{name: "negative", value: "-1", wantErr: true},
		{name: "garbage", value: "abc", wantErr: true},
		{name: "overflow", value: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.value, 9)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
