package requests

import (
	"testing"
	"time"

	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDelegationRequest_ToParams(t *testing.T) {
	base := SetupDelegationRequest{
		User:         solana.NewWallet().PublicKey().String(),
		TokenAccount: solana.NewWallet().PublicKey().String(),
		Mint:         solana.NewWallet().PublicKey().String(),
	}

	tests := []struct {
		name    string
		seconds int64
		want    time.Duration
		wantErr string
	}{
		{name: "no expiry", seconds: 0, want: 0},
		{name: "one hour", seconds: 3600, want: time.Hour},
		{name: "maximum lifetime", seconds: maxExpiresInSeconds, want: constants.MaxDelegationLifetime},
		{name: "negative", seconds: -1, wantErr: "must not be negative"},
		{name: "beyond maximum", seconds: maxExpiresInSeconds + 1, wantErr: "must not exceed"},
		{name: "wraps to milliseconds", seconds: 18446744074, wantErr: "must not exceed"},
		{name: "wraps negative", seconds: 9223372037, wantErr: "must not exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.ExpiresInSeconds = tt.seconds

			p, err := req.ToParams()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ExpiresIn)
		})
	}
}
