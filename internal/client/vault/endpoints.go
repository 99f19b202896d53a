package vault

import (
	"context"
	"net/http"

	"github.com/cyphera/custody-vault/internal/types/api/requests"
	"github.com/cyphera/custody-vault/internal/types/api/responses"
	"github.com/gagliardetto/solana-go"
)

// Mutating calls take the key whose signature authorizes them.

func (c *Client) SetupDelegation(ctx context.Context, signer solana.PrivateKey, req requests.SetupDelegationRequest) (*responses.RecordResponse, error) {
	var out responses.RecordResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/delegations", body: req, signer: &signer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokeDelegation(ctx context.Context, signer solana.PrivateKey, req requests.RevokeDelegationRequest) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/delegations/revoke", body: req, signer: &signer}, nil)
}

func (c *Client) SuspendDelegation(ctx context.Context, signer solana.PrivateKey, req requests.SuspendDelegationRequest) (*responses.RecordResponse, error) {
	var out responses.RecordResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/delegations/suspend", body: req, signer: &signer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDelegation(ctx context.Context, owner, mint solana.PublicKey) (*responses.RecordResponse, error) {
	var out responses.RecordResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/delegations/" + owner.String() + "/" + mint.String()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CommitNative(ctx context.Context, signer solana.PrivateKey, req requests.CommitNativeRequest) (*responses.RecordResponse, error) {
	var out responses.RecordResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/native/commit", body: req, signer: &signer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReclaimNative(ctx context.Context, signer solana.PrivateKey, req requests.ReclaimNativeRequest) (*responses.RecordResponse, error) {
	var out responses.RecordResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/native/reclaim", body: req, signer: &signer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CloseNativeProfile(ctx context.Context, signer solana.PrivateKey, req requests.CloseNativeProfileRequest) (*responses.CloseProfileResponse, error) {
	var out responses.CloseProfileResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/native/close", body: req, signer: &signer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetNativeProfile(ctx context.Context, owner solana.PublicKey) (*responses.RecordResponse, error) {
	var out responses.RecordResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/native/" + owner.String()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExecuteTransfer(ctx context.Context, signer solana.PrivateKey, req requests.ExecuteTransferRequest) (*responses.TransferResponse, error) {
	var out responses.TransferResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/transfers", body: req, signer: &signer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExecuteMaxTransfer(ctx context.Context, signer solana.PrivateKey, req requests.ExecuteMaxTransferRequest) (*responses.TransferResponse, error) {
	var out responses.TransferResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/transfers/max", body: req, signer: &signer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SyncLiquidity(ctx context.Context, signer solana.PrivateKey, req requests.SyncLiquidityRequest) (*responses.RecordResponse, error) {
	var out responses.RecordResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/liquidity/sync", body: req, signer: &signer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListEvents returns the newest events, optionally for one owner. A zero
// limit uses the server default.
func (c *Client) ListEvents(ctx context.Context, owner solana.PublicKey, limit int) ([]responses.EventResponse, error) {
	var out responses.ListResponse[responses.EventResponse]
	if err := c.do(ctx, call{method: http.MethodGet, path: "/events", query: limitQuery(owner, limit)}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Airdrop and CreateTokenAccount only exist on non-production stages.

func (c *Client) Airdrop(ctx context.Context, req requests.AirdropRequest) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/dev/airdrop", body: req}, nil)
}

func (c *Client) CreateTokenAccount(ctx context.Context, req requests.CreateTokenAccountRequest) (solana.PublicKey, error) {
	var out struct {
		Address solana.PublicKey `json:"address"`
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/dev/token-accounts", body: req}, &out); err != nil {
		return solana.PublicKey{}, err
	}
	return out.Address, nil
}
