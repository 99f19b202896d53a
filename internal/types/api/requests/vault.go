package requests

import (
	"fmt"
	"time"

	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/gagliardetto/solana-go"
)

// Amounts travel as decimal strings of base units so uint64 values survive
// JSON clients limited to float64 numbers.

const maxExpiresInSeconds = int64(constants.MaxDelegationLifetime / time.Second)

// SetupDelegationRequest grants the vault authority a token delegation.
type SetupDelegationRequest struct {
	User             string `json:"user" binding:"required"`
	TokenAccount     string `json:"token_account" binding:"required"`
	Mint             string `json:"mint" binding:"required"`
	ExpiresInSeconds int64  `json:"expires_in_seconds,omitempty"`
}

func (r SetupDelegationRequest) ToParams() (params.SetupDelegationParams, error) {
	var p params.SetupDelegationParams
	if r.ExpiresInSeconds < 0 {
		return p, fmt.Errorf("expires_in_seconds must not be negative")
	}
	if r.ExpiresInSeconds > maxExpiresInSeconds {
		return p, fmt.Errorf("expires_in_seconds must not exceed %d", maxExpiresInSeconds)
	}
	var err error
	if p.User, err = helpers.ParsePublicKey("user", r.User); err != nil {
		return p, err
	}
	if p.TokenAccount, err = helpers.ParsePublicKey("token_account", r.TokenAccount); err != nil {
		return p, err
	}
	if p.Mint, err = helpers.ParsePublicKey("mint", r.Mint); err != nil {
		return p, err
	}
	p.ExpiresIn = time.Duration(r.ExpiresInSeconds) * time.Second
	return p, nil
}

// RevokeDelegationRequest disables and closes a delegation. Owner defaults to Caller.
type RevokeDelegationRequest struct {
	Caller string `json:"caller" binding:"required"`
	Owner  string `json:"owner,omitempty"`
	Mint   string `json:"mint" binding:"required"`
}

func (r RevokeDelegationRequest) ToParams() (params.RevokeDelegationParams, error) {
	var p params.RevokeDelegationParams
	var err error
	if p.Caller, err = helpers.ParsePublicKey("caller", r.Caller); err != nil {
		return p, err
	}
	if p.Owner, err = optionalKey("owner", r.Owner); err != nil {
		return p, err
	}
	if p.Mint, err = helpers.ParsePublicKey("mint", r.Mint); err != nil {
		return p, err
	}
	return p, nil
}

// SuspendDelegationRequest is an admin kill switch for one delegation.
type SuspendDelegationRequest struct {
	Admin string `json:"admin" binding:"required"`
	Owner string `json:"owner" binding:"required"`
	Mint  string `json:"mint" binding:"required"`
}

func (r SuspendDelegationRequest) ToParams() (params.SuspendDelegationParams, error) {
	var p params.SuspendDelegationParams
	var err error
	if p.Admin, err = helpers.ParsePublicKey("admin", r.Admin); err != nil {
		return p, err
	}
	if p.Owner, err = helpers.ParsePublicKey("owner", r.Owner); err != nil {
		return p, err
	}
	if p.Mint, err = helpers.ParsePublicKey("mint", r.Mint); err != nil {
		return p, err
	}
	return p, nil
}

// CommitNativeRequest deposits native coin into the caller's profile.
type CommitNativeRequest struct {
	User   string `json:"user" binding:"required"`
	Amount uint64 `json:"amount,string"`
}

func (r CommitNativeRequest) ToParams() (params.CommitNativeParams, error) {
	user, err := helpers.ParsePublicKey("user", r.User)
	if err != nil {
		return params.CommitNativeParams{}, err
	}
	return params.CommitNativeParams{User: user, Amount: r.Amount}, nil
}

// ReclaimNativeRequest withdraws tracked native balance back to the owner.
type ReclaimNativeRequest struct {
	Caller string `json:"caller" binding:"required"`
	Owner  string `json:"owner,omitempty"`
	Amount uint64 `json:"amount,string"`
}

func (r ReclaimNativeRequest) ToParams() (params.ReclaimNativeParams, error) {
	p := params.ReclaimNativeParams{Amount: r.Amount}
	var err error
	if p.Caller, err = helpers.ParsePublicKey("caller", r.Caller); err != nil {
		return p, err
	}
	if p.Owner, err = optionalKey("owner", r.Owner); err != nil {
		return p, err
	}
	return p, nil
}

// CloseNativeProfileRequest closes a native profile and refunds its lamports.
type CloseNativeProfileRequest struct {
	Caller string `json:"caller" binding:"required"`
	Owner  string `json:"owner,omitempty"`
}

func (r CloseNativeProfileRequest) ToParams() (params.CloseNativeProfileParams, error) {
	var p params.CloseNativeProfileParams
	var err error
	if p.Caller, err = helpers.ParsePublicKey("caller", r.Caller); err != nil {
		return p, err
	}
	if p.Owner, err = optionalKey("owner", r.Owner); err != nil {
		return p, err
	}
	return p, nil
}

// ExecuteTransferRequest moves delegated tokens on an owner's behalf.
type ExecuteTransferRequest struct {
	Operator    string `json:"operator" binding:"required"`
	Owner       string `json:"owner" binding:"required"`
	Mint        string `json:"mint" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Amount      uint64 `json:"amount,string"`
}

func (r ExecuteTransferRequest) ToParams() (params.ExecuteTransferParams, error) {
	route, err := parseRoute(r.Operator, r.Owner, r.Destination)
	if err != nil {
		return params.ExecuteTransferParams{}, err
	}
	mint, err := helpers.ParsePublicKey("mint", r.Mint)
	if err != nil {
		return params.ExecuteTransferParams{}, err
	}
	return params.ExecuteTransferParams{
		Operator:    route.operator,
		Owner:       route.owner,
		Mint:        mint,
		Destination: route.destination,
		Amount:      r.Amount,
	}, nil
}

// ExecuteMaxTransferRequest drains whatever the delegation still allows.
type ExecuteMaxTransferRequest struct {
	Operator    string `json:"operator" binding:"required"`
	Owner       string `json:"owner" binding:"required"`
	Mint        string `json:"mint" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

func (r ExecuteMaxTransferRequest) ToParams() (params.ExecuteMaxTransferParams, error) {
	route, err := parseRoute(r.Operator, r.Owner, r.Destination)
	if err != nil {
		return params.ExecuteMaxTransferParams{}, err
	}
	mint, err := helpers.ParsePublicKey("mint", r.Mint)
	if err != nil {
		return params.ExecuteMaxTransferParams{}, err
	}
	return params.ExecuteMaxTransferParams{
		Operator:    route.operator,
		Owner:       route.owner,
		Mint:        mint,
		Destination: route.destination,
	}, nil
}

// SyncLiquidityRequest sweeps tracked native balance to a destination.
type SyncLiquidityRequest struct {
	Operator    string `json:"operator" binding:"required"`
	Owner       string `json:"owner" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Amount      uint64 `json:"amount,string"`
}

func (r SyncLiquidityRequest) ToParams() (params.SyncLiquidityParams, error) {
	route, err := parseRoute(r.Operator, r.Owner, r.Destination)
	if err != nil {
		return params.SyncLiquidityParams{}, err
	}
	return params.SyncLiquidityParams{
		Operator:    route.operator,
		Owner:       route.owner,
		Destination: route.destination,
		Amount:      r.Amount,
	}, nil
}

type route struct {
	operator, owner, destination solana.PublicKey
}

func parseRoute(operator, owner, destination string) (route, error) {
	var r route
	var err error
	if r.operator, err = helpers.ParsePublicKey("operator", operator); err != nil {
		return r, err
	}
	if r.owner, err = helpers.ParsePublicKey("owner", owner); err != nil {
		return r, err
	}
	if r.destination, err = helpers.ParsePublicKey("destination", destination); err != nil {
		return r, err
	}
	return r, nil
}

func optionalKey(field, value string) (solana.PublicKey, error) {
	if value == "" {
		return solana.PublicKey{}, nil
	}
	return helpers.ParsePublicKey(field, value)
}
