package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cyphera/custody-vault/internal/auth"
	"github.com/cyphera/custody-vault/internal/mocks"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/api/responses"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerFixture struct {
	router      *gin.Engine
	delegations *mocks.MockDelegationService
	custody     *mocks.MockNativeCustodyService
	transfers   *mocks.MockTransferService
	events      *mocks.MockEventReader
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		delegations: mocks.NewMockDelegationServiceForTest(t),
		custody:     mocks.NewMockNativeCustodyServiceForTest(t),
		transfers:   mocks.NewMockTransferServiceForTest(t),
		events:      mocks.NewMockEventReaderForTest(t),
	}

	dh := NewDelegationHandler(f.delegations)
	nh := NewNativeHandler(f.custody)
	th := NewTransferHandler(f.transfers)
	eh := NewEventHandler(f.events)

	r := gin.New()
	r.Use(auth.SignatureMiddleware(auth.DefaultMaxBodyBytes))
	r.POST("/delegations", dh.SetupDelegation)
	r.GET("/delegations/:owner/:mint", dh.GetDelegation)
	r.POST("/delegations/revoke", dh.RevokeDelegation)
	r.POST("/delegations/suspend", dh.SuspendDelegation)
	r.POST("/native/commit", nh.CommitNative)
	r.POST("/native/reclaim", nh.ReclaimNative)
	r.POST("/native/close", nh.CloseNativeProfile)
	r.GET("/native/:owner", nh.GetNativeProfile)
	r.POST("/transfers", th.ExecuteTransfer)
	r.POST("/transfers/max", th.ExecuteMaxTransfer)
	r.POST("/liquidity/sync", th.SyncLiquidity)
	r.GET("/events", eh.ListEvents)
	f.router = r
	return f
}

func (f *handlerFixture) do(method, path, body string, signer *solana.Wallet) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signer != nil {
		pub, sig, err := auth.SignBody(signer.PrivateKey, []byte(body))
		if err != nil {
			panic(err)
		}
		req.Header.Set(auth.SignerHeader, pub)
		req.Header.Set(auth.SignatureHeader, sig)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func sampleHandle(owner, mint solana.PublicKey) *business.RecordHandle {
	return &business.RecordHandle{
		Key:  solana.NewWallet().PublicKey(),
		Bump: 254,
		Record: business.DelegationRecord{
			Owner:              owner,
			VaultTokenAccount:  solana.NewWallet().PublicKey(),
			AssetMint:          mint,
			DelegatedAmount:    1_000,
			RemainingAllowance: 750,
			IsEnabled:          true,
		},
		Created: true,
	}
}

func TestSetupDelegationHandler(t *testing.T) {
	user := solana.NewWallet()
	tokenAccount := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	body := fmt.Sprintf(`{"user":%q,"token_account":%q,"mint":%q,"expires_in_seconds":3600}`, user.PublicKey(), tokenAccount, mint)

	t.Run("created with verified signer", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.delegations.EXPECT().
			SetupDelegation(gomock.Any(), business.Signers{user.PublicKey()}, params.SetupDelegationParams{
				User:         user.PublicKey(),
				TokenAccount: tokenAccount,
				Mint:         mint,
				ExpiresIn:    time.Hour,
			}).
			Return(sampleHandle(user.PublicKey(), mint), nil)

		w := f.do(http.MethodPost, "/delegations", body, user)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp responses.RecordResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "delegation_record", resp.Object)
		assert.Equal(t, "1000", resp.DelegatedAmount)
		assert.Equal(t, "750", resp.RemainingAllowance)
		assert.Equal(t, user.PublicKey().String(), resp.Owner)
		assert.True(t, resp.Created)
		assert.Nil(t, resp.ExpiresAt)
	})

	t.Run("already initialized maps to conflict", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.delegations.EXPECT().
			SetupDelegation(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("setup: %w", business.ErrAlreadyInitialized))

		w := f.do(http.MethodPost, "/delegations", body, user)
		assert.Equal(t, http.StatusConflict, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, business.ErrAlreadyInitialized.Code, resp.Code)
		assert.Equal(t, "AlreadyInitialized", resp.Name)
	})

	t.Run("invalid key never reaches the service", func(t *testing.T) {
		f := newHandlerFixture(t)
		bad := `{"user":"nope","token_account":"nope","mint":"nope"}`
		w := f.do(http.MethodPost, "/delegations", bad, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid user")
	})

	t.Run("negative expiry rejected", func(t *testing.T) {
		f := newHandlerFixture(t)
		neg := fmt.Sprintf(`{"user":%q,"token_account":%q,"mint":%q,"expires_in_seconds":-1}`, user.PublicKey(), tokenAccount, mint)
		w := f.do(http.MethodPost, "/delegations", neg, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("overflowing expiry rejected", func(t *testing.T) {
		for _, seconds := range []string{"18446744074", "9223372037"} {
			f := newHandlerFixture(t)
			huge := fmt.Sprintf(`{"user":%q,"token_account":%q,"mint":%q,"expires_in_seconds":%s}`, user.PublicKey(), tokenAccount, mint, seconds)
			w := f.do(http.MethodPost, "/delegations", huge, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, seconds)
			assert.Contains(t, w.Body.String(), "expires_in_seconds", seconds)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodPost, "/delegations", `{}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetDelegationHandler(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	f := newHandlerFixture(t)
	f.delegations.EXPECT().GetDelegation(gomock.Any(), owner, mint).Return(nil, business.ErrDelegationNotFound)

	w := f.do(http.MethodGet, "/delegations/"+owner.String()+"/"+mint.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/delegations/bad/"+mint.String(), "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRevokeDelegationHandler(t *testing.T) {
	caller := solana.NewWallet()
	mint := solana.NewWallet().PublicKey()
	body := fmt.Sprintf(`{"caller":%q,"mint":%q}`, caller.PublicKey(), mint)

	f := newHandlerFixture(t)
	f.delegations.EXPECT().
		RevokeDelegation(gomock.Any(), business.Signers{caller.PublicKey()}, params.RevokeDelegationParams{Caller: caller.PublicKey(), Mint: mint}).
		Return(nil)
	w := f.do(http.MethodPost, "/delegations/revoke", body, caller)
	assert.Equal(t, http.StatusNoContent, w.Code)

	f.delegations.EXPECT().
		RevokeDelegation(gomock.Any(), business.Signers{}, gomock.Any()).
		Return(business.ErrMissingSignature)
	w = f.do(http.MethodPost, "/delegations/revoke", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSuspendDelegationHandler(t *testing.T) {
	admin := solana.NewWallet()
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	body := fmt.Sprintf(`{"admin":%q,"owner":%q,"mint":%q}`, admin.PublicKey(), owner, mint)

	f := newHandlerFixture(t)
	f.delegations.EXPECT().
		SuspendDelegation(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, business.ErrUnauthorized)

	w := f.do(http.MethodPost, "/delegations/suspend", body, admin)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNativeHandlers(t *testing.T) {
	user := solana.NewWallet()

	t.Run("first commit reports created", func(t *testing.T) {
		f := newHandlerFixture(t)
		handle := sampleHandle(user.PublicKey(), business.NativeAssetMint)
		handle.Record.VaultSolBalance = 1_500_000_000
		f.custody.EXPECT().
			CommitNative(gomock.Any(), gomock.Any(), params.CommitNativeParams{User: user.PublicKey(), Amount: 1_500_000_000}).
			Return(handle, nil)

		w := f.do(http.MethodPost, "/native/commit", fmt.Sprintf(`{"user":%q,"amount":"1500000000"}`, user.PublicKey()), user)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp responses.RecordResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "native_profile", resp.Object)
		assert.True(t, resp.Native)
		assert.Equal(t, "1500000000", resp.VaultSolBalance)
		assert.Equal(t, "1.5", resp.VaultSolBalanceDisplay)
	})

	t.Run("numeric amount is rejected", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodPost, "/native/commit", fmt.Sprintf(`{"user":%q,"amount":5}`, user.PublicKey()), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reclaim insufficient funds", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.custody.EXPECT().
			ReclaimNative(gomock.Any(), gomock.Any(), params.ReclaimNativeParams{Caller: user.PublicKey(), Amount: 400}).
			Return(nil, business.ErrInsufficientFunds)

		w := f.do(http.MethodPost, "/native/reclaim", fmt.Sprintf(`{"caller":%q,"amount":"400"}`, user.PublicKey()), user)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("close reports refund", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.custody.EXPECT().
			CloseNativeProfile(gomock.Any(), gomock.Any(), params.CloseNativeProfileParams{Caller: user.PublicKey()}).
			Return(uint64(2_000_000_000), nil)

		w := f.do(http.MethodPost, "/native/close", fmt.Sprintf(`{"caller":%q}`, user.PublicKey()), user)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"object":"native_profile_closed","refunded":"2000000000","refunded_display":"2"}`, w.Body.String())
	})

	t.Run("get profile", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.custody.EXPECT().GetNativeProfile(gomock.Any(), user.PublicKey()).Return(sampleHandle(user.PublicKey(), business.NativeAssetMint), nil)

		w := f.do(http.MethodGet, "/native/"+user.PublicKey().String(), "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTransferHandlers(t *testing.T) {
	operator := solana.NewWallet()
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()

	t.Run("transfer ok", func(t *testing.T) {
		f := newHandlerFixture(t)
		want := params.ExecuteTransferParams{Operator: operator.PublicKey(), Owner: owner, Mint: mint, Destination: dest, Amount: 250}
		handle := sampleHandle(owner, mint)
		f.transfers.EXPECT().
			ExecuteTransfer(gomock.Any(), business.Signers{operator.PublicKey()}, want).
			Return(&business.TransferResult{Handle: *handle, Source: handle.Record.VaultTokenAccount, Destination: dest, Amount: 250}, nil)

		body := fmt.Sprintf(`{"operator":%q,"owner":%q,"mint":%q,"destination":%q,"amount":"250"}`, operator.PublicKey(), owner, mint, dest)
		w := f.do(http.MethodPost, "/transfers", body, operator)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp responses.TransferResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "250", resp.Amount)
		assert.Equal(t, dest.String(), resp.Destination)
		assert.Equal(t, "750", resp.Record.RemainingAllowance)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{"hard limit", business.ErrAmountExceedsHardLimit, http.StatusUnprocessableEntity},
		{"allowance", business.ErrTransferLimitExceeded, http.StatusUnprocessableEntity},
		{"revoked", business.ErrDelegationRevoked, http.StatusConflict},
		{"expired", business.ErrDelegationExpired, http.StatusConflict},
		{"invalid expiry", business.ErrInvalidExpiry, http.StatusUnprocessableEntity},
		{"overflow", business.ErrArithmeticOverflow, http.StatusInternalServerError},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			f.transfers.EXPECT().ExecuteMaxTransfer(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			body := fmt.Sprintf(`{"operator":%q,"owner":%q,"mint":%q,"destination":%q}`, operator.PublicKey(), owner, mint, dest)
			w := f.do(http.MethodPost, "/transfers/max", body, operator)
			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "disk on fire")
		})
	}

	t.Run("sync liquidity", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.transfers.EXPECT().
			SyncLiquidity(gomock.Any(), gomock.Any(), params.SyncLiquidityParams{Operator: operator.PublicKey(), Owner: owner, Destination: dest, Amount: 10}).
			Return(sampleHandle(owner, business.NativeAssetMint), nil)

		body := fmt.Sprintf(`{"operator":%q,"owner":%q,"destination":%q,"amount":"10"}`, operator.PublicKey(), owner, dest)
		w := f.do(http.MethodPost, "/liquidity/sync", body, operator)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("tampered body rejected before service", func(t *testing.T) {
		f := newHandlerFixture(t)
		body := fmt.Sprintf(`{"operator":%q,"owner":%q,"destination":%q,"amount":"10"}`, operator.PublicKey(), owner, dest)
		pub, sig, err := auth.SignBody(operator.PrivateKey, []byte(body))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/liquidity/sync", strings.NewReader(strings.Replace(body, `"10"`, `"10000"`, 1)))
		req.Header.Set(auth.SignerHeader, pub)
		req.Header.Set(auth.SignatureHeader, sig)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListEventsHandler(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	event := business.NewVaultEvent(business.EventNativeCommitted, solana.NewWallet().PublicKey(), owner, business.NativeAssetMint, owner, time.Unix(1_700_000_000, 0))
	event.Amount = 42

	t.Run("filters by owner with capped limit", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.events.EXPECT().ListEvents(gomock.Any(), owner, maxEventLimit).Return([]business.VaultEvent{event}, nil)

		w := f.do(http.MethodGet, "/events?owner="+owner.String()+"&limit=100000", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp responses.ListResponse[responses.EventResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "native.committed", resp.Data[0].Type)
		assert.Equal(t, "42", resp.Data[0].Amount)
		assert.Equal(t, int64(1_700_000_000), resp.Data[0].OccurredAt)
		assert.Empty(t, resp.Data[0].Counterparty)
	})

	t.Run("default limit and no filter", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.events.EXPECT().ListEvents(gomock.Any(), solana.PublicKey{}, defaultEventLimit).Return(nil, nil)

		w := f.do(http.MethodGet, "/events", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"object":"list","data":[]}`, w.Body.String())
	})

	t.Run("bad limit", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(http.MethodGet, "/events?limit=-3", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	r := gin.New()
	healthy := NewHealthHandler(map[string]HealthCheck{"ledger": func(context.Context) error { return nil }})
	failing := NewHealthHandler(map[string]HealthCheck{"ledger": func(context.Context) error { return errors.New("down") }})
	r.GET("/health", healthy.Health)
	r.GET("/health/bad", failing.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ledger":"ok"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/bad", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestVaultErrorStatusCoversAllErrors(t *testing.T) {
	internal := map[*business.VaultError]bool{
		business.ErrArithmeticOverflow:  true,
		business.ErrInvalidRecordData:   true,
		business.ErrInvalidAccountOwner: true,
	}
	for _, e := range business.AllErrors {
		status := vaultErrorStatus(e)
		if internal[e] {
			assert.Equal(t, http.StatusInternalServerError, status, e.Name)
			continue
		}
		assert.Less(t, status, http.StatusInternalServerError, e.Name)
	}
}
