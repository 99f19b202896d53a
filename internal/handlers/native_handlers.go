package handlers

import (
	"net/http"

	"github.com/cyphera/custody-vault/internal/auth"
	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/api/requests"
	"github.com/cyphera/custody-vault/internal/types/api/responses"
	"github.com/gin-gonic/gin"
)

// NativeHandler handles native coin profile endpoints
type NativeHandler struct {
	custody interfaces.NativeCustodyService
}

func NewNativeHandler(custody interfaces.NativeCustodyService) *NativeHandler {
	return &NativeHandler{custody: custody}
}

// CommitNative godoc
// @Summary Deposit native coin
// @Tags native
// @Accept json
// @Produce json
// @Param request body requests.CommitNativeRequest true "Deposit"
// @Success 200 {object} responses.RecordResponse
// @Router /native/commit [post]
func (h *NativeHandler) CommitNative(c *gin.Context) {
	p, ok := bindParams[requests.CommitNativeRequest, params.CommitNativeParams](c)
	if !ok {
		return
	}

	handle, err := h.custody.CommitNative(c.Request.Context(), auth.GetSigners(c), p)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	status := http.StatusOK
	if handle.Created {
		status = http.StatusCreated
	}
	sendSuccess(c, status, responses.NewRecordResponse(*handle))
}

// ReclaimNative godoc
// @Summary Withdraw tracked native balance
// @Tags native
// @Accept json
// @Produce json
// @Param request body requests.ReclaimNativeRequest true "Withdrawal"
// @Success 200 {object} responses.RecordResponse
// @Router /native/reclaim [post]
func (h *NativeHandler) ReclaimNative(c *gin.Context) {
	p, ok := bindParams[requests.ReclaimNativeRequest, params.ReclaimNativeParams](c)
	if !ok {
		return
	}

	handle, err := h.custody.ReclaimNative(c.Request.Context(), auth.GetSigners(c), p)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewRecordResponse(*handle))
}

// CloseNativeProfile godoc
// @Summary Close a native profile
// @Tags native
// @Accept json
// @Produce json
// @Param request body requests.CloseNativeProfileRequest true "Close"
// @Success 200 {object} responses.CloseProfileResponse
// @Router /native/close [post]
func (h *NativeHandler) CloseNativeProfile(c *gin.Context) {
	p, ok := bindParams[requests.CloseNativeProfileRequest, params.CloseNativeProfileParams](c)
	if !ok {
		return
	}

	refunded, err := h.custody.CloseNativeProfile(c.Request.Context(), auth.GetSigners(c), p)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewCloseProfileResponse(refunded))
}

// GetNativeProfile godoc
// @Summary Get a native profile
// @Tags native
// @Produce json
// @Param owner path string true "Owner public key"
// @Success 200 {object} responses.RecordResponse
// @Failure 404 {object} ErrorResponse
// @Router /native/{owner} [get]
func (h *NativeHandler) GetNativeProfile(c *gin.Context) {
	owner, err := helpers.ParsePublicKey("owner", c.Param("owner"))
	if err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	handle, err := h.custody.GetNativeProfile(c.Request.Context(), owner)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewRecordResponse(*handle))
}
