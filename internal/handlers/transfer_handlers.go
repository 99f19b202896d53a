package handlers

import (
	"net/http"

	"github.com/cyphera/custody-vault/internal/auth"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/api/requests"
	"github.com/cyphera/custody-vault/internal/types/api/responses"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles operator transfer and sweep endpoints
type TransferHandler struct {
	transfers interfaces.TransferService
}

func NewTransferHandler(transfers interfaces.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// ExecuteTransfer godoc
// @Summary Transfer delegated tokens
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body requests.ExecuteTransferRequest true "Transfer"
// @Success 200 {object} responses.TransferResponse
// @Failure 422 {object} ErrorResponse
// @Router /transfers [post]
func (h *TransferHandler) ExecuteTransfer(c *gin.Context) {
	p, ok := bindParams[requests.ExecuteTransferRequest, params.ExecuteTransferParams](c)
	if !ok {
		return
	}

	result, err := h.transfers.ExecuteTransfer(c.Request.Context(), auth.GetSigners(c), p)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewTransferResponse(*result))
}

// ExecuteMaxTransfer godoc
// @Summary Transfer everything the delegation still allows
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body requests.ExecuteMaxTransferRequest true "Transfer"
// @Success 200 {object} responses.TransferResponse
// @Router /transfers/max [post]
func (h *TransferHandler) ExecuteMaxTransfer(c *gin.Context) {
	p, ok := bindParams[requests.ExecuteMaxTransferRequest, params.ExecuteMaxTransferParams](c)
	if !ok {
		return
	}

	result, err := h.transfers.ExecuteMaxTransfer(c.Request.Context(), auth.GetSigners(c), p)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewTransferResponse(*result))
}

// SyncLiquidity godoc
// @Summary Sweep tracked native balance
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body requests.SyncLiquidityRequest true "Sweep"
// @Success 200 {object} responses.RecordResponse
// @Router /liquidity/sync [post]
func (h *TransferHandler) SyncLiquidity(c *gin.Context) {
	p, ok := bindParams[requests.SyncLiquidityRequest, params.SyncLiquidityParams](c)
	if !ok {
		return
	}

	handle, err := h.transfers.SyncLiquidity(c.Request.Context(), auth.GetSigners(c), p)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewRecordResponse(*handle))
}
