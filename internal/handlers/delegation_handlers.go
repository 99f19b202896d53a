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

// DelegationHandler handles token delegation endpoints
type DelegationHandler struct {
	delegations interfaces.DelegationService
}

// NewDelegationHandler creates a new DelegationHandler instance
func NewDelegationHandler(delegations interfaces.DelegationService) *DelegationHandler {
	return &DelegationHandler{delegations: delegations}
}

// SetupDelegation godoc
// @Summary Grant a token delegation
// @Description Creates the delegation record and approves the vault authority over the user's token account
// @Tags delegations
// @Accept json
// @Produce json
// @Param request body requests.SetupDelegationRequest true "Delegation"
// @Success 201 {object} responses.RecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /delegations [post]
func (h *DelegationHandler) SetupDelegation(c *gin.Context) {
	p, ok := bindParams[requests.SetupDelegationRequest, params.SetupDelegationParams](c)
	if !ok {
		return
	}

	handle, err := h.delegations.SetupDelegation(c.Request.Context(), auth.GetSigners(c), p)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, responses.NewRecordResponse(*handle))
}

// GetDelegation godoc
// @Summary Get a delegation record
// @Tags delegations
// @Produce json
// @Param owner path string true "Owner public key"
// @Param mint path string true "Token mint"
// @Success 200 {object} responses.RecordResponse
// @Failure 404 {object} ErrorResponse
// @Router /delegations/{owner}/{mint} [get]
func (h *DelegationHandler) GetDelegation(c *gin.Context) {
	owner, err := helpers.ParsePublicKey("owner", c.Param("owner"))
	if err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	mint, err := helpers.ParsePublicKey("mint", c.Param("mint"))
	if err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	handle, err := h.delegations.GetDelegation(c.Request.Context(), owner, mint)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewRecordResponse(*handle))
}

// RevokeDelegation godoc
// @Summary Revoke a delegation
// @Description Disables the record, revokes the token approval and refunds the record's lamports to the caller
// @Tags delegations
// @Accept json
// @Produce json
// @Param request body requests.RevokeDelegationRequest true "Revocation"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Router /delegations/revoke [post]
func (h *DelegationHandler) RevokeDelegation(c *gin.Context) {
	p, ok := bindParams[requests.RevokeDelegationRequest, params.RevokeDelegationParams](c)
	if !ok {
		return
	}

	if err := h.delegations.RevokeDelegation(c.Request.Context(), auth.GetSigners(c), p); err != nil {
		handleVaultError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SuspendDelegation godoc
// @Summary Suspend a delegation
// @Description Admin-only switch that disables a delegation without closing it
// @Tags delegations
// @Accept json
// @Produce json
// @Param request body requests.SuspendDelegationRequest true "Suspension"
// @Success 200 {object} responses.RecordResponse
// @Failure 403 {object} ErrorResponse
// @Router /delegations/suspend [post]
func (h *DelegationHandler) SuspendDelegation(c *gin.Context) {
	p, ok := bindParams[requests.SuspendDelegationRequest, params.SuspendDelegationParams](c)
	if !ok {
		return
	}

	handle, err := h.delegations.SuspendDelegation(c.Request.Context(), auth.GetSigners(c), p)
	if err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewRecordResponse(*handle))
}
