package handlers

import (
	"net/http"

	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/types/api/requests"
	"github.com/gin-gonic/gin"
)

// DevHandler exposes ledger seeding for local and dev stages only.
type DevHandler struct {
	seeder interfaces.LedgerSeeder
}

func NewDevHandler(seeder interfaces.LedgerSeeder) *DevHandler {
	return &DevHandler{seeder: seeder}
}

// Airdrop godoc
// @Summary Credit lamports to an address
// @Tags dev
// @Accept json
// @Produce json
// @Param request body requests.AirdropRequest true "Airdrop"
// @Success 200 {object} map[string]string
// @Router /dev/airdrop [post]
func (h *DevHandler) Airdrop(c *gin.Context) {
	seed, ok := bindParams[requests.AirdropRequest, requests.SeedAccount](c)
	if !ok {
		return
	}
	if err := h.seeder.Airdrop(c.Request.Context(), seed.Address, seed.Amount); err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"address": seed.Address.String()})
}

// CreateTokenAccount godoc
// @Summary Register a token account
// @Tags dev
// @Accept json
// @Produce json
// @Param request body requests.CreateTokenAccountRequest true "Token account"
// @Success 201 {object} map[string]string
// @Router /dev/token-accounts [post]
func (h *DevHandler) CreateTokenAccount(c *gin.Context) {
	seed, ok := bindParams[requests.CreateTokenAccountRequest, requests.SeedAccount](c)
	if !ok {
		return
	}
	if err := h.seeder.CreateTokenAccount(c.Request.Context(), seed.Address, seed.Mint, seed.Owner, seed.Amount); err != nil {
		handleVaultError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, gin.H{"address": seed.Address.String()})
}
