package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cyphera/custody-vault/internal/middleware"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
	Name  string `json:"name,omitempty"`
}

// sendError logs the failure with the request's correlation id and writes a JSON error.
func sendError(c *gin.Context, statusCode int, message string, err error) {
	log := middleware.LogWithCorrelationID(c.Request.Context())
	fields := []zap.Field{
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Warn(message, fields...)
	}
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleVaultError maps vault failures onto HTTP statuses. Anything that is
// not a VaultError is reported as an internal error without its detail.
func handleVaultError(c *gin.Context, err error) {
	var vaultErr *business.VaultError
	if !errors.As(err, &vaultErr) {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			sendError(c, http.StatusServiceUnavailable, "Request was cancelled", err)
		default:
			sendError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	status := vaultErrorStatus(vaultErr)
	log := middleware.LogWithCorrelationID(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("Vault operation failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(status, ErrorResponse{Error: "Internal server error", Code: vaultErr.Code, Name: vaultErr.Name})
		return
	}
	log.Info("Vault operation rejected",
		zap.String("error_name", vaultErr.Name),
		zap.Int("error_code", vaultErr.Code),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(status, ErrorResponse{Error: vaultErr.Message, Code: vaultErr.Code, Name: vaultErr.Name})
}

func vaultErrorStatus(e *business.VaultError) int {
	switch e {
	case business.ErrDelegationNotFound, business.ErrAccountNotFound:
		return http.StatusNotFound
	case business.ErrMissingSignature:
		return http.StatusUnauthorized
	case business.ErrUnauthorized, business.ErrNotOwner:
		return http.StatusForbidden
	case business.ErrAlreadyInitialized, business.ErrDelegationRevoked, business.ErrDelegationExpired:
		return http.StatusConflict
	case business.ErrTransferLimitExceeded, business.ErrAmountExceedsHardLimit, business.ErrInsufficientFunds,
		business.ErrInvalidAmount, business.ErrInvalidExpiry, business.ErrTokenAccountMismatch,
		business.ErrTokenInsufficientFunds, business.ErrTokenOwnerMismatch, business.ErrTokenMintMismatch,
		business.ErrTokenNoDelegate, business.ErrTokenAllowanceExceeded:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// converter is implemented by request types that produce service params.
type converter[P any] interface {
	ToParams() (P, error)
}

// bindParams decodes the JSON body into R and converts it. It writes the
// error response itself and reports whether the handler should continue.
func bindParams[R converter[P], P any](c *gin.Context) (P, bool) {
	var req R
	var zero P
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return zero, false
	}
	p, err := req.ToParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return zero, false
	}
	return p, true
}
