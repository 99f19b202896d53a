package handlers

import (
	"net/http"
	"strconv"

	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/types/api/responses"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// EventHandler serves the committed event feed
type EventHandler struct {
	events interfaces.EventReader
}

func NewEventHandler(events interfaces.EventReader) *EventHandler {
	return &EventHandler{events: events}
}

// ListEvents godoc
// @Summary List vault events
// @Description Newest first. Filter by owner to see one user's history.
// @Tags events
// @Produce json
// @Param owner query string false "Owner public key"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {object} responses.ListResponse[responses.EventResponse]
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	var owner solana.PublicKey
	if raw := c.Query("owner"); raw != "" {
		var err error
		if owner, err = helpers.ParsePublicKey("owner", raw); err != nil {
			sendError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
	}

	limit := defaultEventLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			sendError(c, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := h.events.ListEvents(c.Request.Context(), owner, limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to list events", err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewEventList(events))
}
