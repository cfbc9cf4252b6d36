package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/models"
)

// fallbackReply is what the chat shows when the organizer service cannot be
// reached. The turn still renders; the transcript never errors out.
const fallbackReply = "Sorry, I'm having trouble connecting to the server. Please try again later."

// AgendaHandler proxies chat turns to the remote agenda organizer. No
// transcript state is held here; the full history rides on every request.
type AgendaHandler struct {
	client *clients.HubClient
	logger *zap.Logger
}

func NewAgendaHandler(client *clients.HubClient, logger *zap.Logger) *AgendaHandler {
	return &AgendaHandler{client: client, logger: logger}
}

type chatRequest struct {
	Message string               `json:"message" binding:"required"`
	History []models.ChatMessage `json:"history"`
}

// Chat forwards one user turn and returns the organizer's reply. Failures
// reaching the remote service degrade to a canned reply rather than an
// error status, matching the transcript-first behavior of the page.
func (h *AgendaHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.client.OptimizeAgenda(c.Request.Context(), req.Message, req.History)
	if err != nil {
		h.logger.Error("Agenda organizer request failed", zap.Error(err))
		if errors.Is(err, clients.ErrNetwork) {
			c.JSON(http.StatusOK, gin.H{"response": fallbackReply})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"response": fallbackReply})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}
