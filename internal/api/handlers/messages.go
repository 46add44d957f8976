package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/core"
	"github.com/andrelmp/inbox-guardian/internal/inbox"
)

type MessageHandler struct {
	service *inbox.Service
	logger  *zap.Logger
}

func NewMessageHandler(service *inbox.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{service: service, logger: logger}
}

type inboundPayload struct {
	To   string `json:"to" binding:"required"`
	From string `json:"from" binding:"required"`
	Body string `json:"body"`
}

// ReceiveMessage is the webhook the messaging provider calls for every
// inbound message. The response always reports the guard decision; the
// provider does not retry on a denial.
func (h *MessageHandler) ReceiveMessage(c *gin.Context) {
	var payload inboundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	result, err := h.service.Receive(c.Request.Context(), core.InboundMessage{
		To:         payload.To,
		From:       payload.From,
		Body:       payload.Body,
		ReceivedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, inbox.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown inbox number"})
			return
		}
		h.logger.Error("Failed to process inbound message",
			zap.String("to", payload.To),
			zap.String("from", payload.From),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	status := http.StatusAccepted
	if !result.Allowed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}
