package handlers

import (
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
	"selfchat/internal/app/adapters/metrics"
	"selfchat/internal/app/domain/message"
	"selfchat/internal/app/infrastructure/config"
	"selfchat/internal/app/ports"
	"selfchat/pkg/logger"
)

type Handlers struct {
	log     logger.Logger
	manager *config.Manager
	chat    ports.ChatPort
}

func New(log logger.Logger, manager *config.Manager, chat ports.ChatPort) *Handlers {
	return &Handlers{
		log:     log,
		manager: manager,
		chat:    chat,
	}
}

// fail writes the error payload for err and records the outcome of op.
func (h *Handlers) fail(c *gin.Context, op string, err error) {
	var ve *message.ValidationError

	switch {
	case errors.As(err, &ve):
		metrics.MessageOperations.WithLabelValues(op, "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields: " + ve.Error()})
	case errors.Is(err, message.ErrValidation):
		metrics.MessageOperations.WithLabelValues(op, "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
	case errors.Is(err, message.ErrNotFound):
		metrics.MessageOperations.WithLabelValues(op, "not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
	default:
		metrics.MessageOperations.WithLabelValues(op, "error").Inc()
		h.log.Error("Message operation failed", err, "operation", op)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

func (h *Handlers) ok(op string) {
	metrics.MessageOperations.WithLabelValues(op, "ok").Inc()
}
