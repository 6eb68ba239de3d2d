package handlers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"selfchat/internal/app/adapters/metrics"
	"selfchat/internal/app/domain/message"
)

type createRequest struct {
	Sender        message.Sender `json:"sender"`
	TextPrimary   string         `json:"textPrimary"`
	TextSecondary string         `json:"textSecondary"`
}

type updateRequest struct {
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
}

func (h *Handlers) ListMessages(c *gin.Context) {
	msgs, err := h.chat.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}

	h.ok("list")
	metrics.StoredMessages.Set(float64(len(msgs)))
	c.JSON(http.StatusOK, msgs)
}

func (h *Handlers) CreateMessage(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	msg, err := h.chat.Create(c.Request.Context(), req.Sender, req.TextPrimary, req.TextSecondary)
	if err != nil {
		h.fail(c, "create", err)
		return
	}

	h.ok("create")
	c.JSON(http.StatusCreated, msg)
}

func (h *Handlers) UpdateMessage(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	msg, err := h.chat.Update(c.Request.Context(), c.Param("id"), req.TextPrimary, req.TextSecondary)
	if err != nil {
		h.fail(c, "update", err)
		return
	}

	h.ok("update")
	c.JSON(http.StatusOK, msg)
}

func (h *Handlers) DeleteMessage(c *gin.Context) {
	if err := h.chat.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete", err)
		return
	}

	h.ok("delete")
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}
