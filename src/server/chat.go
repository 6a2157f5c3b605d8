package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vybelabs/vybe/src/aisdk"
	"github.com/vybelabs/vybe/src/executor"
	"github.com/vybelabs/vybe/src/storage"
	"github.com/vybelabs/vybe/src/vybeagent"
)

type chatRequest struct {
	ID              string             `json:"id"`
	Messages        []*aisdk.Message   `json:"messages"`
	WalletPublicKey string             `json:"walletPublicKey,omitempty"`
	Attachments     []aisdk.Attachment `json:"attachments,omitempty"`
}

type deleteChatRequest struct {
	ID string `json:"id"`
}

// handleChat runs one conversation turn and streams its events back as SSE.
func (h *handlers) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation id is required"})
		return
	}
	if aisdk.MostRecentUserMessage(req.Messages) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no user message found"})
		return
	}

	owner := callerID(c)

	// Ownership is checked before the stream starts so the client gets a
	// plain status code instead of a broken event stream.
	conv, err := storage.GetConversationByID(c.Request.Context(), h.database, req.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}
	if conv != nil && conv.OwnerID != owner {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	sink, err := newSSESink(c.Writer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer sink.Close()

	_, err = h.service.RunTurn(c.Request.Context(), &executor.TurnRequest{
		ConversationID: req.ID,
		OwnerID:        owner,
		Messages:       req.Messages,
		Attachments:    req.Attachments,
		SystemPrompt:   vybeagent.BuildSystemPrompt(req.WalletPublicKey, req.Attachments),
		EventSink:      sink,
	})
	if err != nil {
		h.logger.Error("turn failed", "conversation_id", req.ID, "error", err)
		sink.Send(&executor.ErrorEvent{
			BaseEvent: executor.BaseEvent{
				Type:           executor.EventError,
				Timestamp:      time.Now(),
				ConversationID: req.ID,
			},
			Error: "turn failed",
		})
	}
}

// handleDeleteChat removes a conversation and its messages.
func (h *handlers) handleDeleteChat(c *gin.Context) {
	var req deleteChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation id is required"})
		return
	}

	err := storage.DeleteConversation(c.Request.Context(), h.database, req.ID, callerID(c))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to delete conversation", "conversation_id", req.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
