package server

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/vybelabs/vybe/src/aisdk"
	"github.com/vybelabs/vybe/src/storage"
)

const maxRenameLength = 100

type renameRequest struct {
	Title string `json:"title"`
}

// handleListConversations returns the caller's conversations, newest first.
func (h *handlers) handleListConversations(c *gin.Context) {
	conversations, err := storage.ListConversationsByOwner(c.Request.Context(), h.database, callerID(c))
	if err != nil {
		h.logger.Error("failed to list conversations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
		return
	}
	if conversations == nil {
		conversations = []storage.Conversation{}
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// handleGetMessages returns the conversation history in normalized client
// form. Tool records are folded into their assistant messages.
func (h *handlers) handleGetMessages(c *gin.Context) {
	conversationID := c.Param("id")

	conv, err := storage.GetConversationByID(c.Request.Context(), h.database, conversationID)
	if err != nil {
		h.logger.Error("failed to load conversation", "conversation_id", conversationID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}
	if conv == nil || conv.OwnerID != callerID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	rows, err := storage.GetMessagesByConversationID(c.Request.Context(), h.database, conversationID)
	if err != nil {
		h.logger.Error("failed to load messages", "conversation_id", conversationID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	records := make([]aisdk.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.ToRecord()
		if err != nil {
			h.logger.Warn("skipping undecodable message", "message_id", row.ID, "error", err)
			continue
		}
		records = append(records, rec)
	}

	c.JSON(http.StatusOK, gin.H{"messages": aisdk.Normalize(records)})
}

// handleRenameConversation updates a conversation title.
func (h *handlers) handleRenameConversation(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if length := utf8.RuneCountInString(req.Title); length == 0 || length > maxRenameLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must be between 1 and 100 characters"})
		return
	}

	err := storage.RenameConversation(c.Request.Context(), h.database, c.Param("id"), callerID(c), req.Title)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to rename conversation", "conversation_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rename conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
