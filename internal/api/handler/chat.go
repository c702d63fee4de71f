package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketgo/backend/internal/api/middleware"
)

type startChatRequest struct {
	UserID    *uint `json:"user_id"`
	ProductID *uint `json:"product_id"`
}

// StartChat opens (or returns the existing) room with another user, optionally
// scoped to a product. Product-scoped requests chat with the product's seller.
func (h *Handler) StartChat(c *gin.Context) {
	var req startChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.UserID == nil && req.ProductID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide user_id or product_id"})
		return
	}

	var counterpartID uint
	if req.UserID != nil {
		counterpartID = *req.UserID
	}

	room, err := h.Conversations.StartOrGetRoom(middleware.CurrentUser(c), counterpartID, req.ProductID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ListChats returns the authenticated user's active rooms with unread counts.
func (h *Handler) ListChats(c *gin.Context) {
	rooms, err := h.Conversations.ListRooms(middleware.CurrentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetChat returns a room with its full history and marks the counterpart's
// messages read.
func (h *Handler) GetChat(c *gin.Context) {
	roomID := c.Param("id")
	user := middleware.CurrentUser(c)

	messages, err := h.Conversations.History(roomID, user)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.Conversations.MarkRead(roomID, user); err != nil {
		log.Printf("ERROR: failed to mark room %s read for user %d: %v", roomID, user.ID, err)
	}

	room, err := h.Storage.GetRoomByID(roomID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room, "messages": messages})
}
