package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"marketgo/backend/internal/api/middleware"
	"marketgo/backend/internal/chathub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is enforced by the deployment's reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket subscribes an authenticated participant to a room's broadcast
// group. Participation is checked before the upgrade, so outsiders never get a
// connection, let alone group membership.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	roomID := c.Param("id")
	user := middleware.CurrentUser(c)

	ok, err := h.Conversations.IsParticipant(roomID, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !ok {
		log.Printf("WARNING: user %d refused websocket access to room %s", user.ID, roomID)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not a participant of this room"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: websocket upgrade failed for room %s: %v", roomID, err)
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, *user, roomID, conn)
	h.Hub.RegisterCh <- client
	client.Run()
}
