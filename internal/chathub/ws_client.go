package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"marketgo/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements Client over a gorilla/websocket connection.
// One connection belongs to exactly one room group for its whole lifetime.
type WebSocketClient struct {
	User   models.User
	RoomID string
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.OutboundFrame

	closeOnce sync.Once
}

// NewWebSocketClient wraps an upgraded connection. The caller must have
// verified room participation already.
func NewWebSocketClient(hub *ManagerService, user models.User, roomID string, conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{
		User:   user,
		RoomID: roomID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.OutboundFrame, 256),
	}
}

func (c *WebSocketClient) GetUserID() uint { return c.User.ID }

func (c *WebSocketClient) GetRoomID() string { return c.RoomID }

func (c *WebSocketClient) GetSendChannel() chan<- models.OutboundFrame { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the send channel down, which stops the write pump. Safe to call
// from both the hub and the pumps.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WARNING: read error from user %d in room %s: %v", c.User.ID, c.RoomID, err)
			}
			break
		}

		var frame models.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("WARNING: undecodable frame from user %d: %v", c.User.ID, err)
			continue
		}

		c.Hub.IncomingCh <- Incoming{
			RoomID:  c.RoomID,
			Sender:  c.User,
			Content: frame.Message,
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(frame)
			if err != nil {
				log.Printf("ERROR: failed to encode frame for user %d: %v", c.User.ID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
