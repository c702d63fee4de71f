package chathub

import "marketgo/backend/internal/models"

// Client is one live connection subscribed to a room's broadcast group. It
// abstracts the transport so the hub can manage websocket connections and test
// doubles uniformly.
type Client interface {
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() uint
	// GetRoomID returns the room whose group this connection belongs to.
	GetRoomID() string

	// GetSendChannel returns the channel the hub writes outbound frames to.
	GetSendChannel() chan<- models.OutboundFrame

	// Run starts the connection's read and write pumps.
	Run()
	// Close shuts the connection down; safe to call more than once.
	Close()
}

// Incoming is a validated-not-yet-persisted message travelling from a client
// pump into the hub.
type Incoming struct {
	RoomID  string
	Sender  models.User
	Content string
}
