package models

// InboundFrame is what a websocket client sends: just the raw message text.
type InboundFrame struct {
	Message string `json:"message"`
}

// OutboundFrame is fanned out to every connection in a room after the message
// has been persisted. Timestamp is RFC 3339 with nanoseconds, so it sorts
// lexicographically in the same order as storage.
type OutboundFrame struct {
	RoomID         string `json:"room_id"`
	Message        string `json:"message"`
	SenderID       uint   `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	Timestamp      string `json:"timestamp"`
}
