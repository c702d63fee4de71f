package chathub

import (
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"marketgo/backend/internal/models"
)

// Storage is the realtime slice of the persistence layer: publish frames to
// the room channel and subscribe to all of them.
type Storage interface {
	PublishFrame(frame models.OutboundFrame) error
	SubscribeRooms() *redis.PubSub
}

// Conversations persists inbound messages before anything is broadcast.
type Conversations interface {
	PostMessage(roomID string, sender *models.User, content string) (*models.Message, error)
}

// ManagerService is the hub: it owns the per-room broadcast groups and a
// single Run loop that serializes register/unregister/persist/fan-out, so
// frames leave in exactly the order they were durably persisted.
type ManagerService struct {
	// Rooms maps room id to the connections currently subscribed to it.
	Rooms map[string]map[Client]struct{}

	IncomingCh   chan Incoming
	RegisterCh   chan Client
	UnregisterCh chan Client
	// PubSubCh carries frames arriving from the Redis subscription, possibly
	// published by another server instance.
	PubSubCh chan models.OutboundFrame

	Storage       Storage
	Conversations Conversations
}

// NewManagerService creates the hub.
func NewManagerService(store Storage, conversations Conversations) *ManagerService {
	return &ManagerService{
		Rooms:         make(map[string]map[Client]struct{}),
		IncomingCh:    make(chan Incoming),
		RegisterCh:    make(chan Client),
		UnregisterCh:  make(chan Client),
		PubSubCh:      make(chan models.OutboundFrame),
		Storage:       store,
		Conversations: conversations,
	}
}

// Run is the hub's dispatcher loop. Start it once, in its own goroutine.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			group := m.Rooms[client.GetRoomID()]
			if group == nil {
				group = make(map[Client]struct{})
				m.Rooms[client.GetRoomID()] = group
			}
			group[client] = struct{}{}

		case client := <-m.UnregisterCh:
			m.removeClient(client)

		case in := <-m.IncomingCh:
			m.handleIncoming(in)

		case frame := <-m.PubSubCh:
			m.broadcast(frame)
		}
	}
}

// ListenPubSub consumes the Redis subscription and feeds the hub. Started
// separately from Run so the dispatcher stays testable without Redis.
func (m *ManagerService) ListenPubSub() {
	pubsub := m.Storage.SubscribeRooms()
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var frame models.OutboundFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			log.Printf("ERROR: undecodable pub/sub payload on %s: %v", msg.Channel, err)
			continue
		}
		m.PubSubCh <- frame
	}
}

// handleIncoming persists the message, then publishes the outbound frame.
// Persist-then-broadcast: a frame that reaches any subscriber is already
// durable, so no connection can observe content out of order with storage.
func (m *ManagerService) handleIncoming(in Incoming) {
	msg, err := m.Conversations.PostMessage(in.RoomID, &in.Sender, in.Content)
	if err != nil {
		log.Printf("WARNING: dropping message from user %d in room %s: %v", in.Sender.ID, in.RoomID, err)
		return
	}

	frame := models.OutboundFrame{
		RoomID:         msg.RoomID,
		Message:        msg.Content,
		SenderID:       in.Sender.ID,
		SenderUsername: in.Sender.Username,
		Timestamp:      msg.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := m.Storage.PublishFrame(frame); err != nil {
		log.Printf("ERROR: failed to publish frame for room %s: %v", frame.RoomID, err)
	}
}

// broadcast fans one frame out to every connection in the room's group,
// including the sender's own. Slow consumers are dropped rather than allowed
// to stall the dispatcher.
func (m *ManagerService) broadcast(frame models.OutboundFrame) {
	for client := range m.Rooms[frame.RoomID] {
		select {
		case client.GetSendChannel() <- frame:
		default:
			log.Printf("WARNING: dropping slow client (user %d) from room %s", client.GetUserID(), frame.RoomID)
			m.removeClient(client)
		}
	}
}

func (m *ManagerService) removeClient(client Client) {
	group, ok := m.Rooms[client.GetRoomID()]
	if !ok {
		return
	}
	if _, ok := group[client]; !ok {
		return
	}
	delete(group, client)
	if len(group) == 0 {
		delete(m.Rooms, client.GetRoomID())
	}
	client.Close()
}
