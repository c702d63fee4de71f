// Package conversation manages chat rooms and their persisted message history.
// Realtime fan-out lives in chathub; everything durable goes through here first.
package conversation

import (
	"errors"
	"fmt"
	"log"

	"marketgo/backend/internal/config"
	"marketgo/backend/internal/models"
	"marketgo/backend/internal/sanitize"
)

var (
	// ErrSelfChat rejects conversations with oneself.
	ErrSelfChat = errors.New("cannot start a chat with yourself")
	// ErrDormantTarget rejects conversations with dormant accounts.
	ErrDormantTarget = errors.New("counterpart account is dormant")
	// ErrOwnProductChat rejects product chats opened by the product's seller.
	ErrOwnProductChat = errors.New("cannot start a chat about your own product")
	// ErrBlockedProduct rejects chats about blocked products.
	ErrBlockedProduct = errors.New("product is blocked")
	// ErrNotParticipant means the actor is not a member of the room.
	ErrNotParticipant = errors.New("not a participant of this room")
	// ErrEmptyMessage rejects messages that are empty after cleanup.
	ErrEmptyMessage = errors.New("message is empty")
)

// Storage is the slice of the persistence layer the conversation store needs.
type Storage interface {
	GetUserByID(id uint) (*models.User, error)
	GetProductByID(id uint) (*models.Product, error)

	FindActiveRoom(userA, userB uint, productID *uint) (*models.ChatRoom, error)
	CreateRoom(room *models.ChatRoom, userIDs []uint) error
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	ListRoomsForUser(userID uint) ([]models.ChatRoom, error)

	SaveMessage(msg *models.Message) error
	GetMessages(roomID string) ([]models.Message, error)
	MarkMessagesRead(roomID string, readerID uint) error
	UnreadCount(roomID string, userID uint) (int64, error)
}

// Service is the conversation store.
type Service struct {
	Storage Storage
}

// NewService creates the conversation store.
func NewService(store Storage) *Service {
	return &Service{Storage: store}
}

// RoomSummary is one entry in a user's room list.
type RoomSummary struct {
	Room        models.ChatRoom `json:"room"`
	UnreadCount int64           `json:"unread_count"`
}

// StartOrGetRoom returns the active room for this participant pair and product
// scope, creating it (with a system message) on first contact. Product-scoped
// calls resolve the counterpart to the product's seller.
func (s *Service) StartOrGetRoom(initiator *models.User, counterpartID uint, productID *uint) (*models.ChatRoom, error) {
	var product *models.Product
	if productID != nil {
		var err error
		product, err = s.Storage.GetProductByID(*productID)
		if err != nil {
			return nil, err
		}
		if product.SellerID == initiator.ID {
			return nil, ErrOwnProductChat
		}
		if product.Status == models.ProductBlocked {
			return nil, ErrBlockedProduct
		}
		counterpartID = product.SellerID
	}

	if counterpartID == initiator.ID {
		return nil, ErrSelfChat
	}
	counterpart, err := s.Storage.GetUserByID(counterpartID)
	if err != nil {
		return nil, err
	}
	if counterpart.IsDormant {
		return nil, ErrDormantTarget
	}

	existing, err := s.Storage.FindActiveRoom(initiator.ID, counterpartID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	room := &models.ChatRoom{ProductID: productID, IsActive: true}
	if err := s.Storage.CreateRoom(room, []uint{initiator.ID, counterpartID}); err != nil {
		return nil, err
	}
	log.Printf("INFO: chat room %s created between users %d and %d", room.RoomID, initiator.ID, counterpartID)

	opening := "Conversation started."
	if product != nil {
		opening = fmt.Sprintf("Conversation started about '%s'.", product.Title)
	}
	sysMsg := &models.Message{RoomID: room.RoomID, SenderID: initiator.ID, Content: opening}
	if err := s.Storage.SaveMessage(sysMsg); err != nil {
		return nil, err
	}
	return room, nil
}

// PostMessage validates, sanitizes and persists one message. Saving also bumps
// the room's updated_at.
func (s *Service) PostMessage(roomID string, sender *models.User, content string) (*models.Message, error) {
	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(sender.ID) {
		return nil, ErrNotParticipant
	}

	content = sanitize.Clean(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	content = sanitize.Truncate(content, config.MessageMaxRunes)

	msg := &models.Message{RoomID: room.RoomID, SenderID: sender.ID, Content: content}
	if err := s.Storage.SaveMessage(msg); err != nil {
		return nil, err
	}
	msg.Sender = *sender
	return msg, nil
}

// MarkRead flips is_read on every message in the room the reader did not
// author. The reader's own messages are never touched.
func (s *Service) MarkRead(roomID string, reader *models.User) error {
	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(reader.ID) {
		return ErrNotParticipant
	}
	return s.Storage.MarkMessagesRead(roomID, reader.ID)
}

// History returns the room's messages in creation order, participant-gated.
func (s *Service) History(roomID string, requester *models.User) ([]models.Message, error) {
	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(requester.ID) {
		return nil, ErrNotParticipant
	}
	return s.Storage.GetMessages(roomID)
}

// IsParticipant reports whether the user belongs to the room. The realtime
// layer uses this to gate connection subscriptions.
func (s *Service) IsParticipant(roomID string, userID uint) (bool, error) {
	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		return false, err
	}
	return room.HasParticipant(userID), nil
}

// ListRooms returns the user's active rooms, most recently updated first,
// each with its unread message count.
func (s *Service) ListRooms(user *models.User) ([]RoomSummary, error) {
	rooms, err := s.Storage.ListRoomsForUser(user.ID)
	if err != nil {
		return nil, err
	}
	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		unread, err := s.Storage.UnreadCount(room.RoomID, user.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, RoomSummary{Room: room, UnreadCount: unread})
	}
	return summaries, nil
}
