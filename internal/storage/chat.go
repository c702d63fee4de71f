package storage

import (
	"time"

	"gorm.io/gorm"

	"marketgo/backend/internal/models"
)

// FindActiveRoom looks up the active room holding exactly this participant
// pair and product scope. Product-less rooms only match product-less lookups.
// Returns (nil, nil) when no such room exists.
func (s *Service) FindActiveRoom(userA, userB uint, productID *uint) (*models.ChatRoom, error) {
	q := s.DB.Where("is_active = ?", true).
		Where("room_id IN (?)", s.DB.Model(&models.ChatParticipant{}).
			Select("room_id").Where("user_id = ?", userA)).
		Where("room_id IN (?)", s.DB.Model(&models.ChatParticipant{}).
			Select("room_id").Where("user_id = ?", userB))
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	} else {
		q = q.Where("product_id IS NULL")
	}

	var room models.ChatRoom
	err := q.Preload("Participants").Preload("Participants.User").First(&room).Error
	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// CreateRoom persists the room and one participant row per user in a single
// transaction.
func (s *Service) CreateRoom(room *models.ChatRoom, userIDs []uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		for _, id := range userIDs {
			p := models.ChatParticipant{RoomID: room.RoomID, UserID: id}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			room.Participants = append(room.Participants, p)
		}
		return nil
	})
}

// GetRoomByID loads one room with participants and the linked product.
func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Preload("Participants").
		Preload("Participants.User").
		Preload("Product").
		Where("room_id = ?", roomID).
		First(&room).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// ListRoomsForUser returns the user's active rooms, most recently updated first.
func (s *Service) ListRoomsForUser(userID uint) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.Preload("Participants").
		Preload("Participants.User").
		Preload("Product").
		Where("is_active = ?", true).
		Where("room_id IN (?)", s.DB.Model(&models.ChatParticipant{}).
			Select("room_id").Where("user_id = ?", userID)).
		Order("updated_at DESC").
		Find(&rooms).Error
	return rooms, err
}

// SaveMessage persists one message and bumps the room's updated_at so room
// lists sort by latest activity.
func (s *Service) SaveMessage(msg *models.Message) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatRoom{}).
			Where("room_id = ?", msg.RoomID).
			UpdateColumn("updated_at", time.Now()).Error
	})
}

// GetMessages returns the room's messages in creation order.
func (s *Service) GetMessages(roomID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Preload("Sender").
		Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkMessagesRead flips is_read on every unread message in the room that the
// reader did not author.
func (s *Service) MarkMessagesRead(roomID string, readerID uint) error {
	return s.DB.Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		UpdateColumn("is_read", true).Error
}

// UnreadCount counts messages in the room the user has not read yet.
func (s *Service) UnreadCount(roomID string, userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, userID, false).
		Count(&count).Error
	return count, err
}
