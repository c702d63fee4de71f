package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom is a persisted conversation between two or more participants,
// optionally scoped to a product. For any participant pair and product scope at
// most one active room exists; product-less rooms never match product-scoped ones.
type ChatRoom struct {
	// RoomID is the room's UUID, also used as the realtime channel name.
	RoomID    string   `gorm:"primaryKey" json:"room_id"`
	ProductID *uint    `gorm:"index" json:"product_id,omitempty"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	IsActive  bool     `gorm:"default:true;index" json:"is_active"`

	Participants []ChatParticipant `gorm:"foreignKey:RoomID" json:"participants"`

	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is bumped on every new message so room lists sort by activity.
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate fills in the room UUID when the caller did not set one.
func (r *ChatRoom) BeforeCreate(tx *gorm.DB) error {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	return nil
}

// HasParticipant reports whether userID is a member of the room.
func (r *ChatRoom) HasParticipant(userID uint) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ChatParticipant links one user into one room.
type ChatParticipant struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	RoomID string `gorm:"type:uuid;index:idx_room_user,unique;not null" json:"room_id"`
	UserID uint   `gorm:"index:idx_room_user,unique;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`

	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
