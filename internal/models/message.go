package models

import "time"

// Message is one chat message inside a room. Content is escaped and truncated
// before it reaches storage; after creation only IsRead ever changes.
type Message struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RoomID   string `gorm:"type:uuid;not null;index:idx_room_created" json:"room_id"`
	SenderID uint   `gorm:"index;not null" json:"sender_id"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"sender"`

	Content string `gorm:"type:text;not null" json:"content"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"index:idx_room_created" json:"created_at"`
}
