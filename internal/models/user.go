package models

import "time"

// User represents a marketplace account. Moderation state lives directly on the
// row: ReportCount is only ever moved by the report engine, and IsDormant latches
// once set — a dormant account cannot log in or take part in new conversations.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	// PasswordHash holds the bcrypt hash and is never serialized.
	PasswordHash string `gorm:"not null" json:"-"`

	Intro       string `gorm:"type:text" json:"intro"`
	LastLoginIP string `gorm:"size:45" json:"-"`

	IsStaff     bool `gorm:"default:false" json:"is_staff"`
	IsDormant   bool `gorm:"default:false;index" json:"is_dormant"`
	ReportCount uint `gorm:"default:0" json:"report_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
