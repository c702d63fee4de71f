package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product lifecycle statuses. Blocked is only ever set by moderation and hides
// the product from public listings while keeping it visible to seller and staff.
const (
	ProductAvailable = "available"
	ProductReserved  = "reserved"
	ProductSold      = "sold"
	ProductBlocked   = "blocked"
)

// ValidProductStatus reports whether s is one of the lifecycle statuses.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductAvailable, ProductReserved, ProductSold, ProductBlocked:
		return true
	}
	return false
}

// Product is a listing put up for sale by one seller.
type Product struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	SellerID uint `gorm:"index;not null" json:"seller_id"`
	Seller   User `gorm:"foreignKey:SellerID" json:"seller"`

	Title       string         `gorm:"size:50;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Price       uint           `gorm:"not null" json:"price"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Status      string         `gorm:"size:10;default:'available';index" json:"status"`
	Views       uint           `gorm:"default:0" json:"views"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
