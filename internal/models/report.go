package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Report reasons.
const (
	ReasonProhibited  = "prohibited"
	ReasonCounterfeit = "counterfeit"
	ReasonMisleading  = "misleading"
	ReasonFraud       = "fraud"
	ReasonHarassment  = "harassment"
	ReasonOther       = "other"
)

// Report statuses.
const (
	ReportPending  = "pending"
	ReportApproved = "approved"
	ReportRejected = "rejected"
)

// ValidReportReason reports whether r is a known complaint reason.
func ValidReportReason(r string) bool {
	switch r {
	case ReasonProhibited, ReasonCounterfeit, ReasonMisleading, ReasonFraud, ReasonHarassment, ReasonOther:
		return true
	}
	return false
}

// ErrAmbiguousTarget is returned by the BeforeCreate hook when a report does not
// point at exactly one of a user or a product.
var ErrAmbiguousTarget = errors.New("report must target exactly one of a user or a product")

// Report is a complaint filed by one user against either another user or a
// product — never both, never neither. The two nullable columns are the storage
// shape; code constructs reports through report.Target so the illegal states
// cannot be expressed at the call site, and the hook backstops direct writes.
type Report struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ReporterID uint `gorm:"index;not null" json:"reporter_id"`
	Reporter   User `gorm:"foreignKey:ReporterID" json:"reporter"`

	TargetUserID    *uint    `gorm:"index" json:"target_user_id,omitempty"`
	TargetUser      *User    `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`
	TargetProductID *uint    `gorm:"index" json:"target_product_id,omitempty"`
	TargetProduct   *Product `gorm:"foreignKey:TargetProductID" json:"target_product,omitempty"`

	Reason string `gorm:"size:20;not null" json:"reason"`
	Detail string `gorm:"type:text;not null" json:"detail"`
	Status string `gorm:"size:10;default:'pending';index" json:"status"`

	CreatedAt     time.Time  `json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	ProcessedByID *uint      `json:"processed_by_id,omitempty"`
}

// BeforeCreate enforces the one-target invariant at write time.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if (r.TargetUserID == nil) == (r.TargetProductID == nil) {
		return ErrAmbiguousTarget
	}
	return nil
}
