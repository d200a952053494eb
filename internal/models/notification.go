package models

import "time"

// Notification types
const (
	NotificationLike    = "LIKE"
	NotificationComment = "COMMENT"
	NotificationFollow  = "FOLLOW"
)

// Notification is derived from like, comment and follow actions. Rows are
// append-only; only the read flag is ever updated.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:10;index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	IssuerID    uint      `json:"issuer_id" gorm:"index"`
	Issuer      User      `json:"-" gorm:"foreignKey:IssuerID"`
	PostID      *uint     `json:"post_id,omitempty"`
	Post        *Post     `json:"-" gorm:"foreignKey:PostID"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
