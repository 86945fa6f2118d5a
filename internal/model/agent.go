package model

import (
	"time"

	"gorm.io/gorm"
)

// Agent represents a user who is allowed to list and manage houses.
// Exactly one agent record may exist per user, and phone numbers are
// unique across agents; both are backed by database constraints.
type Agent struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	UserID      uint           `json:"user_id" gorm:"uniqueIndex;not null;comment:'Identity-provider user this agent belongs to'"`
	Email       string         `json:"email" gorm:"type:varchar(255);not null"`
	PhoneNumber string         `json:"phone_number" gorm:"type:varchar(15);uniqueIndex;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
