package model

import (
	"time"

	"gorm.io/gorm"
)

// House represents a rental listing owned by an agent. RenterID is nil
// while the house is available and holds the renting user's id otherwise.
type House struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Title         string         `json:"title" gorm:"type:varchar(50);not null"`
	Address       string         `json:"address" gorm:"type:varchar(150);not null"`
	Description   string         `json:"description" gorm:"type:varchar(500);not null"`
	ImageURL      string         `json:"image_url" gorm:"type:varchar(200);not null"`
	PricePerMonth float64        `json:"price_per_month" gorm:"not null"`
	CategoryID    uint           `json:"category_id" gorm:"index;not null"`
	AgentID       uint           `json:"agent_id" gorm:"index;not null"`
	RenterID      *uint          `json:"renter_id,omitempty" gorm:"index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// IsRented reports whether the house currently has a renter.
func (h *House) IsRented() bool {
	return h.RenterID != nil
}
