package models

import (
	"time"
)

// Like represents a user's like on a card.
// The combination of UserID and CardID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_card" json:"user_id"`
	CardID    uint      `gorm:"not null;uniqueIndex:idx_user_card" json:"card_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user"`
	Card Card `gorm:"foreignKey:CardID" json:"card"`
}
