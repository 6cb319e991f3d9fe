package models

import (
	"time"

	"gorm.io/gorm"
)

// Card represents a shared photo card. The owner is set at creation and
// never changes.
type Card struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Link    string `gorm:"not null" json:"link"`
	OwnerID uint   `gorm:"not null;index" json:"owner"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"-"`
	// Likes is not persisted directly; populated at query time from the
	// likes table as the set of user IDs.
	Likes     []uint         `gorm:"-" json:"likes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
