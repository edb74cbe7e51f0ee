package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile carries the user's global role and optional condo affinity.
// Per-unit authority is granted through UnitAccess, not here.
type UserProfile struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"userID" gorm:"not null;uniqueIndex"`
	User      User           `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Role      string         `json:"role" gorm:"type:varchar(20);default:guest;index"`
	CondoID   *uint          `json:"condoID"` // primary condo this user is associated with, optional
	Phone     string         `json:"phone" gorm:"size:50"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}
