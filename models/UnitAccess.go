package models

import (
	"time"

	"gorm.io/gorm"
)

// Access types a UnitAccess grant can carry.
const (
	AccessTypeOwner          = "owner"
	AccessTypeRentalManager  = "rental_manager"
	AccessTypeTenant         = "tenant"
	AccessTypeGuestSubmitter = "guest_submitter"
)

// UnitAccess grants a non-manager user visibility and authority over a
// specific unit, e.g. an owner who delegates guest submission to a
// third-party rental manager. Inactive rows grant nothing.
type UnitAccess struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"userID" gorm:"not null;uniqueIndex:idx_user_unit_access"`
	User       User           `json:"user" gorm:"foreignKey:UserID;references:ID"`
	UnitID     uint           `json:"unitID" gorm:"not null;uniqueIndex:idx_user_unit_access"`
	Unit       Unit           `json:"unit" gorm:"foreignKey:UnitID;references:ID"`
	AccessType string         `json:"accessType" gorm:"size:20;default:owner;uniqueIndex:idx_user_unit_access"`
	Active     bool           `json:"active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}
