package models

import "gorm.io/gorm"

// User mirrors the identity asserted by the JWT layer: id plus a role
// string. Password and contact fields exist for the admin-provisioned
// accounts; token issuance itself lives outside this service.
type User struct {
	gorm.Model
	FirstName string `json:"firstName" gorm:"size:120"`
	LastName  string `json:"lastName" gorm:"size:120"`
	Email     string `json:"email" gorm:"size:254;uniqueIndex"`
	Password  string `json:"-" gorm:"size:255"`
	Role      string `json:"role" gorm:"type:varchar(20);default:guest;index"` // pm, concierge, owner, guest, partner
}

// AfterCreate keeps the one-profile-per-user invariant: a profile row is
// created automatically whenever a user row is.
func (u *User) AfterCreate(tx *gorm.DB) error {
	profile := UserProfile{UserID: u.ID, Role: u.Role}
	return tx.Create(&profile).Error
}
