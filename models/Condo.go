package models

import "gorm.io/gorm"

// Condo is the root scoping entity; every unit and parking spot belongs to
// exactly one condo.
type Condo struct {
	gorm.Model
	Name     string `json:"name" gorm:"size:200;not null"`
	Code     string `json:"code" gorm:"size:50;uniqueIndex;not null"` // short identifier, e.g. MAPLE01
	Address  string `json:"address" gorm:"size:255"`
	City     string `json:"city" gorm:"size:120"`
	Province string `json:"province" gorm:"size:120"`
}
