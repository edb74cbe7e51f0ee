package models

import (
	"time"

	"gorm.io/gorm"
)

// UnitParkingAssignment links a unit to a parking spot for a period of time.
// A nil EndDate means the assignment is active indefinitely. The composite
// unique index on (unit_id, parking_spot_id) is the natural key the CSV
// import upserts on; without it concurrent imports could race to create
// duplicates.
type UnitParkingAssignment struct {
	gorm.Model
	UnitID        uint        `json:"unitID" gorm:"not null;uniqueIndex:idx_unit_spot"`
	Unit          Unit        `json:"unit" gorm:"foreignKey:UnitID;references:ID"`
	ParkingSpotID uint        `json:"parkingSpotID" gorm:"not null;uniqueIndex:idx_unit_spot"`
	ParkingSpot   ParkingSpot `json:"parkingSpot" gorm:"foreignKey:ParkingSpotID;references:ID"`
	StartDate     time.Time   `json:"startDate" gorm:"type:date;not null"`
	EndDate       *time.Time  `json:"endDate" gorm:"type:date"`
	IsPrimary     bool        `json:"isPrimary" gorm:"default:false"`
}

// ActiveOn reports whether the assignment covers the given day.
func (a *UnitParkingAssignment) ActiveOn(day time.Time) bool {
	if a.StartDate.After(day) {
		return false
	}
	return a.EndDate == nil || !a.EndDate.Before(day)
}
