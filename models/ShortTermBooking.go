package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking lifecycle statuses. pending may move to approved, rejected or
// cancelled; all three are terminal.
const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
)

// Guest ID document types.
const (
	IDTypeLicense  = "LICENSE"
	IDTypePassport = "PASSPORT"
	IDTypeOther    = "OTHER"
)

type ShortTermBooking struct {
	gorm.Model
	UnitID uint `json:"unitID" gorm:"index;not null"`
	Unit   Unit `json:"unit" gorm:"foreignKey:UnitID;references:ID"`

	GuestFirstName string `json:"guestFirstName" gorm:"size:120;not null"`
	GuestLastName  string `json:"guestLastName" gorm:"size:120;not null"`
	IDType         string `json:"idType" gorm:"size:16;default:LICENSE"`
	IDNumber       string `json:"idNumber" gorm:"size:120"`
	IDCountry      string `json:"idCountry" gorm:"size:120"`
	IDProvince     string `json:"idProvinceState" gorm:"size:120;column:id_province_state"`

	VehiclePlate  string       `json:"vehiclePlate" gorm:"size:50"`
	ParkingSpotID *uint        `json:"parkingSpotID" gorm:"index"`
	ParkingSpot   *ParkingSpot `json:"parkingSpot" gorm:"foreignKey:ParkingSpotID;references:ID"`

	CheckIn  time.Time `json:"checkIn" gorm:"type:date;not null;index"`
	CheckOut time.Time `json:"checkOut" gorm:"type:date;not null"`

	Status string `json:"status" gorm:"size:16;default:pending;index"`
	Notes  string `json:"notes" gorm:"type:text"`

	SubmittedByID *uint      `json:"submittedByID" gorm:"index"`
	ReviewedByID  *uint      `json:"reviewedByID"`
	ReviewedAt    *time.Time `json:"reviewedAt"`

	// URL of the uploaded guest ID image/PDF, empty when none was provided.
	IDDocumentURL string `json:"idDocumentURL" gorm:"size:512"`
}

// Reviewed reports whether the booking reached a terminal state.
func (b *ShortTermBooking) Reviewed() bool {
	return b.Status != BookingStatusPending
}
