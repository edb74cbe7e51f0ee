package services

import (
	"errors"
	"time"

	"condo-management-server/models"

	"gorm.io/gorm"
)

// BookingInput carries the validated submission fields for a short-term
// booking.
type BookingInput struct {
	UnitID         uint
	GuestFirstName string
	GuestLastName  string
	IDType         string
	IDNumber       string
	IDCountry      string
	IDProvince     string
	VehiclePlate   string
	ParkingSpotID  *uint
	CheckIn        time.Time
	CheckOut       time.Time
	Notes          string
	IDDocumentURL  string
}

// SubmitBooking validates and stores a new pending booking on behalf of the
// actor. Submission requires reviewer privileges or an active grant on the
// unit; check_out must not precede check_in and an attached spot must live
// in the unit's condo.
func SubmitBooking(db *gorm.DB, actorID uint, role models.Role, input BookingInput) (*models.ShortTermBooking, error) {
	allowed, err := CanSubmitBooking(db, actorID, role, input.UnitID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	var unit models.Unit
	if err := db.First(&unit, input.UnitID).Error; err != nil {
		return nil, err
	}

	if input.CheckOut.Before(input.CheckIn) {
		return nil, validationErrorf("check_out must be on or after check_in")
	}

	if input.ParkingSpotID != nil {
		var spot models.ParkingSpot
		if err := db.First(&spot, *input.ParkingSpotID).Error; err != nil {
			return nil, err
		}
		if spot.CondoID != unit.CondoID {
			return nil, validationErrorf("parking spot belongs to a different condo than the unit")
		}
	}

	idType := input.IDType
	if idType == "" {
		idType = models.IDTypeLicense
	}

	booking := models.ShortTermBooking{
		UnitID:         input.UnitID,
		GuestFirstName: input.GuestFirstName,
		GuestLastName:  input.GuestLastName,
		IDType:         idType,
		IDNumber:       input.IDNumber,
		IDCountry:      input.IDCountry,
		IDProvince:     input.IDProvince,
		VehiclePlate:   input.VehiclePlate,
		ParkingSpotID:  input.ParkingSpotID,
		CheckIn:        input.CheckIn,
		CheckOut:       input.CheckOut,
		Status:         models.BookingStatusPending,
		Notes:          input.Notes,
		SubmittedByID:  &actorID,
		IDDocumentURL:  input.IDDocumentURL,
	}
	if err := db.Create(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func review(db *gorm.DB, booking *models.ShortTermBooking, actorID uint, role models.Role, now time.Time, status string) error {
	if !role.CanReview() {
		return ErrForbidden
	}
	if booking.Reviewed() {
		return validationErrorf("only pending bookings can be reviewed")
	}
	booking.Status = status
	booking.ReviewedByID = &actorID
	booking.ReviewedAt = &now
	return db.Model(booking).Select("status", "reviewed_by_id", "reviewed_at").Updates(map[string]interface{}{
		"status":         booking.Status,
		"reviewed_by_id": booking.ReviewedByID,
		"reviewed_at":    booking.ReviewedAt,
	}).Error
}

// ApproveBooking moves a booking to approved with reviewer attribution.
func ApproveBooking(db *gorm.DB, booking *models.ShortTermBooking, actorID uint, role models.Role, now time.Time) error {
	return review(db, booking, actorID, role, now, models.BookingStatusApproved)
}

// RejectBooking moves a booking to rejected with reviewer attribution.
func RejectBooking(db *gorm.DB, booking *models.ShortTermBooking, actorID uint, role models.Role, now time.Time) error {
	return review(db, booking, actorID, role, now, models.BookingStatusRejected)
}

// CancelBooking cancels a still-pending booking. The original submitter or
// a reviewer may cancel; terminal bookings stay where they are.
func CancelBooking(db *gorm.DB, booking *models.ShortTermBooking, actorID uint, role models.Role) error {
	if booking.Status != models.BookingStatusPending {
		return validationErrorf("only pending bookings can be cancelled")
	}
	isSubmitter := booking.SubmittedByID != nil && *booking.SubmittedByID == actorID
	if !isSubmitter && !role.CanReview() {
		return ErrForbidden
	}
	booking.Status = models.BookingStatusCancelled
	return db.Model(booking).Update("status", models.BookingStatusCancelled).Error
}

// UpdatePendingBooking lets the submitter (or a reviewer) edit a booking
// before it is reviewed.
func UpdatePendingBooking(db *gorm.DB, booking *models.ShortTermBooking, actorID uint, role models.Role, input BookingInput) error {
	if booking.Reviewed() {
		return validationErrorf("reviewed bookings can no longer be edited")
	}
	isSubmitter := booking.SubmittedByID != nil && *booking.SubmittedByID == actorID
	if !isSubmitter && !role.CanReview() {
		return ErrForbidden
	}
	if input.CheckOut.Before(input.CheckIn) {
		return validationErrorf("check_out must be on or after check_in")
	}
	if input.ParkingSpotID != nil {
		var unit models.Unit
		if err := db.First(&unit, booking.UnitID).Error; err != nil {
			return err
		}
		var spot models.ParkingSpot
		if err := db.First(&spot, *input.ParkingSpotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationErrorf("parking spot not found")
			}
			return err
		}
		if spot.CondoID != unit.CondoID {
			return validationErrorf("parking spot belongs to a different condo than the unit")
		}
	}

	booking.GuestFirstName = input.GuestFirstName
	booking.GuestLastName = input.GuestLastName
	if input.IDType != "" {
		booking.IDType = input.IDType
	}
	booking.IDNumber = input.IDNumber
	booking.IDCountry = input.IDCountry
	booking.IDProvince = input.IDProvince
	booking.VehiclePlate = input.VehiclePlate
	booking.ParkingSpotID = input.ParkingSpotID
	booking.CheckIn = input.CheckIn
	booking.CheckOut = input.CheckOut
	booking.Notes = input.Notes
	if input.IDDocumentURL != "" {
		booking.IDDocumentURL = input.IDDocumentURL
	}
	return db.Save(booking).Error
}
