package services

import (
	"testing"

	"condo-management-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitInput(unit models.Unit, checkIn, checkOut string, t *testing.T) BookingInput {
	t.Helper()
	return BookingInput{
		UnitID:         unit.ID,
		GuestFirstName: "Jamie",
		GuestLastName:  "Doe",
		IDNumber:       "D1234-56789",
		IDCountry:      "Canada",
		IDProvince:     "ON",
		VehiclePlate:   "CKXR 391",
		CheckIn:        date(t, checkIn),
		CheckOut:       date(t, checkOut),
	}
}

func TestSubmitBookingRequiresAccess(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	unit := seedUnit(t, db, condo, "101")
	guest := seedUser(t, db, "guest@example.com", models.RoleGuest)

	_, err := SubmitBooking(db, guest.ID, models.RoleGuest, submitInput(unit, "2025-05-01", "2025-05-03", t))
	assert.ErrorIs(t, err, ErrForbidden)

	seedAccess(t, db, guest, unit, models.AccessTypeGuestSubmitter, true)
	booking, err := SubmitBooking(db, guest.ID, models.RoleGuest, submitInput(unit, "2025-05-01", "2025-05-03", t))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, models.IDTypeLicense, booking.IDType, "id type defaults to license")
	require.NotNil(t, booking.SubmittedByID)
	assert.Equal(t, guest.ID, *booking.SubmittedByID)
	assert.Nil(t, booking.ReviewedByID)
}

func TestSubmitBookingValidation(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	otherCondo := seedCondo(t, db, "C2")
	unit := seedUnit(t, db, condo, "101")
	foreignSpot := seedSpot(t, db, otherCondo, "S9")
	pm := seedUser(t, db, "pm@example.com", models.RolePropertyManager)

	_, err := SubmitBooking(db, pm.ID, models.RolePropertyManager, submitInput(unit, "2025-05-03", "2025-05-01", t))
	assert.True(t, IsValidation(err), "check_out before check_in must be rejected")

	input := submitInput(unit, "2025-05-01", "2025-05-03", t)
	input.ParkingSpotID = &foreignSpot.ID
	_, err = SubmitBooking(db, pm.ID, models.RolePropertyManager, input)
	assert.True(t, IsValidation(err), "spot must belong to the unit's condo")

	// same-day stays are allowed
	_, err = SubmitBooking(db, pm.ID, models.RolePropertyManager, submitInput(unit, "2025-05-01", "2025-05-01", t))
	assert.NoError(t, err)
}

func TestApproveAndRejectAttribution(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	unit := seedUnit(t, db, condo, "101")
	concierge := seedUser(t, db, "desk@example.com", models.RoleConcierge)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	seedAccess(t, db, owner, unit, models.AccessTypeOwner, true)

	booking, err := SubmitBooking(db, owner.ID, models.RoleOwner, submitInput(unit, "2025-05-01", "2025-05-03", t))
	require.NoError(t, err)

	err = ApproveBooking(db, booking, owner.ID, models.RoleOwner, date(t, "2025-04-20"))
	assert.ErrorIs(t, err, ErrForbidden, "owners cannot review")

	now := date(t, "2025-04-20")
	require.NoError(t, ApproveBooking(db, booking, concierge.ID, models.RoleConcierge, now))

	var reloaded models.ShortTermBooking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusApproved, reloaded.Status)
	require.NotNil(t, reloaded.ReviewedByID)
	assert.Equal(t, concierge.ID, *reloaded.ReviewedByID)
	require.NotNil(t, reloaded.ReviewedAt)
	assert.True(t, reloaded.Reviewed())

	rejected, err := SubmitBooking(db, owner.ID, models.RoleOwner, submitInput(unit, "2025-06-01", "2025-06-02", t))
	require.NoError(t, err)
	require.NoError(t, RejectBooking(db, rejected, concierge.ID, models.RoleConcierge, now))
	require.NoError(t, db.First(&reloaded, rejected.ID).Error)
	assert.Equal(t, models.BookingStatusRejected, reloaded.Status)
}

func TestReviewIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	unit := seedUnit(t, db, condo, "101")
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	concierge := seedUser(t, db, "desk@example.com", models.RoleConcierge)
	seedAccess(t, db, owner, unit, models.AccessTypeOwner, true)
	now := date(t, "2025-04-20")

	cancelled, err := SubmitBooking(db, owner.ID, models.RoleOwner, submitInput(unit, "2025-05-01", "2025-05-03", t))
	require.NoError(t, err)
	require.NoError(t, CancelBooking(db, cancelled, owner.ID, models.RoleOwner))

	err = ApproveBooking(db, cancelled, concierge.ID, models.RoleConcierge, now)
	assert.True(t, IsValidation(err), "cancelled bookings cannot be approved")

	var reloaded models.ShortTermBooking
	require.NoError(t, db.First(&reloaded, cancelled.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, reloaded.Status)

	approved, err := SubmitBooking(db, owner.ID, models.RoleOwner, submitInput(unit, "2025-06-01", "2025-06-02", t))
	require.NoError(t, err)
	require.NoError(t, ApproveBooking(db, approved, concierge.ID, models.RoleConcierge, now))
	err = RejectBooking(db, approved, concierge.ID, models.RoleConcierge, now)
	assert.True(t, IsValidation(err), "approved bookings cannot be flipped to rejected")
}

func TestCancelBooking(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	unit := seedUnit(t, db, condo, "101")
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	stranger := seedUser(t, db, "other@example.com", models.RoleOwner)
	concierge := seedUser(t, db, "desk@example.com", models.RoleConcierge)
	seedAccess(t, db, owner, unit, models.AccessTypeOwner, true)

	booking, err := SubmitBooking(db, owner.ID, models.RoleOwner, submitInput(unit, "2025-05-01", "2025-05-03", t))
	require.NoError(t, err)

	err = CancelBooking(db, booking, stranger.ID, models.RoleOwner)
	assert.ErrorIs(t, err, ErrForbidden, "only the submitter or a reviewer may cancel")

	require.NoError(t, CancelBooking(db, booking, owner.ID, models.RoleOwner))
	var reloaded models.ShortTermBooking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, reloaded.Status)

	// terminal bookings stay put
	err = CancelBooking(db, &reloaded, concierge.ID, models.RoleConcierge)
	assert.True(t, IsValidation(err))
}

func TestUpdatePendingBooking(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	unit := seedUnit(t, db, condo, "101")
	spot := seedSpot(t, db, condo, "S1")
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	concierge := seedUser(t, db, "desk@example.com", models.RoleConcierge)
	seedAccess(t, db, owner, unit, models.AccessTypeOwner, true)

	booking, err := SubmitBooking(db, owner.ID, models.RoleOwner, submitInput(unit, "2025-05-01", "2025-05-03", t))
	require.NoError(t, err)

	edit := submitInput(unit, "2025-05-02", "2025-05-04", t)
	edit.ParkingSpotID = &spot.ID
	edit.VehiclePlate = "NEW 123"
	require.NoError(t, UpdatePendingBooking(db, booking, owner.ID, models.RoleOwner, edit))

	var reloaded models.ShortTermBooking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, "NEW 123", reloaded.VehiclePlate)
	require.NotNil(t, reloaded.ParkingSpotID)
	assert.Equal(t, spot.ID, *reloaded.ParkingSpotID)

	require.NoError(t, ApproveBooking(db, &reloaded, concierge.ID, models.RoleConcierge, date(t, "2025-04-20")))
	err = UpdatePendingBooking(db, &reloaded, owner.ID, models.RoleOwner, edit)
	assert.True(t, IsValidation(err), "reviewed bookings are frozen")
}
