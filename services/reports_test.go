package services

import (
	"testing"

	"condo-management-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableSpotsSubtractsAssignmentsAndBookings(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	otherCondo := seedCondo(t, db, "C2")
	unit := seedUnit(t, db, condo, "101")

	free := seedSpot(t, db, condo, "S1")
	assignedSpot := seedSpot(t, db, condo, "S2")
	bookedSpot := seedSpot(t, db, condo, "S3")
	expiredSpot := seedSpot(t, db, condo, "S4")
	seedSpot(t, db, otherCondo, "S5") // other condo, never reported

	end := date(t, "2025-02-28")
	require.NoError(t, db.Create(&models.UnitParkingAssignment{
		UnitID: unit.ID, ParkingSpotID: assignedSpot.ID, StartDate: date(t, "2025-01-01"),
	}).Error)
	require.NoError(t, db.Create(&models.UnitParkingAssignment{
		UnitID: unit.ID, ParkingSpotID: expiredSpot.ID,
		StartDate: date(t, "2025-01-01"), EndDate: &end,
	}).Error)
	require.NoError(t, db.Create(&models.ShortTermBooking{
		UnitID: unit.ID, GuestFirstName: "A", GuestLastName: "B",
		ParkingSpotID: &bookedSpot.ID,
		CheckIn:       date(t, "2025-04-30"), CheckOut: date(t, "2025-05-02"),
		Status: models.BookingStatusApproved,
	}).Error)
	// booking without a spot must not poison the NOT IN subquery
	require.NoError(t, db.Create(&models.ShortTermBooking{
		UnitID: unit.ID, GuestFirstName: "C", GuestLastName: "D",
		CheckIn: date(t, "2025-04-30"), CheckOut: date(t, "2025-05-02"),
		Status: models.BookingStatusPending,
	}).Error)

	spots, err := AvailableSpots(db, condo.ID, date(t, "2025-05-01"))
	require.NoError(t, err)
	codes := make([]string, len(spots))
	for i, s := range spots {
		codes[i] = s.Code
	}
	assert.Equal(t, []string{free.Code, expiredSpot.Code}, codes)

	// a day past the booking frees the booked spot
	spots, err = AvailableSpots(db, condo.ID, date(t, "2025-05-03"))
	require.NoError(t, err)
	assert.Len(t, spots, 3)
}

func TestUpcomingCheckpointsWindowAndOrder(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	u101 := seedUnit(t, db, condo, "101")
	u102 := seedUnit(t, db, condo, "102")

	mk := func(unit models.Unit, checkIn string) {
		require.NoError(t, db.Create(&models.ShortTermBooking{
			UnitID: unit.ID, GuestFirstName: "G", GuestLastName: "H",
			CheckIn: date(t, checkIn), CheckOut: date(t, checkIn).AddDate(0, 0, 2),
			Status: models.BookingStatusApproved,
		}).Error)
	}
	mk(u102, "2025-05-02")
	mk(u101, "2025-05-02")
	mk(u101, "2025-05-05")
	mk(u101, "2025-04-30") // before the window
	mk(u101, "2025-05-20") // past the window

	bookings, err := UpcomingCheckpoints(db, date(t, "2025-05-01"), 7)
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, u101.ID, bookings[0].UnitID, "same-day check-ins order by unit number")
	assert.Equal(t, u102.ID, bookings[1].UnitID)
	assert.True(t, sameDate(bookings[2].CheckIn, date(t, "2025-05-05")))
}

func TestUnitBookingsFilterAndOrder(t *testing.T) {
	db := setupTestDB(t)
	condo := seedCondo(t, db, "C1")
	unit := seedUnit(t, db, condo, "101")
	other := seedUnit(t, db, condo, "102")

	mk := func(unitID uint, checkIn, status string) {
		require.NoError(t, db.Create(&models.ShortTermBooking{
			UnitID: unitID, GuestFirstName: "G", GuestLastName: "H",
			CheckIn: date(t, checkIn), CheckOut: date(t, checkIn).AddDate(0, 0, 1),
			Status: status,
		}).Error)
	}
	mk(unit.ID, "2025-05-01", models.BookingStatusApproved)
	mk(unit.ID, "2025-06-01", models.BookingStatusPending)
	mk(unit.ID, "2025-04-01", models.BookingStatusRejected)
	mk(other.ID, "2025-05-01", models.BookingStatusApproved)

	all, err := UnitBookings(db, unit.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, sameDate(all[0].CheckIn, date(t, "2025-06-01")), "newest check-in first")

	pending, err := UnitBookings(db, unit.ID, models.BookingStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.BookingStatusPending, pending[0].Status)
}
