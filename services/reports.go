package services

import (
	"strconv"
	"strings"
	"time"

	"condo-management-server/models"

	"gorm.io/gorm"
)

const defaultCheckpointWindowDays = 7

// ParseWindow turns a "7d" or "7" query value into a day count, falling
// back to the default window on anything unparseable.
func ParseWindow(param string) int {
	if param == "" {
		return defaultCheckpointWindowDays
	}
	param = strings.TrimSuffix(param, "d")
	days, err := strconv.Atoi(param)
	if err != nil || days < 0 {
		return defaultCheckpointWindowDays
	}
	return days
}

// AvailableSpots lists the condo's spots with neither an assignment nor a
// booking covering the given day, ordered by spot code. The day is supplied
// by the caller so reports stay deterministic under test.
func AvailableSpots(db *gorm.DB, condoID uint, day time.Time) ([]models.ParkingSpot, error) {
	var spots []models.ParkingSpot

	assigned := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.UnitParkingAssignment{}).
		Select("parking_spot_id").
		Where("start_date <= ? AND (end_date IS NULL OR end_date >= ?)", day, day)

	booked := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ShortTermBooking{}).
		Select("parking_spot_id").
		Where("parking_spot_id IS NOT NULL AND check_in <= ? AND check_out >= ?", day, day)

	err := db.Where("condo_id = ?", condoID).
		Where("id NOT IN (?)", assigned).
		Where("id NOT IN (?)", booked).
		Order("code").
		Find(&spots).Error
	return spots, err
}

// UpcomingCheckpoints returns bookings checking in between today and
// today+windowDays, ordered by check-in then unit number.
func UpcomingCheckpoints(db *gorm.DB, today time.Time, windowDays int) ([]models.ShortTermBooking, error) {
	end := today.AddDate(0, 0, windowDays)
	var bookings []models.ShortTermBooking
	err := db.Preload("Unit.Condo").Preload("ParkingSpot").
		Joins("JOIN units ON units.id = short_term_bookings.unit_id").
		Where("short_term_bookings.check_in >= ? AND short_term_bookings.check_in <= ?", today, end).
		Order("short_term_bookings.check_in, units.unit_number").
		Find(&bookings).Error
	return bookings, err
}

// UnitBookings returns all bookings for a unit, newest check-in first,
// optionally filtered by status.
func UnitBookings(db *gorm.DB, unitID uint, status string) ([]models.ShortTermBooking, error) {
	query := db.Preload("Unit.Condo").Preload("ParkingSpot").
		Where("unit_id = ?", unitID).
		Order("check_in DESC, created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var bookings []models.ShortTermBooking
	err := query.Find(&bookings).Error
	return bookings, err
}
