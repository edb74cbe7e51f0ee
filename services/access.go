package services

import (
	"condo-management-server/models"

	"gorm.io/gorm"
)

// Access resolution: pure reads over UnitAccess. Property managers see every
// unit; everyone else only units with an active grant, whatever its access
// type. Inactive grants count for nothing.

// VisibleUnitIDs returns the ids of all units the user may see.
func VisibleUnitIDs(db *gorm.DB, userID uint, role models.Role) ([]uint, error) {
	var ids []uint
	if role.SeesAllUnits() {
		err := db.Model(&models.Unit{}).Pluck("id", &ids).Error
		return ids, err
	}
	err := db.Model(&models.UnitAccess{}).
		Where("user_id = ? AND active = ?", userID, true).
		Pluck("unit_id", &ids).Error
	return ids, err
}

// UnitVisible reports whether the user may see the given unit.
func UnitVisible(db *gorm.DB, userID uint, role models.Role, unitID uint) (bool, error) {
	if role.SeesAllUnits() {
		return true, nil
	}
	var count int64
	err := db.Model(&models.UnitAccess{}).
		Where("user_id = ? AND unit_id = ? AND active = ?", userID, unitID, true).
		Count(&count).Error
	return count > 0, err
}

// VisibleUnitsScope narrows a units query to what the user may see.
func VisibleUnitsScope(db *gorm.DB, userID uint, role models.Role) *gorm.DB {
	if role.SeesAllUnits() {
		return db
	}
	return db.Where("units.id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Model(&models.UnitAccess{}).
			Select("unit_id").
			Where("user_id = ? AND active = ?", userID, true))
}

// VisibleBookingsScope narrows a bookings query: reviewers see everything,
// everyone else only bookings on their visible units.
func VisibleBookingsScope(db *gorm.DB, userID uint, role models.Role) *gorm.DB {
	if role.SeesAllBookings() {
		return db
	}
	return db.Where("short_term_bookings.unit_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Model(&models.UnitAccess{}).
			Select("unit_id").
			Where("user_id = ? AND active = ?", userID, true))
}

// CanSubmitBooking reports whether the user may submit a booking for the
// unit: reviewers always can, others need an active grant on that unit.
func CanSubmitBooking(db *gorm.DB, userID uint, role models.Role, unitID uint) (bool, error) {
	if role.CanReview() {
		return true, nil
	}
	return UnitVisible(db, userID, role, unitID)
}
