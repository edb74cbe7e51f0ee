package services

import (
	"testing"
	"time"

	"condo-management-server/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Condo{},
		&models.Unit{},
		&models.ParkingSpot{},
		&models.UnitParkingAssignment{},
		&models.ShortTermBooking{},
		&models.UnitAccess{},
		&models.AuditLog{},
	))
	return db
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func seedCondo(t *testing.T, db *gorm.DB, code string) models.Condo {
	t.Helper()
	condo := models.Condo{Name: "Condo " + code, Code: code, City: "Toronto", Province: "ON"}
	require.NoError(t, db.Create(&condo).Error)
	return condo
}

func seedUnit(t *testing.T, db *gorm.DB, condo models.Condo, number string) models.Unit {
	t.Helper()
	unit := models.Unit{CondoID: condo.ID, UnitNumber: number, Status: models.UnitStatusOwnerOccupied}
	require.NoError(t, db.Create(&unit).Error)
	return unit
}

func seedSpot(t *testing.T, db *gorm.DB, condo models.Condo, code string) models.ParkingSpot {
	t.Helper()
	spot := models.ParkingSpot{CondoID: condo.ID, Code: code, SpotType: models.SpotTypeResident}
	require.NoError(t, db.Create(&spot).Error)
	return spot
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()
	user := models.User{Email: email, Role: string(role)}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedAccess(t *testing.T, db *gorm.DB, user models.User, unit models.Unit, accessType string, active bool) models.UnitAccess {
	t.Helper()
	access := models.UnitAccess{UserID: user.ID, UnitID: unit.ID, AccessType: accessType, Active: true}
	require.NoError(t, db.Create(&access).Error)
	if !active {
		// default:true means false must be written explicitly after create
		require.NoError(t, db.Model(&access).Update("active", false).Error)
		access.Active = false
	}
	return access
}
