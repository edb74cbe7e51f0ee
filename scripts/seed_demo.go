package main

import (
	"condo-management-server/models"
	"condo-management-server/storage"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeds demo data: users with roles, a condo with units and parking, access
// grants and a sample pending booking. Safe to re-run.
func main() {
	db := storage.InitializeDB()

	if err := db.Transaction(seed); err != nil {
		log.Fatalf("Error seeding demo data: %v", err)
	}
	fmt.Println("Demo data seeded successfully!")
}

func seed(tx *gorm.DB) error {
	users := []models.User{
		{FirstName: "Paula", LastName: "Manager", Email: "pm@example.com", Role: string(models.RolePropertyManager)},
		{FirstName: "Carl", LastName: "Concierge", Email: "concierge@example.com", Role: string(models.RoleConcierge)},
		{FirstName: "Oscar", LastName: "Owner", Email: "owner@example.com", Role: string(models.RoleOwner)},
		{FirstName: "Ada", LastName: "Agent", Email: "agent@example.com", Role: string(models.RolePartner)},
	}
	for i := range users {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&users[i]).Error; err != nil {
			return err
		}
	}
	var owner, agent models.User
	if err := tx.Where("email = ?", "owner@example.com").First(&owner).Error; err != nil {
		return err
	}
	if err := tx.Where("email = ?", "agent@example.com").First(&agent).Error; err != nil {
		return err
	}

	condo := models.Condo{Name: "Maplewood Towers", Code: "MAPLE01", Address: "100 Maple Ave", City: "Toronto", Province: "ON"}
	if err := tx.Where(models.Condo{Code: condo.Code}).FirstOrCreate(&condo).Error; err != nil {
		return err
	}

	unitNumbers := []string{"101", "102", "201"}
	units := make([]models.Unit, 0, len(unitNumbers))
	for _, n := range unitNumbers {
		unit := models.Unit{CondoID: condo.ID, UnitNumber: n, Status: models.UnitStatusOwnerOccupied}
		if err := tx.Where(models.Unit{CondoID: condo.ID, UnitNumber: n}).FirstOrCreate(&unit).Error; err != nil {
			return err
		}
		units = append(units, unit)
	}

	spotCodes := []string{"P1-001", "P1-002", "P2-001"}
	spots := make([]models.ParkingSpot, 0, len(spotCodes))
	for _, c := range spotCodes {
		spot := models.ParkingSpot{CondoID: condo.ID, Code: c, Level: c[:2], SpotType: models.SpotTypeResident}
		if err := tx.Where(models.ParkingSpot{CondoID: condo.ID, Code: c}).FirstOrCreate(&spot).Error; err != nil {
			return err
		}
		spots = append(spots, spot)
	}

	grants := []models.UnitAccess{
		{UserID: owner.ID, UnitID: units[0].ID, AccessType: models.AccessTypeOwner, Active: true},
		{UserID: agent.ID, UnitID: units[0].ID, AccessType: models.AccessTypeRentalManager, Active: true},
	}
	for i := range grants {
		g := grants[i]
		if err := tx.Where(models.UnitAccess{UserID: g.UserID, UnitID: g.UnitID, AccessType: g.AccessType}).
			FirstOrCreate(&grants[i]).Error; err != nil {
			return err
		}
	}

	assignment := models.UnitParkingAssignment{
		UnitID:        units[0].ID,
		ParkingSpotID: spots[0].ID,
		StartDate:     time.Now().AddDate(0, -1, 0),
		IsPrimary:     true,
	}
	if err := tx.Where(models.UnitParkingAssignment{UnitID: assignment.UnitID, ParkingSpotID: assignment.ParkingSpotID}).
		FirstOrCreate(&assignment).Error; err != nil {
		return err
	}

	var existing int64
	tx.Model(&models.ShortTermBooking{}).Where("unit_id = ?", units[0].ID).Count(&existing)
	if existing == 0 {
		booking := models.ShortTermBooking{
			UnitID:         units[0].ID,
			GuestFirstName: "Grace",
			GuestLastName:  "Guest",
			IDType:         models.IDTypeLicense,
			VehiclePlate:   "DEMO123",
			CheckIn:        time.Now().AddDate(0, 0, 3),
			CheckOut:       time.Now().AddDate(0, 0, 6),
			Status:         models.BookingStatusPending,
			SubmittedByID:  &agent.ID,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
	}
	return nil
}
