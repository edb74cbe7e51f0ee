package models

import "gorm.io/gorm"

// Unit occupancy statuses.
const (
	UnitStatusOwnerOccupied = "OWNER_OCCUPIED"
	UnitStatusTenant        = "TENANT"
	UnitStatusVacant        = "VACANT"
)

type Unit struct {
	gorm.Model
	CondoID    uint   `json:"condoID" gorm:"not null;uniqueIndex:idx_condo_unit"`
	Condo      Condo  `json:"condo" gorm:"foreignKey:CondoID;references:ID"`
	UnitNumber string `json:"unitNumber" gorm:"size:50;not null;uniqueIndex:idx_condo_unit"`
	OwnerName  string `json:"ownerName" gorm:"size:200"`
	OwnerEmail string `json:"ownerEmail" gorm:"size:254"`
	Status     string `json:"status" gorm:"size:32;default:OWNER_OCCUPIED"`
}

// Label renders the business identifier used in lookups and CSV errors,
// e.g. "MAPLE01-1204".
func (u *Unit) Label() string {
	return u.Condo.Code + "-" + u.UnitNumber
}
