package models

import "gorm.io/gorm"

const (
	SpotTypeResident = "RESIDENT"
	SpotTypeVisitor  = "VISITOR"
)

type ParkingSpot struct {
	gorm.Model
	CondoID  uint   `json:"condoID" gorm:"not null;uniqueIndex:idx_condo_spot"`
	Condo    Condo  `json:"condo" gorm:"foreignKey:CondoID;references:ID"`
	Code     string `json:"code" gorm:"size:50;not null;uniqueIndex:idx_condo_spot"` // e.g. P1-123
	Level    string `json:"level" gorm:"size:50"`
	SpotType string `json:"spotType" gorm:"size:16;default:RESIDENT"`
}

func (s *ParkingSpot) Label() string {
	return s.Condo.Code + "-" + s.Code
}
