package routes

import (
	"condo-management-server/models"
	"condo-management-server/services"
	"condo-management-server/storage"
	"condo-management-server/utils"
	"net/http"
	"time"

	"github.com/kataras/iris/v12"
)

// GET /api/units/:id/parking
// Current and historical assignments for a unit. 403 when the caller has no
// access to the unit.
func UnitParkingLookup(ctx iris.Context) {
	unitID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var unit models.Unit
	if err := storage.DB.Preload("Condo").First(&unit, unitID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "unit not found")
		return
	}

	visible, err := services.UnitVisible(storage.DB, utils.CurrentUserID(ctx), utils.CurrentRole(ctx), unitID)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if !visible {
		utils.CreateForbidden(ctx)
		return
	}

	var assignments []models.UnitParkingAssignment
	if err := storage.DB.Preload("ParkingSpot").
		Where("unit_id = ?", unitID).
		Order("start_date DESC, id DESC").
		Find(&assignments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	results := make([]iris.Map, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		results = append(results, iris.Map{
			"assignmentID": a.ID,
			"unit":         unit.Label(),
			"spotID":       a.ParkingSpotID,
			"spotCode":     a.ParkingSpot.Code,
			"condo":        unit.Condo.Code,
			"startDate":    a.StartDate.Format("2006-01-02"),
			"endDate":      formatLookupDate(a.EndDate),
			"isActive":     a.EndDate == nil,
			"isPrimary":    a.IsPrimary,
		})
	}
	ctx.JSON(iris.Map{"unit": unit.Label(), "count": len(results), "results": results})
}

// GET /api/spots/:id/unit
// The currently assigned unit (if any) plus full history for a spot. Scoped
// like the unit lookup: 403 unless the caller can see at least one of the
// spot's assigned units.
func SpotUnitLookup(ctx iris.Context) {
	spotID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var spot models.ParkingSpot
	if err := storage.DB.Preload("Condo").First(&spot, spotID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "parking spot not found")
		return
	}

	var assignments []models.UnitParkingAssignment
	if err := storage.DB.Preload("Unit.Condo").
		Where("parking_spot_id = ?", spotID).
		Order("start_date DESC, id DESC").
		Find(&assignments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	role := utils.CurrentRole(ctx)
	if !role.SeesAllUnits() {
		userID := utils.CurrentUserID(ctx)
		visible := false
		for i := range assignments {
			ok, err := services.UnitVisible(storage.DB, userID, role, assignments[i].UnitID)
			if err != nil {
				utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
				return
			}
			if ok {
				visible = true
				break
			}
		}
		if !visible {
			utils.CreateForbidden(ctx)
			return
		}
	}

	var currentUnit iris.Map
	history := make([]iris.Map, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		history = append(history, iris.Map{
			"assignmentID": a.ID,
			"unitID":       a.UnitID,
			"unit":         a.Unit.Label(),
			"condo":        a.Unit.Condo.Code,
			"startDate":    a.StartDate.Format("2006-01-02"),
			"endDate":      formatLookupDate(a.EndDate),
			"isActive":     a.EndDate == nil,
			"isPrimary":    a.IsPrimary,
		})
		if a.EndDate == nil && currentUnit == nil {
			currentUnit = iris.Map{"unitID": a.UnitID, "unit": a.Unit.Label()}
		}
	}

	ctx.JSON(iris.Map{
		"spot":         spot.Label(),
		"currentUnit":  currentUnit,
		"historyCount": len(history),
		"history":      history,
	})
}

func formatLookupDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
