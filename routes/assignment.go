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

type AssignmentInput struct {
	UnitID        uint   `json:"unitID" validate:"required"`
	ParkingSpotID uint   `json:"parkingSpotID" validate:"required"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	IsPrimary     bool   `json:"isPrimary"`
}

// parseAssignmentDates validates the optional YYYY-MM-DD fields, defaulting
// the start to today.
func parseAssignmentDates(input AssignmentInput) (time.Time, *time.Time, string) {
	start := time.Now().Truncate(24 * time.Hour)
	if input.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", input.StartDate)
		if err != nil {
			return start, nil, "startDate must be YYYY-MM-DD"
		}
		start = parsed
	}
	var end *time.Time
	if input.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", input.EndDate)
		if err != nil {
			return start, nil, "endDate must be YYYY-MM-DD"
		}
		end = &parsed
	}
	if end != nil && end.Before(start) {
		return start, end, "endDate must be on or after startDate"
	}
	return start, end, ""
}

// GET /api/unit-parking-assignments?unit_id=&parking_spot_id=&is_primary=&page=&per_page=
// Scoped: non-PM callers only see assignments on their accessible units.
func ListAssignments(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	userID := utils.CurrentUserID(ctx)
	role := utils.CurrentRole(ctx)

	query := storage.DB.Model(&models.UnitParkingAssignment{})
	if !role.SeesAllUnits() {
		query = query.Where("unit_id IN (?)",
			storage.DB.Model(&models.UnitAccess{}).
				Select("unit_id").
				Where("user_id = ? AND active = ?", userID, true))
	}
	if unitID := ctx.URLParamIntDefault("unit_id", 0); unitID > 0 {
		query = query.Where("unit_id = ?", unitID)
	}
	if spotID := ctx.URLParamIntDefault("parking_spot_id", 0); spotID > 0 {
		query = query.Where("parking_spot_id = ?", spotID)
	}
	if isPrimary := ctx.URLParamDefault("is_primary", ""); isPrimary != "" {
		query = query.Where("is_primary = ?", isPrimary == "1" || isPrimary == "true")
	}

	var total int64
	query.Count(&total)

	var assignments []models.UnitParkingAssignment
	if err := query.Preload("Unit.Condo").Preload("ParkingSpot").
		Order("start_date DESC, created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&assignments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, assignments, page, perPage, total)
}

// GET /api/unit-parking-assignments/:id
func GetAssignment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var assignment models.UnitParkingAssignment
	if err := storage.DB.Preload("Unit.Condo").Preload("ParkingSpot").First(&assignment, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	visible, err := services.UnitVisible(storage.DB, utils.CurrentUserID(ctx), utils.CurrentRole(ctx), assignment.UnitID)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if !visible {
		utils.CreateForbidden(ctx)
		return
	}
	utils.JSONData(ctx, assignment)
}

// POST /api/unit-parking-assignments — PM only
func CreateAssignment(ctx iris.Context) {
	var input AssignmentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, input.UnitID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "unit not found")
		return
	}
	var spot models.ParkingSpot
	if err := storage.DB.First(&spot, input.ParkingSpotID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "parking spot not found")
		return
	}
	if unit.CondoID != spot.CondoID {
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", "unit and parking spot belong to different condos")
		return
	}

	start, end, msg := parseAssignmentDates(input)
	if msg != "" {
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", msg)
		return
	}

	assignment := models.UnitParkingAssignment{
		UnitID:        input.UnitID,
		ParkingSpotID: input.ParkingSpotID,
		StartDate:     start,
		EndDate:       end,
		IsPrimary:     input.IsPrimary,
	}
	if err := storage.DB.Create(&assignment).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "create_failed", err.Error())
		return
	}
	utils.Audit(ctx, "assignment.create", "unit_parking_assignment", assignment.ID, nil, assignment)
	ctx.StatusCode(http.StatusCreated)
	utils.JSONData(ctx, assignment)
}

// PATCH /api/unit-parking-assignments/:id — PM only
func UpdateAssignment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var assignment models.UnitParkingAssignment
	if err := storage.DB.First(&assignment, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input AssignmentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, input.UnitID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "unit not found")
		return
	}
	var spot models.ParkingSpot
	if err := storage.DB.First(&spot, input.ParkingSpotID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "parking spot not found")
		return
	}
	if unit.CondoID != spot.CondoID {
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", "unit and parking spot belong to different condos")
		return
	}

	start, end, msg := parseAssignmentDates(input)
	if msg != "" {
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", msg)
		return
	}

	before := assignment
	assignment.UnitID = input.UnitID
	assignment.ParkingSpotID = input.ParkingSpotID
	assignment.StartDate = start
	assignment.EndDate = end
	assignment.IsPrimary = input.IsPrimary
	if err := storage.DB.Save(&assignment).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "update_failed", err.Error())
		return
	}
	utils.Audit(ctx, "assignment.update", "unit_parking_assignment", assignment.ID, before, assignment)
	utils.JSONData(ctx, assignment)
}

// DELETE /api/unit-parking-assignments/:id — PM only
func DeleteAssignment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var assignment models.UnitParkingAssignment
	if err := storage.DB.First(&assignment, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if err := storage.DB.Delete(&assignment).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "assignment.delete", "unit_parking_assignment", assignment.ID, assignment, nil)
	ctx.StatusCode(http.StatusNoContent)
}
