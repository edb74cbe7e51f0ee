package routes

import (
	"condo-management-server/models"
	"condo-management-server/storage"
	"condo-management-server/utils"
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"
)

type ParkingSpotInput struct {
	CondoID  uint   `json:"condoID" validate:"required"`
	Code     string `json:"code" validate:"required,max=50"`
	Level    string `json:"level"`
	SpotType string `json:"spotType" validate:"omitempty,oneof=RESIDENT VISITOR"`
}

// GET /api/parking-spots?condo_id=&spot_type=&level=&code=&page=&per_page=
func ListParkingSpots(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.ParkingSpot{})
	if condoID := ctx.URLParamIntDefault("condo_id", 0); condoID > 0 {
		query = query.Where("condo_id = ?", condoID)
	}
	if spotType := strings.TrimSpace(ctx.URLParamDefault("spot_type", "")); spotType != "" {
		query = query.Where("spot_type = ?", spotType)
	}
	if level := strings.TrimSpace(ctx.URLParamDefault("level", "")); level != "" {
		query = query.Where("level = ?", level)
	}
	if code := strings.TrimSpace(ctx.URLParamDefault("code", "")); code != "" {
		query = query.Where("code = ?", code)
	}

	var total int64
	query.Count(&total)

	var spots []models.ParkingSpot
	if err := query.Preload("Condo").Order("code").
		Offset((page - 1) * perPage).Limit(perPage).Find(&spots).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, spots, page, perPage, total)
}

// GET /api/parking-spots/:id
func GetParkingSpot(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var spot models.ParkingSpot
	if err := storage.DB.Preload("Condo").First(&spot, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	utils.JSONData(ctx, spot)
}

// POST /api/parking-spots — PM only
func CreateParkingSpot(ctx iris.Context) {
	var input ParkingSpotInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var condo models.Condo
	if err := storage.DB.First(&condo, input.CondoID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "condo not found")
		return
	}

	spotType := input.SpotType
	if spotType == "" {
		spotType = models.SpotTypeResident
	}
	spot := models.ParkingSpot{
		CondoID:  input.CondoID,
		Code:     input.Code,
		Level:    input.Level,
		SpotType: spotType,
	}
	if err := storage.DB.Create(&spot).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "create_failed", err.Error())
		return
	}
	utils.Audit(ctx, "parking_spot.create", "parking_spot", spot.ID, nil, spot)
	ctx.StatusCode(http.StatusCreated)
	utils.JSONData(ctx, spot)
}

// PATCH /api/parking-spots/:id — PM only
func UpdateParkingSpot(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var spot models.ParkingSpot
	if err := storage.DB.First(&spot, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input ParkingSpotInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := spot
	spot.CondoID = input.CondoID
	spot.Code = input.Code
	spot.Level = input.Level
	if input.SpotType != "" {
		spot.SpotType = input.SpotType
	}
	if err := storage.DB.Save(&spot).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "update_failed", err.Error())
		return
	}
	utils.Audit(ctx, "parking_spot.update", "parking_spot", spot.ID, before, spot)
	utils.JSONData(ctx, spot)
}

// DELETE /api/parking-spots/:id — PM only
func DeleteParkingSpot(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var spot models.ParkingSpot
	if err := storage.DB.First(&spot, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if err := storage.DB.Delete(&spot).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "parking_spot.delete", "parking_spot", spot.ID, spot, nil)
	ctx.StatusCode(http.StatusNoContent)
}
