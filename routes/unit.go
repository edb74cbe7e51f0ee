package routes

import (
	"condo-management-server/models"
	"condo-management-server/services"
	"condo-management-server/storage"
	"condo-management-server/utils"
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"
)

type UnitInput struct {
	CondoID    uint   `json:"condoID" validate:"required"`
	UnitNumber string `json:"unitNumber" validate:"required,max=50"`
	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail" validate:"omitempty,email"`
	Status     string `json:"status" validate:"omitempty,oneof=OWNER_OCCUPIED TENANT VACANT"`
}

// GET /api/units?condo_id=&status=&unit_number=&page=&per_page=
// List is scoped: PMs see everything, everyone else only units they hold an
// active access grant on.
func ListUnits(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := services.VisibleUnitsScope(
		storage.DB.Model(&models.Unit{}),
		utils.CurrentUserID(ctx), utils.CurrentRole(ctx),
	)
	if condoID := ctx.URLParamIntDefault("condo_id", 0); condoID > 0 {
		query = query.Where("condo_id = ?", condoID)
	}
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}
	if number := strings.TrimSpace(ctx.URLParamDefault("unit_number", "")); number != "" {
		query = query.Where("unit_number = ?", number)
	}

	var total int64
	query.Count(&total)

	var units []models.Unit
	if err := query.Preload("Condo").Order("unit_number").
		Offset((page - 1) * perPage).Limit(perPage).Find(&units).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, units, page, perPage, total)
}

// GET /api/units/:id
func GetUnit(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var unit models.Unit
	if err := storage.DB.Preload("Condo").First(&unit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	visible, err := services.UnitVisible(storage.DB, utils.CurrentUserID(ctx), utils.CurrentRole(ctx), id)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if !visible {
		utils.CreateForbidden(ctx)
		return
	}
	utils.JSONData(ctx, unit)
}

// POST /api/units — PM only
func CreateUnit(ctx iris.Context) {
	var input UnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var condo models.Condo
	if err := storage.DB.First(&condo, input.CondoID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "condo not found")
		return
	}

	status := input.Status
	if status == "" {
		status = models.UnitStatusOwnerOccupied
	}
	unit := models.Unit{
		CondoID:    input.CondoID,
		UnitNumber: input.UnitNumber,
		OwnerName:  input.OwnerName,
		OwnerEmail: input.OwnerEmail,
		Status:     status,
	}
	if err := storage.DB.Create(&unit).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "create_failed", err.Error())
		return
	}
	utils.Audit(ctx, "unit.create", "unit", unit.ID, nil, unit)
	ctx.StatusCode(http.StatusCreated)
	utils.JSONData(ctx, unit)
}

// PATCH /api/units/:id — PM only
func UpdateUnit(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input UnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := unit
	unit.CondoID = input.CondoID
	unit.UnitNumber = input.UnitNumber
	unit.OwnerName = input.OwnerName
	unit.OwnerEmail = input.OwnerEmail
	if input.Status != "" {
		unit.Status = input.Status
	}
	if err := storage.DB.Save(&unit).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "update_failed", err.Error())
		return
	}
	utils.Audit(ctx, "unit.update", "unit", unit.ID, before, unit)
	utils.JSONData(ctx, unit)
}

// DELETE /api/units/:id — PM only
func DeleteUnit(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if err := storage.DB.Delete(&unit).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "unit.delete", "unit", unit.ID, unit, nil)
	ctx.StatusCode(http.StatusNoContent)
}
