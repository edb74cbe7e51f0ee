package routes

import (
	"condo-management-server/models"
	"condo-management-server/storage"
	"condo-management-server/utils"
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"
)

type CondoInput struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required,max=50"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Province string `json:"province"`
}

// GET /api/condos?code=&city=&province=&page=&per_page=
func ListCondos(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Condo{})
	if code := strings.TrimSpace(ctx.URLParamDefault("code", "")); code != "" {
		query = query.Where("code = ?", code)
	}
	if city := strings.TrimSpace(ctx.URLParamDefault("city", "")); city != "" {
		query = query.Where("city = ?", city)
	}
	if province := strings.TrimSpace(ctx.URLParamDefault("province", "")); province != "" {
		query = query.Where("province = ?", province)
	}

	var total int64
	query.Count(&total)

	var condos []models.Condo
	if err := query.Order("code").Offset((page - 1) * perPage).Limit(perPage).Find(&condos).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, condos, page, perPage, total)
}

// GET /api/condos/:id
func GetCondo(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var condo models.Condo
	if err := storage.DB.First(&condo, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	utils.JSONData(ctx, condo)
}

// POST /api/condos — PM only
func CreateCondo(ctx iris.Context) {
	var input CondoInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	condo := models.Condo{
		Name:     input.Name,
		Code:     input.Code,
		Address:  input.Address,
		City:     input.City,
		Province: input.Province,
	}
	if err := storage.DB.Create(&condo).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "create_failed", err.Error())
		return
	}
	utils.Audit(ctx, "condo.create", "condo", condo.ID, nil, condo)
	ctx.StatusCode(http.StatusCreated)
	utils.JSONData(ctx, condo)
}

// PATCH /api/condos/:id — PM only
func UpdateCondo(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var condo models.Condo
	if err := storage.DB.First(&condo, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input CondoInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := condo
	condo.Name = input.Name
	condo.Code = input.Code
	condo.Address = input.Address
	condo.City = input.City
	condo.Province = input.Province
	if err := storage.DB.Save(&condo).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "update_failed", err.Error())
		return
	}
	utils.Audit(ctx, "condo.update", "condo", condo.ID, before, condo)
	utils.JSONData(ctx, condo)
}

// DELETE /api/condos/:id — PM only
func DeleteCondo(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var condo models.Condo
	if err := storage.DB.First(&condo, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if err := storage.DB.Delete(&condo).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "condo.delete", "condo", condo.ID, condo, nil)
	ctx.StatusCode(http.StatusNoContent)
}
