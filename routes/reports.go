package routes

import (
	"condo-management-server/models"
	"condo-management-server/services"
	"condo-management-server/storage"
	"condo-management-server/utils"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
)

// GET /api/reports/unit/:id/bookings?status=
// Past and upcoming bookings for a unit, newest first.
func UnitBookingsReport(ctx iris.Context) {
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

	status := strings.TrimSpace(ctx.URLParamDefault("status", ""))
	bookings, err := services.UnitBookings(storage.DB, unitID, status)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	results := make([]iris.Map, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		results = append(results, iris.Map{
			"id":             b.ID,
			"unit":           b.Unit.Label(),
			"parkingSpot":    spotCodeOrNil(b),
			"guestFirstName": b.GuestFirstName,
			"guestLastName":  b.GuestLastName,
			"vehiclePlate":   b.VehiclePlate,
			"checkIn":        b.CheckIn.Format("2006-01-02"),
			"checkOut":       b.CheckOut.Format("2006-01-02"),
			"status":         b.Status,
			"notes":          b.Notes,
		})
	}
	ctx.JSON(iris.Map{"unit": unit.Label(), "count": len(results), "results": results})
}

// GET /api/reports/available-spots?date=YYYY-MM-DD&condo_id=N
// Spots in the condo that are neither assigned nor booked on the date.
// Responses are cached in Redis for a minute; correctness does not depend
// on the cache.
func AvailableSpotsReport(ctx iris.Context) {
	condoID := ctx.URLParamIntDefault("condo_id", 0)
	if condoID <= 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", "missing condo_id")
		return
	}

	day := time.Now().Truncate(24 * time.Hour)
	if raw := ctx.URLParamDefault("date", ""); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.JSONError(ctx, http.StatusBadRequest, "validation_error", "invalid date")
			return
		}
		day = parsed
	}

	cacheKey := fmt.Sprintf("reports:spots:%d:%s", condoID, day.Format("2006-01-02"))
	if storage.Redis != nil {
		if cached, err := storage.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			ctx.ContentType("application/json")
			ctx.WriteString(cached)
			return
		}
	}

	spots, err := services.AvailableSpots(storage.DB, uint(condoID), day)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	results := make([]iris.Map, 0, len(spots))
	for i := range spots {
		s := &spots[i]
		results = append(results, iris.Map{
			"id":    s.ID,
			"code":  s.Code,
			"level": s.Level,
		})
	}
	payload := iris.Map{
		"date":    day.Format("2006-01-02"),
		"condoID": condoID,
		"count":   len(results),
		"results": results,
	}

	if storage.Redis != nil {
		if encoded, err := json.Marshal(payload); err == nil {
			storage.Redis.Set(context.Background(), cacheKey, encoded, time.Minute)
		}
	}
	ctx.JSON(payload)
}

// GET /api/reports/upcoming-checkpoints?window=7d
// Bookings checking in within the window.
func UpcomingCheckpointsReport(ctx iris.Context) {
	windowDays := services.ParseWindow(ctx.URLParamDefault("window", ""))
	today := time.Now().Truncate(24 * time.Hour)

	bookings, err := services.UpcomingCheckpoints(storage.DB, today, windowDays)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	results := make([]iris.Map, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		results = append(results, iris.Map{
			"id":          b.ID,
			"checkIn":     b.CheckIn.Format("2006-01-02"),
			"checkOut":    b.CheckOut.Format("2006-01-02"),
			"unit":        b.Unit.Label(),
			"parkingSpot": spotCodeOrNil(b),
			"guest":       b.GuestFirstName + " " + b.GuestLastName,
			"status":      b.Status,
		})
	}
	ctx.JSON(iris.Map{"windowDays": windowDays, "count": len(results), "results": results})
}

func spotCodeOrNil(b *models.ShortTermBooking) interface{} {
	if b.ParkingSpotID == nil || b.ParkingSpot == nil {
		return nil
	}
	return b.ParkingSpot.Code
}
