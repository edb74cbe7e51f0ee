package routes

import (
	"condo-management-server/models"
	"condo-management-server/services"
	"condo-management-server/storage"
	"condo-management-server/utils"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
)

type BookingRequest struct {
	UnitID         uint   `json:"unitID" validate:"required"`
	GuestFirstName string `json:"guestFirstName" validate:"required,max=120"`
	GuestLastName  string `json:"guestLastName" validate:"required,max=120"`
	IDType         string `json:"idType" validate:"omitempty,oneof=LICENSE PASSPORT OTHER"`
	IDNumber       string `json:"idNumber"`
	IDCountry      string `json:"idCountry"`
	IDProvince     string `json:"idProvinceState"`
	VehiclePlate   string `json:"vehiclePlate"`
	ParkingSpotID  *uint  `json:"parkingSpotID"`
	CheckIn        string `json:"checkIn" validate:"required"`
	CheckOut       string `json:"checkOut" validate:"required"`
	Notes          string `json:"notes"`
	// Optional base64 ID image; uploaded to blob storage, only the URL is kept.
	IDDocumentBase64 string `json:"idDocumentBase64"`
}

func bookingInputFromRequest(req BookingRequest) (services.BookingInput, string) {
	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		return services.BookingInput{}, "checkIn must be YYYY-MM-DD"
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return services.BookingInput{}, "checkOut must be YYYY-MM-DD"
	}
	return services.BookingInput{
		UnitID:         req.UnitID,
		GuestFirstName: req.GuestFirstName,
		GuestLastName:  req.GuestLastName,
		IDType:         req.IDType,
		IDNumber:       req.IDNumber,
		IDCountry:      req.IDCountry,
		IDProvince:     req.IDProvince,
		VehiclePlate:   req.VehiclePlate,
		ParkingSpotID:  req.ParkingSpotID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Notes:          req.Notes,
	}, ""
}

func renderBookingError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(ctx, http.StatusForbidden, "forbidden", "no access to selected unit")
	case services.IsValidation(err):
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", err.Error())
	default:
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// GET /api/bookings?status=&unit_id=&check_in_after=&check_in_before=&check_out_after=&check_out_before=
// Reviewers see every booking; everyone else only bookings on units they can
// access.
func ListBookings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := services.VisibleBookingsScope(
		storage.DB.Model(&models.ShortTermBooking{}),
		utils.CurrentUserID(ctx), utils.CurrentRole(ctx),
	)
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}
	if unitID := ctx.URLParamIntDefault("unit_id", 0); unitID > 0 {
		query = query.Where("unit_id = ?", unitID)
	}
	for param, clause := range map[string]string{
		"check_in_after":   "check_in >= ?",
		"check_in_before":  "check_in <= ?",
		"check_out_after":  "check_out >= ?",
		"check_out_before": "check_out <= ?",
	} {
		if raw := ctx.URLParamDefault(param, ""); raw != "" {
			day, err := time.Parse("2006-01-02", raw)
			if err != nil {
				utils.JSONError(ctx, http.StatusBadRequest, "validation_error", param+" must be YYYY-MM-DD")
				return
			}
			query = query.Where(clause, day)
		}
	}

	var total int64
	query.Count(&total)

	var bookings []models.ShortTermBooking
	if err := query.Preload("Unit.Condo").Preload("ParkingSpot").
		Order("check_in DESC, created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&bookings).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, bookings, page, perPage, total)
}

// GET /api/bookings/:id
func GetBooking(ctx iris.Context) {
	booking, ok := loadVisibleBooking(ctx)
	if !ok {
		return
	}
	utils.JSONData(ctx, booking)
}

// POST /api/bookings — any role with access to the unit
func CreateBooking(ctx iris.Context) {
	var req BookingRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	input, msg := bookingInputFromRequest(req)
	if msg != "" {
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", msg)
		return
	}
	if req.IDDocumentBase64 != "" {
		publicID := fmt.Sprintf("booking_id_%d_%d", req.UnitID, time.Now().UnixNano())
		input.IDDocumentURL = storage.UploadBase64Document(req.IDDocumentBase64, publicID)
	}

	booking, err := services.SubmitBooking(storage.DB, utils.CurrentUserID(ctx), utils.CurrentRole(ctx), input)
	if err != nil {
		renderBookingError(ctx, err)
		return
	}
	utils.Audit(ctx, "booking.submit", "booking", booking.ID, nil, booking)
	ctx.StatusCode(http.StatusCreated)
	utils.JSONData(ctx, booking)
}

// PATCH /api/bookings/:id — submitter or reviewer, pending bookings only
func UpdateBooking(ctx iris.Context) {
	booking, ok := loadVisibleBooking(ctx)
	if !ok {
		return
	}

	var req BookingRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	input, msg := bookingInputFromRequest(req)
	if msg != "" {
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", msg)
		return
	}
	if req.IDDocumentBase64 != "" {
		publicID := fmt.Sprintf("booking_id_%d_%d", booking.UnitID, time.Now().UnixNano())
		input.IDDocumentURL = storage.UploadBase64Document(req.IDDocumentBase64, publicID)
	}

	before := *booking
	if err := services.UpdatePendingBooking(storage.DB, booking, utils.CurrentUserID(ctx), utils.CurrentRole(ctx), input); err != nil {
		renderBookingError(ctx, err)
		return
	}
	utils.Audit(ctx, "booking.update", "booking", booking.ID, before, booking)
	utils.JSONData(ctx, booking)
}

// POST /api/bookings/:id/approve — PM/concierge only
func ApproveBooking(ctx iris.Context) {
	reviewBooking(ctx, models.BookingStatusApproved)
}

// POST /api/bookings/:id/reject — PM/concierge only
func RejectBooking(ctx iris.Context) {
	reviewBooking(ctx, models.BookingStatusRejected)
}

func reviewBooking(ctx iris.Context, status string) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var booking models.ShortTermBooking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := booking
	actorID := utils.CurrentUserID(ctx)
	role := utils.CurrentRole(ctx)
	now := time.Now()

	var reviewErr error
	if status == models.BookingStatusApproved {
		reviewErr = services.ApproveBooking(storage.DB, &booking, actorID, role, now)
	} else {
		reviewErr = services.RejectBooking(storage.DB, &booking, actorID, role, now)
	}
	if reviewErr != nil {
		renderBookingError(ctx, reviewErr)
		return
	}
	utils.Audit(ctx, "booking."+status, "booking", booking.ID, before, booking)
	utils.JSONData(ctx, booking)
}

// POST /api/bookings/:id/cancel — submitter or reviewer, pending only
func CancelBooking(ctx iris.Context) {
	booking, ok := loadVisibleBooking(ctx)
	if !ok {
		return
	}
	before := *booking
	if err := services.CancelBooking(storage.DB, booking, utils.CurrentUserID(ctx), utils.CurrentRole(ctx)); err != nil {
		renderBookingError(ctx, err)
		return
	}
	utils.Audit(ctx, "booking.cancel", "booking", booking.ID, before, booking)
	utils.JSONData(ctx, booking)
}

// DELETE /api/bookings/:id — PM only
func DeleteBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var booking models.ShortTermBooking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if err := storage.DB.Delete(&booking).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "booking.delete", "booking", booking.ID, booking, nil)
	ctx.StatusCode(http.StatusNoContent)
}

// loadVisibleBooking fetches the booking and enforces unit visibility,
// rendering the error response itself when the caller may not proceed.
func loadVisibleBooking(ctx iris.Context) (*models.ShortTermBooking, bool) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return nil, false
	}
	var booking models.ShortTermBooking
	if err := storage.DB.Preload("Unit.Condo").Preload("ParkingSpot").First(&booking, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	role := utils.CurrentRole(ctx)
	if role.SeesAllBookings() {
		return &booking, true
	}
	visible, err := services.UnitVisible(storage.DB, utils.CurrentUserID(ctx), role, booking.UnitID)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return nil, false
	}
	if !visible {
		utils.CreateForbidden(ctx)
		return nil, false
	}
	return &booking, true
}
