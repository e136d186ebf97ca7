package controller

import (
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "shutterhub_backend/internals/features/booking/dto"
	"shutterhub_backend/internals/features/booking/model"
	"shutterhub_backend/internals/features/booking/service"
	userModel "shutterhub_backend/internals/features/users/model"
	helper "shutterhub_backend/internals/helpers"
	"shutterhub_backend/internals/observability/logger"
)

type BookingController struct {
	DB        *gorm.DB
	Service   *service.BookingService
	Validator *validator.Validate
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{
		DB:        db,
		Service:   service.NewBookingService(db),
		Validator: validator.New(),
	}
}

func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Booking request not found")
	case errors.Is(err, service.ErrBookingNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Booking not found")
	case errors.Is(err, service.ErrNotParticipant):
		return helper.JsonError(c, fiber.StatusForbidden, "Not your booking")
	case errors.Is(err, service.ErrNotPhotographer):
		return helper.JsonError(c, fiber.StatusForbidden, "Only the photographer may do this")
	case errors.Is(err, service.ErrRequestNotPending):
		return helper.JsonError(c, fiber.StatusConflict, "Request already handled")
	case errors.Is(err, service.ErrIllegalTransition):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Illegal booking status transition")
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}

func parseParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// POST /api/u/booking-requests
func (ctl *BookingController) CreateRequest(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// the addressee must be an active photographer
	var photographer userModel.User
	if err := ctl.DB.Where("user_id = ? AND user_role = ? AND user_is_active", req.PhotographerID, userModel.RolePhotographer).
		First(&photographer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Photographer not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = model.UrgencyNormal
	}

	request := model.BookingRequest{
		BookingRequestCustomerID:     userID,
		BookingRequestPhotographerID: req.PhotographerID,
		BookingRequestShootType:      strings.TrimSpace(req.ShootType),
		BookingRequestShootDate:      req.ShootDate,
		BookingRequestLocation:       strings.TrimSpace(req.Location),
		BookingRequestNotes:          strings.TrimSpace(req.Notes),
		BookingRequestUrgency:        urgency,
	}
	if err := ctl.Service.CreateRequest(&request); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Booking request sent", dto.FromModelRequest(&request))
}

// GET /api/u/booking-requests?status=&urgency=
func (ctl *BookingController) ListRequests(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	role := helper.GetUserRole(c)
	paging := helper.ResolvePaging(c, 20, 100)

	reqs, total, err := ctl.Service.ListRequests(userID, role, c.Query("status"), c.Query("urgency"), paging.Page, paging.PerPage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	items := make([]dto.RequestResponse, 0, len(reqs))
	for i := range reqs {
		items = append(items, dto.FromModelRequest(&reqs[i]))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/u/booking-requests/:request_id/accept
func (ctl *BookingController) AcceptRequest(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := parseParamUUID(c, "request_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request_id")
	}

	var req dto.AcceptRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	currency := req.Currency
	if currency == "" {
		currency = "IDR"
	}

	// customer identity goes on the payment
	var request model.BookingRequest
	if err := ctl.DB.Preload("Customer").
		Where("booking_request_id = ?", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Booking request not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	customerName, customerEmail := "", ""
	if request.Customer != nil {
		customerName = request.Customer.UserName
		customerEmail = request.Customer.UserEmail
	}

	booking, _, err := ctl.Service.AcceptRequest(requestID, userID, req.Amount, currency, customerName, customerEmail)
	if err != nil {
		if booking == nil {
			return bookingError(c, err)
		}
		// booking is durable, only the snap token minting failed
		logger.Log.Warn().Err(err).
			Str("order_id", booking.BookingOrderID).
			Msg("⚠️ snap token generation failed, booking kept")
	}
	return helper.JsonCreated(c, "Booking confirmed", dto.FromModelBooking(booking))
}

// POST /api/u/booking-requests/:request_id/decline
func (ctl *BookingController) DeclineRequest(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := parseParamUUID(c, "request_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request_id")
	}

	if err := ctl.Service.DeclineRequest(requestID, userID); err != nil {
		return bookingError(c, err)
	}
	return helper.JsonUpdated(c, "Booking request declined", fiber.Map{"request_id": requestID})
}

// GET /api/u/bookings?status=
func (ctl *BookingController) ListBookings(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	role := helper.GetUserRole(c)
	paging := helper.ResolvePaging(c, 20, 100)

	bookings, total, err := ctl.Service.ListBookings(userID, role, c.Query("status"), paging.Page, paging.PerPage)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	items := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, dto.FromModelBooking(&bookings[i]))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/u/bookings/:booking_id/start
func (ctl *BookingController) StartBooking(c *fiber.Ctx) error {
	return ctl.transition(c, model.BookingStatusInProgress, "Booking started")
}

// POST /api/u/bookings/:booking_id/complete
func (ctl *BookingController) CompleteBooking(c *fiber.Ctx) error {
	return ctl.transition(c, model.BookingStatusCompleted, "Booking completed")
}

// POST /api/u/bookings/:booking_id/cancel
func (ctl *BookingController) CancelBooking(c *fiber.Ctx) error {
	return ctl.transition(c, model.BookingStatusCancelled, "Booking cancelled")
}

func (ctl *BookingController) transition(c *fiber.Ctx, to, message string) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	bookingID, err := parseParamUUID(c, "booking_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid booking_id")
	}

	booking, err := ctl.Service.Transition(bookingID, userID, to)
	if err != nil {
		return bookingError(c, err)
	}
	return helper.JsonUpdated(c, message, dto.FromModelBooking(booking))
}
