package handlers

import (
	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/services"
	"guidely/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.CreateBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), userID, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking created, advance payment pending", booking)
}

func (h *BookingHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), id, userID, currentRole(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved", booking)
}

func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	filter := &interfaces.BookingFilter{
		Status:  models.BookingStatus(c.Query("status")),
		Variant: models.BookingVariant(c.Query("variant")),
	}

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), params, filter, userID, currentRole(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bookings retrieved", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// Allocate assigns a guide to a confirmed booking (admin only).
func (h *BookingHandler) Allocate(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		GuideID string `json:"guide_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	guideID, err := parseHex(request.GuideID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid guide_id")
		return
	}

	booking, err := h.bookingService.AllocateGuide(c.Request.Context(), id, guideID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Guide allocated", booking)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking completed", booking)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&request)

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), id, userID, currentRole(c), request.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking cancelled", booking)
}
