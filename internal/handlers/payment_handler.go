package handlers

import (
	"io"

	"guidely/internal/models"
	"guidely/internal/services"
	"guidely/internal/utils"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

type createOrderRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// CreateOrder opens the advance-stage order for a booking.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	h.createOrder(c, models.TransactionStageAdvance)
}

// CreateFinalOrder opens the remaining-balance order.
func (h *PaymentHandler) CreateFinalOrder(c *gin.Context) {
	h.createOrder(c, models.TransactionStageFinal)
}

func (h *PaymentHandler) createOrder(c *gin.Context, stage models.TransactionStage) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request createOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	bookingID, err := parseHex(request.BookingID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking_id")
		return
	}

	order, err := h.paymentService.CreateBookingOrder(c.Request.Context(), bookingID, userID, currentRole(c), stage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Payment order created", order)
}

// Verify settles a checkout callback for either stage.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var request services.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	transaction, err := h.paymentService.VerifyPayment(c.Request.Context(), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment verified", transaction)
}

// Webhook receives gateway events. The signature header is verified
// against the raw body before anything else happens.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Unable to read payload")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		signature = c.GetHeader("Stripe-Signature")
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Webhook processed", nil)
}

func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	transactions, total, err := h.paymentService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Transactions retrieved", transactions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
