package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/utils"
	"guidely/pkg/logger"
	"guidely/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnrollmentSettler is invoked when an enrollment-fee transaction is
// paid. The enrollment service implements it; the indirection keeps the
// payment service from depending on enrollment semantics.
type EnrollmentSettler interface {
	SettleEnrollmentPayment(ctx context.Context, enrollmentID primitive.ObjectID) error
}

type PaymentService interface {
	CreateBookingOrder(ctx context.Context, bookingID, callerID primitive.ObjectID, callerRole models.AccountRole, stage models.TransactionStage) (*OrderResponse, error)
	CreateEnrollmentOrder(ctx context.Context, enrollment *models.GuideEnrollment, amount float64) (*OrderResponse, error)
	VerifyPayment(ctx context.Context, request *VerifyPaymentRequest) (*models.Transaction, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ListTransactions(ctx context.Context, params *utils.PaginationParams) ([]*models.Transaction, int64, error)
	SetEnrollmentSettler(settler EnrollmentSettler)
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type OrderResponse struct {
	TransactionID string               `json:"transaction_id"`
	OrderID       string               `json:"order_id"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	Stage         models.TransactionStage `json:"stage"`
}

type paymentService struct {
	gateway           payment.Gateway
	transactionRepo   interfaces.TransactionRepository
	bookingRepo       interfaces.BookingRepository
	notification      NotificationService
	events            EventPusher
	enrollmentSettler EnrollmentSettler
	frontendURL       string
	currency          string
	logger            *logger.Logger
}

func NewPaymentService(
	gateway payment.Gateway,
	transactionRepo interfaces.TransactionRepository,
	bookingRepo interfaces.BookingRepository,
	notification NotificationService,
	events EventPusher,
	frontendURL, currency string,
	log *logger.Logger,
) PaymentService {
	return &paymentService{
		gateway:         gateway,
		transactionRepo: transactionRepo,
		bookingRepo:     bookingRepo,
		notification:    notification,
		events:          events,
		frontendURL:     frontendURL,
		currency:        currency,
		logger:          log,
	}
}

func (s *paymentService) SetEnrollmentSettler(settler EnrollmentSettler) {
	s.enrollmentSettler = settler
}

// CreateBookingOrder opens a gateway order for the stage amount. The
// amount is always taken from the stored server-side breakdown.
func (s *paymentService) CreateBookingOrder(ctx context.Context, bookingID, callerID primitive.ObjectID, callerRole models.AccountRole, stage models.TransactionStage) (*OrderResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if callerRole != models.RoleAdmin && booking.LinkedTo != callerID {
		return nil, utils.NewForbidden(utils.ErrForbidden)
	}

	var amount float64
	switch stage {
	case models.TransactionStageAdvance:
		if booking.Status != models.BookingStatusPaymentPending {
			return nil, utils.NewUnprocessable("booking advance is not payable in its current state")
		}
		amount = booking.Price.AdvanceAmount
	case models.TransactionStageFinal:
		if booking.PaymentStatus != models.PaymentStatusAdvancePaid {
			return nil, utils.NewUnprocessable("advance must be paid before the final amount")
		}
		amount = utils.RoundRupees(booking.Price.TotalAmount - booking.AmountPaid)
		if amount <= 0 {
			return nil, utils.NewUnprocessable("booking is already fully paid")
		}
	default:
		return nil, utils.NewValidation("unknown payment stage")
	}

	customerID := s.ensureCustomer(ctx, booking.TouristInfo.Name, booking.TouristInfo.Email, booking.TouristInfo.Phone)

	order, err := s.gateway.CreateOrder(ctx, &payment.OrderRequest{
		Amount:     amount,
		Currency:   s.currency,
		Receipt:    booking.TransactionID,
		CustomerID: customerID,
		Notes: map[string]interface{}{
			"reference_type": string(models.ReferenceTypeBooking),
			"reference_id":   booking.ID.Hex(),
			"stage":          string(stage),
		},
	})
	if err != nil {
		return nil, utils.NewServer("failed to create payment order", err)
	}

	transaction := &models.Transaction{
		TransactionID:     fmt.Sprintf("%s_%s", booking.TransactionID, stage),
		ReferenceID:       booking.ID,
		ReferenceType:     models.ReferenceTypeBooking,
		Stage:             stage,
		GatewayOrderID:    order.ID,
		GatewayCustomerID: customerID,
		Status:            order.Status,
		Amount:            amount,
		Currency:          s.currency,
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.logger.LogPaymentEvent(transaction.TransactionID, "order_created", amount, s.currency)

	return &OrderResponse{
		TransactionID: transaction.TransactionID,
		OrderID:       order.ID,
		Amount:        amount,
		Currency:      s.currency,
		Stage:         stage,
	}, nil
}

func (s *paymentService) CreateEnrollmentOrder(ctx context.Context, enrollment *models.GuideEnrollment, amount float64) (*OrderResponse, error) {
	customerID := s.ensureCustomer(ctx, enrollment.Name, enrollment.Email, enrollment.Phone)

	transactionID := "txn_" + utils.GenerateRandomString(16)
	order, err := s.gateway.CreateOrder(ctx, &payment.OrderRequest{
		Amount:     amount,
		Currency:   s.currency,
		Receipt:    transactionID,
		CustomerID: customerID,
		Notes: map[string]interface{}{
			"reference_type": string(models.ReferenceTypeEnrollment),
			"reference_id":   enrollment.ID.Hex(),
		},
	})
	if err != nil {
		return nil, utils.NewServer("failed to create payment order", err)
	}

	transaction := &models.Transaction{
		TransactionID:     transactionID,
		ReferenceID:       enrollment.ID,
		ReferenceType:     models.ReferenceTypeEnrollment,
		Stage:             models.TransactionStageAdvance,
		GatewayOrderID:    order.ID,
		GatewayCustomerID: customerID,
		Status:            order.Status,
		Amount:            amount,
		Currency:          s.currency,
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.logger.LogPaymentEvent(transaction.TransactionID, "order_created", amount, s.currency)

	return &OrderResponse{
		TransactionID: transaction.TransactionID,
		OrderID:       order.ID,
		Amount:        amount,
		Currency:      s.currency,
		Stage:         models.TransactionStageAdvance,
	}, nil
}

// ensureCustomer is best effort: an order can be created without a
// customer attached, so an unavailable customer only costs the linkage.
func (s *paymentService) ensureCustomer(ctx context.Context, name, email, contact string) string {
	customer, err := s.gateway.CreateCustomer(ctx, name, email, contact)
	if err != nil {
		if errors.Is(err, payment.ErrCustomerUnavailable) {
			s.logger.WithField("email", utils.MaskEmail(email)).Warn("gateway customer unavailable, creating order without customer")
		} else {
			s.logger.WithError(err).Warn("gateway customer creation failed")
		}
		return ""
	}
	return customer.ID
}

// VerifyPayment authenticates the checkout callback, confirms payment
// with the gateway and settles the transaction. Replays of an already
// settled transaction are accepted and return the stored record.
func (s *paymentService) VerifyPayment(ctx context.Context, request *VerifyPaymentRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	if !s.gateway.VerifyCheckoutSignature(request.OrderID, request.PaymentID, request.Signature) {
		return nil, utils.NewUnauthorized("payment signature verification failed")
	}

	transaction, err := s.transactionRepo.GetByOrderID(ctx, request.OrderID)
	if err != nil {
		return nil, err
	}

	if transaction.Status == payment.OrderStatusPaid {
		return transaction, nil
	}

	status, err := s.gateway.GetOrderStatus(ctx, request.OrderID)
	if err != nil {
		return nil, utils.NewServer("failed to confirm order with gateway", err)
	}
	if status != payment.OrderStatusPaid {
		return nil, utils.NewUnprocessable(fmt.Sprintf("order is %s, not paid", status))
	}

	if err := s.settle(ctx, transaction, request.PaymentID); err != nil {
		return nil, err
	}

	return s.transactionRepo.GetByTransactionID(ctx, transaction.TransactionID)
}

// HandleWebhook processes gateway events. The raw body signature is
// verified before anything is read from the payload.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(payload, signature) {
		return utils.NewUnauthorized("webhook signature verification failed")
	}

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
					Status  string `json:"status"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return utils.NewValidation("malformed webhook payload")
	}

	if event.Event != "payment.captured" && event.Event != "order.paid" {
		s.logger.WithField("event", event.Event).Debug("ignoring webhook event")
		return nil
	}

	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		return utils.NewValidation("webhook payload missing order id")
	}

	transaction, err := s.transactionRepo.GetByOrderID(ctx, entity.OrderID)
	if err != nil {
		return err
	}

	if transaction.Status == payment.OrderStatusPaid {
		return nil
	}

	return s.settle(ctx, transaction, entity.ID)
}

// settle marks the transaction paid and bridges the reference: bookings
// advance through their status machine, enrollments hand off to the
// settler.
func (s *paymentService) settle(ctx context.Context, transaction *models.Transaction, paymentID string) error {
	now := time.Now()
	err := s.transactionRepo.Update(ctx, transaction.ID, map[string]interface{}{
		"status":             payment.OrderStatusPaid,
		"gateway_payment_id": paymentID,
		"processed_at":       now,
	})
	if err != nil {
		return err
	}

	s.logger.LogPaymentEvent(transaction.TransactionID, "paid", transaction.Amount, transaction.Currency)

	switch transaction.ReferenceType {
	case models.ReferenceTypeBooking:
		return s.settleBooking(ctx, transaction)
	case models.ReferenceTypeEnrollment:
		if s.enrollmentSettler == nil {
			return utils.NewServer("no enrollment settler configured", nil)
		}
		return s.enrollmentSettler.SettleEnrollmentPayment(ctx, transaction.ReferenceID)
	default:
		return utils.NewServer(fmt.Sprintf("unknown reference type %s", transaction.ReferenceType), nil)
	}
}

func (s *paymentService) settleBooking(ctx context.Context, transaction *models.Transaction) error {
	booking, err := s.bookingRepo.GetByID(ctx, transaction.ReferenceID)
	if err != nil {
		return err
	}

	now := time.Now()
	paid := utils.RoundCurrency(booking.AmountPaid + transaction.Amount)

	switch transaction.Stage {
	case models.TransactionStageAdvance:
		err = s.bookingRepo.UpdateStatus(ctx, booking.ID, models.BookingStatusPaymentPending, models.BookingStatusConfirmed, map[string]interface{}{
			"payment_status": models.PaymentStatusAdvancePaid,
			"amount_paid":    paid,
			"confirmed_at":   now,
		})
		if err != nil {
			return err
		}

		booking.AmountPaid = paid
		booking.Status = models.BookingStatusConfirmed
		s.notification.SendBookingConfirmationEmail(ctx, booking)
		s.notification.SendBookingConfirmationSMS(ctx, booking)

		s.events.NotifyUser(booking.LinkedTo, utils.EventBookingConfirmed, map[string]interface{}{
			"booking_id": booking.ID.Hex(),
			"amount":     transaction.Amount,
		})
		s.events.NotifyAdmins(utils.EventBookingConfirmed, map[string]interface{}{
			"booking_id": booking.ID.Hex(),
		})

	case models.TransactionStageFinal:
		paymentStatus := models.PaymentStatusAdvancePaid
		if paid >= booking.Price.TotalAmount {
			paymentStatus = models.PaymentStatusFullyPaid
		}
		err = s.bookingRepo.Update(ctx, booking.ID, map[string]interface{}{
			"payment_status": paymentStatus,
			"amount_paid":    paid,
		})
		if err != nil {
			return err
		}

		s.events.NotifyUser(booking.LinkedTo, "payment_received", map[string]interface{}{
			"booking_id": booking.ID.Hex(),
			"amount":     transaction.Amount,
		})
	}

	return nil
}

func (s *paymentService) ListTransactions(ctx context.Context, params *utils.PaginationParams) ([]*models.Transaction, int64, error) {
	return s.transactionRepo.List(ctx, params)
}
