package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeProvider exposes Stripe through the same Gateway surface the
// Razorpay provider implements. PaymentIntents stand in for orders;
// their statuses are translated to the shared created/attempted/paid
// vocabulary so callers never branch on which provider is active.
type StripeProvider struct {
	client        *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeProvider{
		client:        api,
		webhookSecret: webhookSecret,
	}
}

func (s *StripeProvider) CreateCustomer(ctx context.Context, name, email, contact string) (*Customer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Limit = stripe.Int64(1)
	iter := s.client.Customers.List(params)
	if iter.Next() {
		existing := iter.Customer()
		return &Customer{
			ID:      existing.ID,
			Name:    existing.Name,
			Email:   existing.Email,
			Contact: existing.Phone,
		}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, ErrCustomerUnavailable
	}

	created, err := s.client.Customers.New(&stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
		Phone: stripe.String(contact),
	})
	if err != nil {
		return nil, ErrCustomerUnavailable
	}

	return &Customer{
		ID:      created.ID,
		Name:    created.Name,
		Email:   created.Email,
		Contact: created.Phone,
	}, nil
}

func (s *StripeProvider) CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinor(request.Amount)),
		Currency: stripe.String(strings.ToLower(request.Currency)),
	}
	if request.CustomerID != "" {
		params.Customer = stripe.String(request.CustomerID)
	}
	params.AddMetadata("receipt", request.Receipt)
	for key, value := range request.Notes {
		params.AddMetadata(key, fmt.Sprintf("%v", value))
	}

	intent, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return orderFromIntent(intent, request.Receipt), nil
}

func (s *StripeProvider) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	intent, err := s.client.PaymentIntents.Get(orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	return orderFromIntent(intent, intent.Metadata["receipt"]), nil
}

func (s *StripeProvider) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

func (s *StripeProvider) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	intent, err := s.client.PaymentIntents.Get(paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	payment := &Payment{
		ID:        intent.ID,
		OrderID:   intent.ID,
		Amount:    toMajor(intent.Amount),
		Currency:  strings.ToUpper(string(intent.Currency)),
		Status:    translateIntentStatus(intent.Status),
		CreatedAt: intent.Created,
	}
	if intent.PaymentMethod != nil {
		payment.Method = string(intent.PaymentMethod.Type)
	}
	if intent.Customer != nil {
		payment.Email = intent.Customer.Email
		payment.Contact = intent.Customer.Phone
	}

	return payment, nil
}

func (s *StripeProvider) VerifyCheckoutSignature(orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (s *StripeProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	_, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	return err == nil
}

func orderFromIntent(intent *stripe.PaymentIntent, receipt string) *Order {
	order := &Order{
		ID:        intent.ID,
		Amount:    toMajor(intent.Amount),
		Currency:  strings.ToUpper(string(intent.Currency)),
		Receipt:   receipt,
		Status:    translateIntentStatus(intent.Status),
		CreatedAt: intent.Created,
	}
	if intent.Status == stripe.PaymentIntentStatusSucceeded {
		order.AmountPaid = order.Amount
	}
	return order
}

func translateIntentStatus(status stripe.PaymentIntentStatus) string {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return OrderStatusPaid
	case stripe.PaymentIntentStatusProcessing, stripe.PaymentIntentStatusRequiresCapture:
		return OrderStatusAttempted
	default:
		return OrderStatusCreated
	}
}
