package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
}

func NewRazorpayProvider(keyID, keySecret, webhookSecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayProvider{
		client:        client,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// CreateCustomer creates a gateway customer. Razorpay rejects duplicate
// contacts with a 400; on that path we fall back to searching existing
// customers by contact. Other provider errors propagate unchanged.
func (r *RazorpayProvider) CreateCustomer(ctx context.Context, name, email, contact string) (*Customer, error) {
	data := map[string]interface{}{
		"name":          name,
		"email":         email,
		"contact":       contact,
		"fail_existing": "0",
	}

	created, err := r.client.Customer.Create(data, nil)
	if err == nil {
		return customerFromMap(created), nil
	}

	if !isBadRequest(err) {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	existing, lookupErr := r.client.Customer.All(map[string]interface{}{"count": 100}, nil)
	if lookupErr != nil {
		return nil, ErrCustomerUnavailable
	}

	items, _ := existing["items"].([]interface{})
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if asString(m["contact"]) == contact {
			return customerFromMap(m), nil
		}
	}

	return nil, ErrCustomerUnavailable
}

func (r *RazorpayProvider) CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error) {
	data := map[string]interface{}{
		"amount":   toMinor(request.Amount),
		"currency": request.Currency,
		"receipt":  request.Receipt,
		"notes":    request.Notes,
	}
	if request.CustomerID != "" {
		data["customer_id"] = request.CustomerID
	}

	order, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return orderFromMap(order), nil
}

func (r *RazorpayProvider) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	order, err := r.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	return orderFromMap(order), nil
}

func (r *RazorpayProvider) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	order, err := r.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

func (r *RazorpayProvider) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	payment, err := r.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	return &Payment{
		ID:        asString(payment["id"]),
		OrderID:   asString(payment["order_id"]),
		Amount:    toMajor(asInt64(payment["amount"])),
		Currency:  asString(payment["currency"]),
		Status:    asString(payment["status"]),
		Method:    asString(payment["method"]),
		Email:     asString(payment["email"]),
		Contact:   asString(payment["contact"]),
		CreatedAt: asInt64(payment["created_at"]),
	}, nil
}

// VerifyCheckoutSignature checks the HMAC Razorpay attaches to a checkout
// success callback: SHA256 over "orderID|paymentID" keyed by the API
// secret, compared in constant time.
func (r *RazorpayProvider) VerifyCheckoutSignature(orderID, paymentID, signature string) bool {
	expected := hmacHex(r.keySecret, orderID+"|"+paymentID)
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (r *RazorpayProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	expected := hmacHex(r.webhookSecret, string(payload))
	return hmac.Equal([]byte(signature), []byte(expected))
}

func hmacHex(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func customerFromMap(m map[string]interface{}) *Customer {
	return &Customer{
		ID:      asString(m["id"]),
		Name:    asString(m["name"]),
		Email:   asString(m["email"]),
		Contact: asString(m["contact"]),
	}
}

func orderFromMap(m map[string]interface{}) *Order {
	return &Order{
		ID:         asString(m["id"]),
		Amount:     toMajor(asInt64(m["amount"])),
		AmountPaid: toMajor(asInt64(m["amount_paid"])),
		Currency:   asString(m["currency"]),
		Receipt:    asString(m["receipt"]),
		Status:     asString(m["status"]),
		CreatedAt:  asInt64(m["created_at"]),
	}
}

func isBadRequest(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad_request") || strings.Contains(msg, "already exists")
}

func toMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func toMajor(minor int64) float64 {
	return float64(minor) / 100
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asInt64 tolerates the number types a decoded JSON body can carry.
func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
