package payment

import (
	"context"
	"errors"
)

// ErrCustomerUnavailable is returned when neither customer creation nor
// the duplicate-lookup fallback produced a usable gateway customer.
// Callers must branch on it explicitly rather than checking for nil.
var ErrCustomerUnavailable = errors.New("gateway customer unavailable")

// Gateway wraps a payment provider. Amounts cross this boundary in major
// units (rupees); providers convert to the smallest unit on the wire and
// back on the way out. Order and payment statuses carry the provider's own
// vocabulary (created/attempted/paid); bridging to booking statuses is the
// caller's job.
type Gateway interface {
	CreateCustomer(ctx context.Context, name, email, contact string) (*Customer, error)
	CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	GetOrderStatus(ctx context.Context, orderID string) (string, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)

	// VerifyCheckoutSignature authenticates the checkout callback
	// (order id + payment id + signature) before any of the reads
	// above are trusted.
	VerifyCheckoutSignature(orderID, paymentID, signature string) bool
	// VerifyWebhookSignature authenticates a webhook body.
	VerifyWebhookSignature(payload []byte, signature string) bool
}

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type OrderRequest struct {
	Amount     float64                `json:"amount"` // major units
	Currency   string                 `json:"currency"`
	Receipt    string                 `json:"receipt"`
	CustomerID string                 `json:"customer_id"`
	Notes      map[string]interface{} `json:"notes"`
}

type Order struct {
	ID         string  `json:"id"`
	Amount     float64 `json:"amount"` // major units
	AmountPaid float64 `json:"amount_paid"`
	Currency   string  `json:"currency"`
	Receipt    string  `json:"receipt"`
	Status     string  `json:"status"` // provider enum: created/attempted/paid
	CreatedAt  int64   `json:"created_at"`
}

type Payment struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"` // major units
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	Method    string  `json:"method"`
	Email     string  `json:"email"`
	Contact   string  `json:"contact"`
	CreatedAt int64   `json:"created_at"`
}

// Provider order statuses shared by every gateway. These mirror what
// Razorpay reports for an order lifecycle and are never collapsed into
// booking statuses by callers.
const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
)
