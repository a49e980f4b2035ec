package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyCheckoutSignature(t *testing.T) {
	provider := NewRazorpayProvider("rzp_test_key", "key-secret", "webhook-secret")

	signature := hmacHex("key-secret", "order_ABC123|pay_XYZ789")
	assert.True(t, provider.VerifyCheckoutSignature("order_ABC123", "pay_XYZ789", signature))

	// Signed with the wrong secret.
	forged := hmacHex("webhook-secret", "order_ABC123|pay_XYZ789")
	assert.False(t, provider.VerifyCheckoutSignature("order_ABC123", "pay_XYZ789", forged))

	// Signature over a different payment.
	assert.False(t, provider.VerifyCheckoutSignature("order_ABC123", "pay_OTHER", signature))
	assert.False(t, provider.VerifyCheckoutSignature("order_ABC123", "pay_XYZ789", ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	provider := NewRazorpayProvider("rzp_test_key", "key-secret", "webhook-secret")

	payload := []byte(`{"event":"payment.captured","payload":{}}`)
	signature := hmacHex("webhook-secret", string(payload))

	assert.True(t, provider.VerifyWebhookSignature(payload, signature))
	// Webhooks are keyed by the webhook secret, not the API secret.
	assert.False(t, provider.VerifyWebhookSignature(payload, hmacHex("key-secret", string(payload))))
	// A tampered body fails.
	assert.False(t, provider.VerifyWebhookSignature([]byte(`{"event":"payment.captured"}`), signature))
}

func TestMinorUnitConversion(t *testing.T) {
	assert.Equal(t, int64(250000), toMinor(2500))
	assert.Equal(t, int64(99900), toMinor(999))
	// 10.05 has no exact float representation; rounding keeps it honest.
	assert.Equal(t, int64(1005), toMinor(10.05))

	assert.Equal(t, 2500.0, toMajor(250000))
	assert.Equal(t, 999.0, toMajor(99900))
}

func TestAsInt64(t *testing.T) {
	// Decoded JSON bodies carry numbers as float64.
	assert.Equal(t, int64(250000), asInt64(float64(250000)))
	assert.Equal(t, int64(42), asInt64(int64(42)))
	assert.Equal(t, int64(7), asInt64(7))
	assert.Equal(t, int64(0), asInt64("250000"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestOrderFromMap(t *testing.T) {
	order := orderFromMap(map[string]interface{}{
		"id":       "order_ABC123",
		"amount":   float64(250000),
		"currency": "INR",
		"receipt":  "txn_abc_advance",
		"status":   "created",
	})

	assert.Equal(t, "order_ABC123", order.ID)
	assert.Equal(t, 2500.0, order.Amount, "amounts cross the package boundary in major units")
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "txn_abc_advance", order.Receipt)
	assert.Equal(t, OrderStatusCreated, order.Status)
}

func TestCustomerFromMap(t *testing.T) {
	customer := customerFromMap(map[string]interface{}{
		"id":      "cust_001",
		"name":    "Asha Verma",
		"email":   "asha@example.com",
		"contact": "+919876543210",
	})

	assert.Equal(t, "cust_001", customer.ID)
	assert.Equal(t, "Asha Verma", customer.Name)
	assert.Equal(t, "asha@example.com", customer.Email)
	assert.Equal(t, "+919876543210", customer.Contact)
}
