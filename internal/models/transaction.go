package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReferenceType string
type TransactionStage string

const (
	ReferenceTypeBooking    ReferenceType = "booking"
	ReferenceTypeEnrollment ReferenceType = "enrollment"

	TransactionStageAdvance TransactionStage = "advance"
	TransactionStageFinal   TransactionStage = "final"
)

// Transaction records one gateway order. Status carries the provider's own
// vocabulary (created/attempted/paid) and is never remapped to the booking
// status enum; the payment service bridges the two explicitly.
type Transaction struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TransactionID     string             `json:"transaction_id" bson:"transaction_id"`
	ReferenceID       primitive.ObjectID `json:"reference_id" bson:"reference_id"`
	ReferenceType     ReferenceType      `json:"reference_type" bson:"reference_type"`
	Stage             TransactionStage   `json:"stage" bson:"stage"`
	GatewayOrderID    string             `json:"gateway_order_id" bson:"gateway_order_id"`
	GatewayCustomerID string             `json:"gateway_customer_id" bson:"gateway_customer_id"`
	GatewayPaymentID  string             `json:"gateway_payment_id,omitempty" bson:"gateway_payment_id,omitempty"`
	Status            string             `json:"status" bson:"status"`
	Amount            float64            `json:"amount" bson:"amount"`
	Currency          string             `json:"currency" bson:"currency"`
	ProcessedAt       *time.Time         `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}
