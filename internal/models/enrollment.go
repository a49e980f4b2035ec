package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EnrollmentStatus string

const (
	EnrollmentStatusUnverified     EnrollmentStatus = "unverified"
	EnrollmentStatusPaymentPending EnrollmentStatus = "payment_pending"
	EnrollmentStatusVerified       EnrollmentStatus = "verified"
)

// GuideEnrollment is a guide application. Verification by an admin feeds
// Account creation with role guide.
type GuideEnrollment struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string              `json:"email" bson:"email" validate:"required,email"`
	Phone        string              `json:"phone" bson:"phone" validate:"required"`
	City         string              `json:"city" bson:"city" validate:"required"`
	Languages    []string            `json:"languages" bson:"languages" validate:"required,min=1,dive,required"`
	LicenseDoc   string              `json:"license_doc" bson:"license_doc"`
	AadharDoc    string              `json:"aadhar_doc" bson:"aadhar_doc"`
	PhotoDoc     string              `json:"photo_doc" bson:"photo_doc"`
	Status       EnrollmentStatus    `json:"status" bson:"status"`
	AccountID    *primitive.ObjectID `json:"account_id,omitempty" bson:"account_id,omitempty"`
	VerifiedAt   *time.Time          `json:"verified_at,omitempty" bson:"verified_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}
