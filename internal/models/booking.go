package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingVariant string
type BookingStatus string
type BookingPaymentStatus string

const (
	VariantCustomItinerary BookingVariant = "custom_itinerary"
	VariantPackageTour     BookingVariant = "package_tour"

	BookingStatusPaymentPending BookingStatus = "payment_pending"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusAllocated      BookingStatus = "allocated"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"

	PaymentStatusAdvancePaid BookingPaymentStatus = "advance_paid"
	PaymentStatusFullyPaid   BookingPaymentStatus = "fully_paid"
	PaymentStatusRefunded    BookingPaymentStatus = "refunded"
)

// bookingTransitions is the complete set of legal status edges. Payment
// confirmation, allocation and completion only ever move forward; there is
// no edge back out of confirmed once payment succeeds.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPaymentPending: {BookingStatusConfirmed},
	BookingStatusConfirmed:      {BookingStatusAllocated, BookingStatusCancelled},
	BookingStatusAllocated:      {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransition reports whether a booking may move from one status to
// another. Cancellation is additionally restricted to the package variant
// by CanCancel.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether a booking in its current state may be
// cancelled. Custom itineraries have no cancellation path.
func (b *Booking) CanCancel() bool {
	return b.Variant == VariantPackageTour && CanTransition(b.Status, BookingStatusCancelled)
}

type TouristInfo struct {
	Name  string `json:"name" bson:"name" validate:"required"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone" bson:"phone" validate:"required"`
}

type TravelDetails struct {
	Places      []string  `json:"places" bson:"places" validate:"required,min=1,dive,required"`
	City        string    `json:"city" bson:"city" validate:"required"`
	StartDate   time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" bson:"end_date" validate:"required"`
	Headcount   int       `json:"headcount" bson:"headcount" validate:"required,min=1"`
	Preferences []string  `json:"preferences,omitempty" bson:"preferences,omitempty"`
}

type GuidePreferences struct {
	Languages []string `json:"languages,omitempty" bson:"languages,omitempty"`
	Gender    string   `json:"gender,omitempty" bson:"gender,omitempty"`
}

// PriceBreakdown is computed server side at booking creation and is the
// authoritative figure for all gateway charges.
type PriceBreakdown struct {
	BaseAmount      float64 `json:"base_amount" bson:"base_amount"`
	WeekendSurcharge float64 `json:"weekend_surcharge" bson:"weekend_surcharge"`
	GroupDiscount   float64 `json:"group_discount" bson:"group_discount"`
	TotalAmount     float64 `json:"total_amount" bson:"total_amount"`
	AdvanceAmount   float64 `json:"advance_amount" bson:"advance_amount"`
	Currency        string  `json:"currency" bson:"currency"`
	DurationDays    int     `json:"duration_days" bson:"duration_days"`
}

type Booking struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Variant          BookingVariant       `json:"variant" bson:"variant" validate:"required"`
	TouristInfo      TouristInfo          `json:"tourist_info" bson:"tourist_info"`
	TravelDetails    TravelDetails        `json:"travel_details" bson:"travel_details"`
	GuidePreferences GuidePreferences     `json:"guide_preferences" bson:"guide_preferences"`
	PackageID        *primitive.ObjectID  `json:"package_id,omitempty" bson:"package_id,omitempty"`
	LinkedTo         primitive.ObjectID   `json:"linked_to" bson:"linked_to"`
	TransactionID    string               `json:"transaction_id" bson:"transaction_id"`
	AllocatedGuide   *primitive.ObjectID  `json:"allocated_guide,omitempty" bson:"allocated_guide,omitempty"`
	Status           BookingStatus        `json:"status" bson:"status"`
	PaymentStatus    BookingPaymentStatus `json:"payment_status,omitempty" bson:"payment_status,omitempty"`
	Price            PriceBreakdown       `json:"price" bson:"price"`
	AmountPaid       float64              `json:"amount_paid" bson:"amount_paid"`
	CancelReason     string               `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
	ConfirmedAt      *time.Time           `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
	AllocatedAt      *time.Time           `json:"allocated_at,omitempty" bson:"allocated_at,omitempty"`
	CompletedAt      *time.Time           `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CancelledAt      *time.Time           `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at" bson:"updated_at"`
}

// GuideAllocation is a per-guide per-day slot. A unique index on
// {guide_id, day} serializes concurrent allocations of the same guide to
// overlapping dates.
type GuideAllocation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GuideID   primitive.ObjectID `json:"guide_id" bson:"guide_id"`
	BookingID primitive.ObjectID `json:"booking_id" bson:"booking_id"`
	Day       string             `json:"day" bson:"day"` // YYYY-MM-DD
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
