package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"payment pending to confirmed", BookingStatusPaymentPending, BookingStatusConfirmed, true},
		{"confirmed to allocated", BookingStatusConfirmed, BookingStatusAllocated, true},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, true},
		{"allocated to completed", BookingStatusAllocated, BookingStatusCompleted, true},
		{"allocated to cancelled", BookingStatusAllocated, BookingStatusCancelled, true},
		{"payment pending to completed", BookingStatusPaymentPending, BookingStatusCompleted, false},
		{"payment pending to cancelled", BookingStatusPaymentPending, BookingStatusCancelled, false},
		{"confirmed to completed skips allocation", BookingStatusConfirmed, BookingStatusCompleted, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusCancelled, false},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusConfirmed, false},
		{"no self transition", BookingStatusConfirmed, BookingStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanCancel(t *testing.T) {
	packageBooking := &Booking{Variant: VariantPackageTour, Status: BookingStatusConfirmed}
	assert.True(t, packageBooking.CanCancel())

	packageBooking.Status = BookingStatusAllocated
	assert.True(t, packageBooking.CanCancel())

	packageBooking.Status = BookingStatusPaymentPending
	assert.False(t, packageBooking.CanCancel(), "unpaid bookings have nothing to cancel")

	packageBooking.Status = BookingStatusCompleted
	assert.False(t, packageBooking.CanCancel())

	customBooking := &Booking{Variant: VariantCustomItinerary, Status: BookingStatusConfirmed}
	assert.False(t, customBooking.CanCancel(), "custom itineraries have no cancellation path")
}
