package utils

import "time"

// Application Constants
const (
	AppName    = "Guidely"
	AppVersion = "1.0.0"

	// Default values
	DefaultCurrency = "INR"
	DefaultTimeZone = "Asia/Kolkata"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	PasswordMinLength   = 8
	PasswordMaxLength   = 128
	ResetTokenLength    = 32
	ResetTokenTTL       = 15 * time.Minute
	GuidePasswordLength = 12
	AuthCookieName      = "auth-cookie"

	// Booking / pricing
	AdvancePercent         = 0.30
	WeekendSurchargeRate   = 0.10
	GroupDiscountMinSize   = 5
	GroupDiscountRate      = 0.05
	CustomItineraryDayRate = 2500.0

	// Enrollment
	GuideEnrollmentFee = 999.0
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrEmailRegistered    = "email already registered"
	ErrInvalidToken       = "invalid token"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
)

// Cache Keys
const (
	CacheAccountPrefix    = "account:"
	CachePackagePrefix    = "package:"
	CacheResetTokenPrefix = "pwdreset:"
)

// Websocket event types
const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingAllocated = "booking_allocated"
	EventBookingCompleted = "booking_completed"
	EventBookingCancelled = "booking_cancelled"
)
