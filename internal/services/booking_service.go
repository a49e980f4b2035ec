package services

import (
	"context"
	"time"

	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/utils"
	"guidely/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPusher is the live-update surface bookings publish to. The
// websocket handler satisfies it.
type EventPusher interface {
	NotifyUser(userID primitive.ObjectID, eventType string, data map[string]interface{})
	NotifyAdmins(eventType string, data map[string]interface{})
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID primitive.ObjectID, request *CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id, callerID primitive.ObjectID, callerRole models.AccountRole) (*models.Booking, error)
	ListBookings(ctx context.Context, params *utils.PaginationParams, filter *interfaces.BookingFilter, callerID primitive.ObjectID, callerRole models.AccountRole) ([]*models.Booking, int64, error)
	AllocateGuide(ctx context.Context, bookingID, guideID primitive.ObjectID) (*models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, callerID primitive.ObjectID, callerRole models.AccountRole, reason string) (*models.Booking, error)
}

type CreateBookingRequest struct {
	Variant          models.BookingVariant   `json:"variant" validate:"required,oneof=custom_itinerary package_tour"`
	PackageID        string                  `json:"package_id"`
	TouristInfo      models.TouristInfo      `json:"tourist_info" validate:"required"`
	TravelDetails    models.TravelDetails    `json:"travel_details" validate:"required"`
	GuidePreferences models.GuidePreferences `json:"guide_preferences"`
}

type bookingService struct {
	bookingRepo  interfaces.BookingRepository
	packageRepo  interfaces.PackageRepository
	accountRepo  interfaces.AccountRepository
	notification NotificationService
	events       EventPusher
	currency     string
	logger       *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	packageRepo interfaces.PackageRepository,
	accountRepo interfaces.AccountRepository,
	notification NotificationService,
	events EventPusher,
	currency string,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		packageRepo:  packageRepo,
		accountRepo:  accountRepo,
		notification: notification,
		events:       events,
		currency:     currency,
		logger:       log,
	}
}

// ComputeBookingPrice builds the authoritative price server side. The
// client never supplies an amount; the stored breakdown drives every
// gateway charge.
//
// Package tours price at package price per traveller; custom itineraries
// at a flat per-day rate. Groups of five or more earn a discount, and
// weekend days carry a surcharge proportional to their share of the trip.
// The total and the advance are rounded to whole rupees.
func ComputeBookingPrice(variant models.BookingVariant, packagePrice float64, travel *models.TravelDetails, currency string) (*models.PriceBreakdown, error) {
	if !travel.EndDate.After(travel.StartDate) && !travel.EndDate.Equal(travel.StartDate) {
		return nil, utils.NewValidation("end date must not precede start date")
	}

	duration := int(travel.EndDate.Sub(travel.StartDate).Hours()/24) + 1

	var base float64
	switch variant {
	case models.VariantPackageTour:
		base = packagePrice * float64(travel.Headcount)
	case models.VariantCustomItinerary:
		base = utils.CustomItineraryDayRate * float64(duration)
	default:
		return nil, utils.NewValidation("unknown booking variant")
	}

	weekendDays := countWeekendDays(travel.StartDate, travel.EndDate)
	surcharge := base * utils.WeekendSurchargeRate * float64(weekendDays) / float64(duration)

	var discount float64
	if travel.Headcount >= utils.GroupDiscountMinSize {
		discount = base * utils.GroupDiscountRate
	}

	total := utils.RoundRupees(base + surcharge - discount)
	advance := utils.RoundRupees(total * utils.AdvancePercent)

	return &models.PriceBreakdown{
		BaseAmount:       utils.RoundCurrency(base),
		WeekendSurcharge: utils.RoundCurrency(surcharge),
		GroupDiscount:    utils.RoundCurrency(discount),
		TotalAmount:      total,
		AdvanceAmount:    advance,
		Currency:         currency,
		DurationDays:     duration,
	}, nil
}

func countWeekendDays(start, end time.Time) int {
	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			count++
		}
	}
	return count
}

// tourDays lists every date of the trip as YYYY-MM-DD, the grain at
// which guide allocation slots are reserved.
func tourDays(start, end time.Time) []string {
	var days []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format("2006-01-02"))
	}
	return days
}

func (s *bookingService) CreateBooking(ctx context.Context, userID primitive.ObjectID, request *CreateBookingRequest) (*models.Booking, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}
	if err := utils.ValidateStruct(&request.TravelDetails); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	var packagePrice float64
	var packageID *primitive.ObjectID

	if request.Variant == models.VariantPackageTour {
		if request.PackageID == "" {
			return nil, utils.NewValidation("package_id is required for package tours")
		}
		id, err := primitive.ObjectIDFromHex(request.PackageID)
		if err != nil {
			return nil, utils.NewValidation("invalid package_id")
		}
		pkg, err := s.packageRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if pkg.Status != models.PackageStatusActive {
			return nil, utils.NewUnprocessable("package is not available for booking")
		}
		packagePrice = pkg.Price
		packageID = &pkg.ID
	}

	price, err := ComputeBookingPrice(request.Variant, packagePrice, &request.TravelDetails, s.currency)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Variant:          request.Variant,
		TouristInfo:      request.TouristInfo,
		TravelDetails:    request.TravelDetails,
		GuidePreferences: request.GuidePreferences,
		PackageID:        packageID,
		LinkedTo:         userID,
		TransactionID:    "txn_" + utils.GenerateRandomString(16),
		Status:           models.BookingStatusPaymentPending,
		Price:            *price,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "created", map[string]interface{}{
		"variant": booking.Variant,
		"total":   price.TotalAmount,
		"advance": price.AdvanceAmount,
	})

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id, callerID primitive.ObjectID, callerRole models.AccountRole) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canView(booking, callerID, callerRole) {
		return nil, utils.NewForbidden(utils.ErrForbidden)
	}

	return booking, nil
}

// canView admits the tourist who owns the booking, the allocated guide,
// and any admin.
func (s *bookingService) canView(booking *models.Booking, callerID primitive.ObjectID, callerRole models.AccountRole) bool {
	if callerRole == models.RoleAdmin {
		return true
	}
	if booking.LinkedTo == callerID {
		return true
	}
	if booking.AllocatedGuide != nil && *booking.AllocatedGuide == callerID {
		return true
	}
	return false
}

func (s *bookingService) ListBookings(ctx context.Context, params *utils.PaginationParams, filter *interfaces.BookingFilter, callerID primitive.ObjectID, callerRole models.AccountRole) ([]*models.Booking, int64, error) {
	if filter == nil {
		filter = &interfaces.BookingFilter{}
	}

	// Non-admins only ever see their own slice.
	switch callerRole {
	case models.RoleAdmin:
	case models.RoleGuide:
		filter.LinkedTo = nil
		filter.Guide = &callerID
	default:
		filter.Guide = nil
		filter.LinkedTo = &callerID
	}

	return s.bookingRepo.List(ctx, params, filter)
}

func (s *bookingService) AllocateGuide(ctx context.Context, bookingID, guideID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(booking.Status, models.BookingStatusAllocated) {
		return nil, utils.NewUnprocessable("booking cannot be allocated in its current state")
	}

	guide, err := s.accountRepo.GetByID(ctx, guideID)
	if err != nil {
		return nil, err
	}
	if guide.Role != models.RoleGuide {
		return nil, utils.NewValidation("account is not a guide")
	}
	if !guide.IsActive {
		return nil, utils.NewUnprocessable("guide account is deactivated")
	}

	days := tourDays(booking.TravelDetails.StartDate, booking.TravelDetails.EndDate)
	if err := s.bookingRepo.AllocateGuide(ctx, booking.ID, guideID, days); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.bookingRepo.UpdateStatus(ctx, booking.ID, models.BookingStatusConfirmed, models.BookingStatusAllocated, map[string]interface{}{
		"allocated_guide": guideID,
		"allocated_at":    now,
	})
	if err != nil {
		// Slots were reserved but the status race was lost; give them back.
		_ = s.bookingRepo.ReleaseAllocations(ctx, booking.ID)
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "allocated", map[string]interface{}{"guide_id": guideID.Hex()})

	s.events.NotifyUser(booking.LinkedTo, utils.EventBookingAllocated, map[string]interface{}{
		"booking_id": booking.ID.Hex(),
		"guide_name": guide.Name,
	})
	s.events.NotifyUser(guideID, utils.EventBookingAllocated, map[string]interface{}{
		"booking_id": booking.ID.Hex(),
		"city":       booking.TravelDetails.City,
	})

	return s.bookingRepo.GetByID(ctx, booking.ID)
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, error) {
	now := time.Now()
	err := s.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingStatusAllocated, models.BookingStatusCompleted, map[string]interface{}{
		"completed_at": now,
	})
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "completed", nil)
	s.events.NotifyUser(booking.LinkedTo, utils.EventBookingCompleted, map[string]interface{}{
		"booking_id": booking.ID.Hex(),
	})

	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, callerID primitive.ObjectID, callerRole models.AccountRole, reason string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if callerRole != models.RoleAdmin && booking.LinkedTo != callerID {
		return nil, utils.NewForbidden(utils.ErrForbidden)
	}

	if !booking.CanCancel() {
		return nil, utils.NewUnprocessable("booking cannot be cancelled")
	}

	now := time.Now()
	err = s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, models.BookingStatusCancelled, map[string]interface{}{
		"cancel_reason": reason,
		"cancelled_at":  now,
	})
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusAllocated {
		_ = s.bookingRepo.ReleaseAllocations(ctx, booking.ID)
	}

	s.logger.LogBookingEvent(booking.ID, "cancelled", map[string]interface{}{"reason": reason})
	s.events.NotifyUser(booking.LinkedTo, utils.EventBookingCancelled, map[string]interface{}{
		"booking_id": booking.ID.Hex(),
		"reason":     reason,
	})
	s.events.NotifyAdmins(utils.EventBookingCancelled, map[string]interface{}{
		"booking_id": booking.ID.Hex(),
	})

	return s.bookingRepo.GetByID(ctx, booking.ID)
}
