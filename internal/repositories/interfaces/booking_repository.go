package interfaces

import (
	"context"

	"guidely/internal/models"
	"guidely/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingFilter narrows booking list queries.
type BookingFilter struct {
	Status   models.BookingStatus
	Variant  models.BookingVariant
	LinkedTo *primitive.ObjectID
	Guide    *primitive.ObjectID
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateStatus is a compare-and-set: the write only lands if the
	// booking still holds the expected current status. A stale expectation
	// surfaces as a conflict, never as a silent overwrite.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, updates map[string]interface{}) error

	List(ctx context.Context, params *utils.PaginationParams, filter *BookingFilter) ([]*models.Booking, int64, error)

	// AllocateGuide reserves one slot document per tour day. The unique
	// {guide_id, day} index makes concurrent overlapping allocations lose
	// with a conflict; any partially inserted slots are released.
	AllocateGuide(ctx context.Context, bookingID, guideID primitive.ObjectID, days []string) error
	ReleaseAllocations(ctx context.Context, bookingID primitive.ObjectID) error
	GetAllocations(ctx context.Context, guideID primitive.ObjectID, fromDay, toDay string) ([]*models.GuideAllocation, error)
}
