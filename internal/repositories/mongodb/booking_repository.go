package mongodb

import (
	"context"
	"fmt"
	"time"

	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookingRepository struct {
	collection  *mongo.Collection
	allocations *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection:  db.Collection("bookings"),
		allocations: db.Collection("guide_allocations"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflict("booking already exists for this transaction")
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("booking")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("booking")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFound("booking")
	}

	return nil
}

// UpdateStatus filters on the expected current status so concurrent
// transitions cannot both land. MatchedCount zero with an existing
// booking means the status moved underneath the caller.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr == nil && count == 0 {
			return utils.NewNotFound("booking")
		}
		return utils.NewConflict(fmt.Sprintf("booking is no longer %s", from))
	}

	return nil
}

func (r *bookingRepository) List(ctx context.Context, params *utils.PaginationParams, filter *interfaces.BookingFilter) ([]*models.Booking, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.Status != "" {
			query["status"] = filter.Status
		}
		if filter.Variant != "" {
			query["variant"] = filter.Variant
		}
		if filter.LinkedTo != nil {
			query["linked_to"] = *filter.LinkedTo
		}
		if filter.Guide != nil {
			query["allocated_guide"] = *filter.Guide
		}
	}
	if params.Search != "" {
		query["$or"] = []bson.M{
			{"tourist_info.name": bson.M{"$regex": params.Search, "$options": "i"}},
			{"tourist_info.email": bson.M{"$regex": params.Search, "$options": "i"}},
			{"travel_details.city": bson.M{"$regex": params.Search, "$options": "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *bookingRepository) AllocateGuide(ctx context.Context, bookingID, guideID primitive.ObjectID, days []string) error {
	docs := make([]interface{}, 0, len(days))
	now := time.Now()
	for _, day := range days {
		docs = append(docs, &models.GuideAllocation{
			ID:        primitive.NewObjectID(),
			GuideID:   guideID,
			BookingID: bookingID,
			Day:       day,
			CreatedAt: now,
		})
	}

	// Ordered insert: on a duplicate day the write stops, then any slots
	// already taken by this booking are rolled back.
	_, err := r.allocations.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			_ = r.ReleaseAllocations(ctx, bookingID)
			return utils.NewConflict("guide is already allocated on one of the requested days")
		}
		return fmt.Errorf("failed to allocate guide: %w", err)
	}

	return nil
}

func (r *bookingRepository) ReleaseAllocations(ctx context.Context, bookingID primitive.ObjectID) error {
	_, err := r.allocations.DeleteMany(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return fmt.Errorf("failed to release allocations: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetAllocations(ctx context.Context, guideID primitive.ObjectID, fromDay, toDay string) ([]*models.GuideAllocation, error) {
	query := bson.M{
		"guide_id": guideID,
		"day":      bson.M{"$gte": fromDay, "$lte": toDay},
	}

	cursor, err := r.allocations.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get allocations: %w", err)
	}
	defer cursor.Close(ctx)

	var allocations []*models.GuideAllocation
	if err := cursor.All(ctx, &allocations); err != nil {
		return nil, fmt.Errorf("failed to decode allocations: %w", err)
	}

	return allocations, nil
}
