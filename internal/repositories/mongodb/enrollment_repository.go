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

type enrollmentRepository struct {
	collection *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) interfaces.EnrollmentRepository {
	return &enrollmentRepository{
		collection: db.Collection("guide_enrollments"),
	}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.GuideEnrollment) error {
	enrollment.ID = primitive.NewObjectID()
	enrollment.CreatedAt = time.Now()
	enrollment.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, enrollment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflict("an enrollment already exists for this email")
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	return nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.GuideEnrollment, error) {
	var enrollment models.GuideEnrollment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&enrollment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("enrollment")
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) GetByEmail(ctx context.Context, email string) (*models.GuideEnrollment, error) {
	var enrollment models.GuideEnrollment
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&enrollment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("enrollment")
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFound("enrollment")
	}

	return nil
}

func (r *enrollmentRepository) List(ctx context.Context, params *utils.PaginationParams, status models.EnrollmentStatus) ([]*models.GuideEnrollment, int64, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}
	if params.Search != "" {
		query["$or"] = []bson.M{
			{"name": bson.M{"$regex": params.Search, "$options": "i"}},
			{"email": bson.M{"$regex": params.Search, "$options": "i"}},
			{"city": bson.M{"$regex": params.Search, "$options": "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer cursor.Close(ctx)

	var enrollments []*models.GuideEnrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode enrollments: %w", err)
	}

	return enrollments, total, nil
}
