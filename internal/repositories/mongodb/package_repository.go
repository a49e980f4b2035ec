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

type packageRepository struct {
	collection *mongo.Collection
}

func NewPackageRepository(db *mongo.Database) interfaces.PackageRepository {
	return &packageRepository{
		collection: db.Collection("packages"),
	}
}

func (r *packageRepository) Create(ctx context.Context, pkg *models.Package) error {
	pkg.ID = primitive.NewObjectID()
	pkg.CreatedAt = time.Now()
	pkg.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, pkg)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}

	return nil
}

func (r *packageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	var pkg models.Package
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("package")
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	return &pkg, nil
}

func (r *packageRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFound("package")
	}

	return nil
}

func (r *packageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFound("package")
	}

	return nil
}

func (r *packageRepository) List(ctx context.Context, params *utils.PaginationParams, filter *models.PackageFilter) ([]*models.Package, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.Status != "" {
			query["status"] = filter.Status
		}
		if filter.Featured != nil {
			query["featured"] = *filter.Featured
		}
		if filter.City != "" {
			query["city"] = bson.M{"$regex": "^" + filter.City + "$", "$options": "i"}
		}
	}
	if params.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": params.Search, "$options": "i"}},
			{"city": bson.M{"$regex": params.Search, "$options": "i"}},
			{"places": bson.M{"$regex": params.Search, "$options": "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count packages: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []*models.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, 0, fmt.Errorf("failed to decode packages: %w", err)
	}

	return packages, total, nil
}
