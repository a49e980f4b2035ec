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

type blogRepository struct {
	collection *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) interfaces.BlogRepository {
	return &blogRepository{
		collection: db.Collection("blogs"),
	}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, blog)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflict("a blog with this slug already exists")
		}
		return fmt.Errorf("failed to create blog: %w", err)
	}

	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("blog")
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}

	return &blog, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("blog")
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}

	return &blog, nil
}

func (r *blogRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflict("a blog with this slug already exists")
		}
		return fmt.Errorf("failed to update blog: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFound("blog")
	}

	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFound("blog")
	}

	return nil
}

func (r *blogRepository) List(ctx context.Context, params *utils.PaginationParams, status models.BlogStatus) ([]*models.Blog, int64, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}
	if params.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": params.Search, "$options": "i"}},
			{"content": bson.M{"$regex": params.Search, "$options": "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer cursor.Close(ctx)

	var blogs []*models.Blog
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode blogs: %w", err)
	}

	return blogs, total, nil
}

type leadRepository struct {
	collection *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) interfaces.LeadRepository {
	return &leadRepository{
		collection: db.Collection("leads"),
	}
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lead)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("lead")
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return &lead, nil
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.LeadStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFound("lead")
	}

	return nil
}

func (r *leadRepository) List(ctx context.Context, params *utils.PaginationParams, status models.LeadStatus) ([]*models.Lead, int64, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}
	if params.Search != "" {
		query["$or"] = []bson.M{
			{"name": bson.M{"$regex": params.Search, "$options": "i"}},
			{"email": bson.M{"$regex": params.Search, "$options": "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []*models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, fmt.Errorf("failed to decode leads: %w", err)
	}

	return leads, total, nil
}
