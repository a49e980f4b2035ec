package interfaces

import (
	"context"

	"guidely/internal/models"
	"guidely/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams, status models.BlogStatus) ([]*models.Blog, int64, error)
}

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.LeadStatus) error
	List(ctx context.Context, params *utils.PaginationParams, status models.LeadStatus) ([]*models.Lead, int64, error)
}
