package interfaces

import (
	"context"

	"guidely/internal/models"
	"guidely/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PackageRepository interface {
	Create(ctx context.Context, pkg *models.Package) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams, filter *models.PackageFilter) ([]*models.Package, int64, error)
}
