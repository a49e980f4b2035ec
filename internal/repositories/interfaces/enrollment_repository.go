package interfaces

import (
	"context"

	"guidely/internal/models"
	"guidely/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.GuideEnrollment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.GuideEnrollment, error)
	GetByEmail(ctx context.Context, email string) (*models.GuideEnrollment, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	List(ctx context.Context, params *utils.PaginationParams, status models.EnrollmentStatus) ([]*models.GuideEnrollment, int64, error)
}
