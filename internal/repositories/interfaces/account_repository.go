package interfaces

import (
	"context"

	"guidely/internal/models"
	"guidely/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	// GetByEmail is the credential lookup: the returned account includes
	// the password hash. Every other read projects it out.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error

	List(ctx context.Context, params *utils.PaginationParams, role models.AccountRole) ([]*models.Account, int64, error)
	CountByRole(ctx context.Context, role models.AccountRole) (int64, error)
}
