package interfaces

import (
	"context"

	"guidely/internal/models"
	"guidely/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	GetByOrderID(ctx context.Context, gatewayOrderID string) (*models.Transaction, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	ListByReference(ctx context.Context, referenceID primitive.ObjectID, referenceType models.ReferenceType) ([]*models.Transaction, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Transaction, int64, error)
}
