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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type accountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) interfaces.AccountRepository {
	return &accountRepository{
		collection: db.Collection("accounts"),
	}
}

// noCredential projects the password hash out of reads that are not
// credential lookups.
var noCredential = options.FindOne().SetProjection(bson.M{"password": 0})

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflict(utils.ErrEmailRegistered)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"_id": id}, noCredential).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("account")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFound("account")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflict(utils.ErrEmailRegistered)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFound("account")
	}

	return nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.Update(ctx, id, map[string]interface{}{"password": hash})
}

func (r *accountRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": active})
}

func (r *accountRepository) List(ctx context.Context, params *utils.PaginationParams, role models.AccountRole) ([]*models.Account, int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	if params.Search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": params.Search, "$options": "i"}},
			{"email": bson.M{"$regex": params.Search, "$options": "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	opts := params.GetSortOptions().SetProjection(bson.M{"password": 0})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []*models.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode accounts: %w", err)
	}

	return accounts, total, nil
}

func (r *accountRepository) CountByRole(ctx context.Context, role models.AccountRole) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}
