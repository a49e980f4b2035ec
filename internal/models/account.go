package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountRole string
type AccountStatus string

const (
	RoleTourist AccountRole = "tourist"
	RoleGuide   AccountRole = "guide"
	RoleAdmin   AccountRole = "admin"

	AccountStatusNonVerified AccountStatus = "non_verified"
	AccountStatusVerified    AccountStatus = "verified"
)

// RoleRank orders permission levels. Unknown roles rank 0 and are treated
// as least privileged.
func RoleRank(role AccountRole) int {
	switch role {
	case RoleTourist:
		return 1
	case RoleGuide:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

type Account struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Phone     string             `json:"phone" bson:"phone"`
	Password  string             `json:"-" bson:"password,omitempty"`
	Role      AccountRole        `json:"role" bson:"role" validate:"required"`
	IsActive  bool               `json:"is_active" bson:"is_active"`
	Status    AccountStatus      `json:"status" bson:"status"`
	Languages []string           `json:"languages,omitempty" bson:"languages,omitempty"`
	City      string             `json:"city,omitempty" bson:"city,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Sanitize strips the credential before the account is serialized in a
// response. The bson omitempty keeps partial updates from writing an
// empty hash back.
func (a *Account) Sanitize() *Account {
	clone := *a
	clone.Password = ""
	return &clone
}
