package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PackageStatus string

const (
	PackageStatusInactive PackageStatus = "inactive"
	PackageStatusActive   PackageStatus = "active"
)

type Package struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title" validate:"required,min=3,max=200"`
	City       string             `json:"city" bson:"city" validate:"required"`
	Places     []string           `json:"places" bson:"places" validate:"required,min=1,dive,required"`
	Images     []string           `json:"images" bson:"images" validate:"required,min=1,dive,required"`
	Price      float64            `json:"price" bson:"price" validate:"required,gt=0"`
	Inclusions []string           `json:"inclusions,omitempty" bson:"inclusions,omitempty"`
	Exclusions []string           `json:"exclusions,omitempty" bson:"exclusions,omitempty"`
	Featured   bool               `json:"featured" bson:"featured"`
	Status     PackageStatus      `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// PackageFilter narrows list queries. Status and Featured are only honored
// for admin callers; public listings are always forced to active.
type PackageFilter struct {
	Status   PackageStatus `json:"status" form:"status"`
	Featured *bool         `json:"featured" form:"featured"`
	City     string        `json:"city" form:"city"`
}
