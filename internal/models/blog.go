package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

type Blog struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title" validate:"required,min=3,max=200"`
	Slug      string             `json:"slug" bson:"slug"`
	Content   string             `json:"content" bson:"content" validate:"required"`
	CoverImage string            `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	Author    primitive.ObjectID `json:"author" bson:"author"`
	Status    BlogStatus         `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
