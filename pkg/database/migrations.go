package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the domain invariants depend on:
// unique email on accounts, unique transaction_id, and the unique
// {guide_id, day} allocation slot that serializes double-allocation.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"accounts": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "role", Value: 1}, {Key: "is_active", Value: 1}},
			},
		},
		"bookings": {
			{
				Keys:    bson.D{{Key: "transaction_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{
				Keys: bson.D{{Key: "linked_to", Value: 1}, {Key: "status", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "allocated_guide", Value: 1}},
				Options: options.Index().SetSparse(true),
			},
		},
		"guide_allocations": {
			{
				Keys:    bson.D{{Key: "guide_id", Value: 1}, {Key: "day", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "booking_id", Value: 1}},
			},
		},
		"transactions": {
			{
				Keys:    bson.D{{Key: "transaction_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "gateway_order_id", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "reference_id", Value: 1}, {Key: "reference_type", Value: 1}},
			},
		},
		"packages": {
			{
				Keys: bson.D{{Key: "status", Value: 1}, {Key: "featured", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "city", Value: 1}},
			},
		},
		"enrollments": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "status", Value: 1}},
			},
		},
		"blogs": {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
		"leads": {
			{
				Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			},
		},
	}

	for collection, models := range indexes {
		if _, err := m.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}
