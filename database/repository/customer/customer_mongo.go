package customerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database"
	"salonbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCustomerRepo implements CustomerRepository backed by MongoDB.
type MongoCustomerRepo struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepo creates a repository over the shared Mongo client.
func NewMongoCustomerRepo() *MongoCustomerRepo {
	return &MongoCustomerRepo{coll: database.Collection("customers")}
}

func (r *MongoCustomerRepo) GetByID(ctx context.Context, id string) (*models.CustomerProfile, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoCustomerRepo) GetByPhone(ctx context.Context, phone string) (*models.CustomerProfile, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *MongoCustomerRepo) findOne(ctx context.Context, filter bson.M) (*models.CustomerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.CustomerProfile
	if err := r.coll.FindOne(ctx, filter).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return &profile, nil
}

func (r *MongoCustomerRepo) RecordVerification(ctx context.Context, phone string, consent bool) (*models.CustomerProfile, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"phoneVerified":    true,
			"messagingConsent": consent,
			"consentAt":        now,
		},
		"$setOnInsert": bson.M{
			"id":        uuid.New().String(),
			"phone":     phone,
			"createdAt": now,
		},
	}

	// BSON DateTime is millisecond precision, so a decoded createdAt cannot
	// be compared against now to tell a fresh insert from an old profile.
	// The upsert result carries the answer directly.
	res, err := r.coll.UpdateOne(ctx, bson.M{"phone": phone}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, fmt.Errorf("failed to record verification for %s: %w", phone, err)
	}
	existed := res.UpsertedCount == 0

	profile, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load verified customer %s: %w", phone, err)
	}
	return profile, existed, nil
}
