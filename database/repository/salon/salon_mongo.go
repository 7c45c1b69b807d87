package salonRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a directory document does not exist.
var ErrNotFound = errors.New("not found")

// MongoSalonRepo implements SalonRepository backed by MongoDB.
type MongoSalonRepo struct {
	salonColl    *mongo.Collection
	staffColl    *mongo.Collection
	serviceColl  *mongo.Collection
	scheduleColl *mongo.Collection
}

// NewMongoSalonRepo creates a repository over the shared Mongo client.
func NewMongoSalonRepo() *MongoSalonRepo {
	return &MongoSalonRepo{
		salonColl:    database.Collection("salons"),
		staffColl:    database.Collection("staff"),
		serviceColl:  database.Collection("services"),
		scheduleColl: database.Collection("working_hours"),
	}
}

func (r *MongoSalonRepo) GetSalonByID(ctx context.Context, id string) (*models.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var salon models.Salon
	if err := r.salonColl.FindOne(ctx, bson.M{"id": id}).Decode(&salon); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch salon %s: %w", id, err)
	}
	return &salon, nil
}

func (r *MongoSalonRepo) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	if err := r.serviceColl.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &svc, nil
}

func (r *MongoSalonRepo) GetStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var st models.Staff
	if err := r.staffColl.FindOne(ctx, bson.M{"id": id}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch staff %s: %w", id, err)
	}
	return &st, nil
}

func (r *MongoSalonRepo) ListActiveStaff(ctx context.Context, salonID string) ([]models.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.staffColl.Find(ctx, bson.M{"salonId": salonID, "active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff for salon %s: %w", salonID, err)
	}
	defer cursor.Close(ctx)

	var staff []models.Staff
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff list: %w", err)
	}
	return staff, nil
}

func (r *MongoSalonRepo) GetSalonHours(ctx context.Context, salonID string) ([]models.WorkingWindow, error) {
	return r.ownerHours(ctx, salonID)
}

func (r *MongoSalonRepo) GetStaffHours(ctx context.Context, staffID string) ([]models.WorkingWindow, error) {
	return r.ownerHours(ctx, staffID)
}

func (r *MongoSalonRepo) ownerHours(ctx context.Context, ownerID string) ([]models.WorkingWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var schedule models.WeeklySchedule
	err := r.scheduleColl.FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch working hours for %s: %w", ownerID, err)
	}
	return schedule.Windows, nil
}
