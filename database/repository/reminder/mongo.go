// File: database/repository/reminder/mongo.go
package reminderRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicflow/database"
	"clinicflow/models"
)

type mongoReminderRepo struct {
	coll *mongo.Collection
}

// NewMongoReminderRepo constructs a MongoDB-backed ReminderRepository.
func NewMongoReminderRepo() ReminderRepository {
	db := database.MongoClient.Database("clinicflow")
	return &mongoReminderRepo{coll: db.Collection("reminder_plans")}
}

func (r *mongoReminderRepo) CreatePlan(ctx context.Context, plan *models.ReminderPlan) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"bookingId": plan.BookingID})
	if err != nil {
		return fmt.Errorf("failed to check existing plan: %w", err)
	}
	if count > 0 {
		return ErrPlanExists
	}
	if _, err := r.coll.InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to insert reminder plan: %w", err)
	}
	return nil
}

func (r *mongoReminderRepo) GetPlan(ctx context.Context, bookingID string) (*models.ReminderPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var plan models.ReminderPlan
	err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *mongoReminderRepo) ActivePlans(ctx context.Context) ([]models.ReminderPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.ReminderPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *mongoReminderRepo) SavePlan(ctx context.Context, plan *models.ReminderPlan) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"bookingId": plan.BookingID}, plan, opts); err != nil {
		return fmt.Errorf("failed to save reminder plan: %w", err)
	}
	return nil
}
