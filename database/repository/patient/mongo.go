// File: database/repository/patient/mongo.go
package patientRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"clinicflow/database"
	"clinicflow/models"
)

type mongoPatientRepo struct {
	coll *mongo.Collection
}

// NewMongoPatientRepo constructs a MongoDB-backed PatientRepository.
func NewMongoPatientRepo() PatientRepository {
	db := database.MongoClient.Database("clinicflow")
	return &mongoPatientRepo{coll: db.Collection("patients")}
}

func (r *mongoPatientRepo) FindByContact(ctx context.Context, phone, email string) (*models.PatientRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var match []bson.M
	if phone != "" {
		match = append(match, bson.M{"phone": phone})
	}
	if email != "" {
		match = append(match, bson.M{"email": email})
	}
	if len(match) == 0 {
		return nil, ErrPatientNotFound
	}

	var record models.PatientRecord
	err := r.coll.FindOne(ctx, bson.M{"$or": match}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *mongoPatientRepo) GetByID(ctx context.Context, patientID string) (*models.PatientRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var record models.PatientRecord
	err := r.coll.FindOne(ctx, bson.M{"id": patientID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *mongoPatientRepo) Insert(ctx context.Context, record *models.PatientRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert patient record: %w", err)
	}
	return nil
}
