// File: database/repository/patient/interface.go
package patientRepo

import (
	"context"
	"errors"

	"clinicflow/models"
)

// ErrPatientNotFound is returned when no directory entry matches.
var ErrPatientNotFound = errors.New("patient not found")

// PatientRepository is the directory behind the patient lookup
// collaborator.
type PatientRepository interface {
	// FindByContact matches a patient by phone or email.
	FindByContact(ctx context.Context, phone, email string) (*models.PatientRecord, error)
	GetByID(ctx context.Context, patientID string) (*models.PatientRecord, error)
	Insert(ctx context.Context, record *models.PatientRecord) error
}
