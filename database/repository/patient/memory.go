// File: database/repository/patient/memory.go
package patientRepo

import (
	"context"
	"sync"

	"clinicflow/models"
)

// InMemoryPatientRepo is a map-backed PatientRepository for tests.
type InMemoryPatientRepo struct {
	mu      sync.RWMutex
	records map[string]models.PatientRecord // patientID -> record
}

// NewInMemoryPatientRepo constructs an empty in-memory store.
func NewInMemoryPatientRepo() *InMemoryPatientRepo {
	return &InMemoryPatientRepo{records: make(map[string]models.PatientRecord)}
}

func (r *InMemoryPatientRepo) FindByContact(_ context.Context, phone, email string) (*models.PatientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if (phone != "" && rec.Phone == phone) || (email != "" && rec.Email == email) {
			out := rec
			return &out, nil
		}
	}
	return nil, ErrPatientNotFound
}

func (r *InMemoryPatientRepo) GetByID(_ context.Context, patientID string) (*models.PatientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[patientID]
	if !ok {
		return nil, ErrPatientNotFound
	}
	out := rec
	return &out, nil
}

func (r *InMemoryPatientRepo) Insert(_ context.Context, record *models.PatientRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = *record
	return nil
}
