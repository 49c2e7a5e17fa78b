package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	patientRepo "clinicflow/database/repository/patient"
	"clinicflow/models"
)

// DirectoryService resolves a caller's identity to a patient ID and
// type. Patients found in the directory are returning; a failed
// lookup registers a fresh record and classifies them as new.
type DirectoryService interface {
	Lookup(ctx context.Context, identity models.PatientIdentity) (*models.PatientLookupResult, error)
	GetRecord(ctx context.Context, patientID string) (*models.PatientRecord, error)
}

// DefaultDirectoryService is the repository-backed implementation.
type DefaultDirectoryService struct {
	Repo   patientRepo.PatientRepository
	logger *zap.Logger
	nowFn  func() time.Time
}

// NewDirectoryService constructs the directory collaborator.
func NewDirectoryService(repo patientRepo.PatientRepository, logger *zap.Logger) *DefaultDirectoryService {
	return &DefaultDirectoryService{Repo: repo, logger: logger, nowFn: time.Now}
}

func (s *DefaultDirectoryService) Lookup(ctx context.Context, identity models.PatientIdentity) (*models.PatientLookupResult, error) {
	record, err := s.Repo.FindByContact(ctx, identity.Phone, identity.Email)
	if err == nil {
		return &models.PatientLookupResult{
			PatientID:   record.ID,
			PatientType: models.PatientTypeReturning,
		}, nil
	}
	if !errors.Is(err, patientRepo.ErrPatientNotFound) {
		return nil, err
	}

	record = &models.PatientRecord{
		ID:        uuid.New().String(),
		Name:      identity.Name,
		Phone:     identity.Phone,
		Email:     identity.Email,
		CreatedAt: s.nowFn().UTC(),
	}
	if err := s.Repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("registered new patient", zap.String("patientID", record.ID))
	return &models.PatientLookupResult{
		PatientID:   record.ID,
		PatientType: models.PatientTypeNew,
	}, nil
}

func (s *DefaultDirectoryService) GetRecord(ctx context.Context, patientID string) (*models.PatientRecord, error) {
	return s.Repo.GetByID(ctx, patientID)
}
