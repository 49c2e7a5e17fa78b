package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	patientRepo "clinicflow/database/repository/patient"
	"clinicflow/models"
)

func TestLookupKnownPatientIsReturning(t *testing.T) {
	repo := patientRepo.NewInMemoryPatientRepo()
	require.NoError(t, repo.Insert(context.Background(), &models.PatientRecord{
		ID: "pat-1", Name: "Ada", Phone: "555-0100",
	}))
	svc := NewDirectoryService(repo, zap.NewNop())

	result, err := svc.Lookup(context.Background(), models.PatientIdentity{
		Name: "Ada", Phone: "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "pat-1", result.PatientID)
	assert.Equal(t, models.PatientTypeReturning, result.PatientType)
}

func TestLookupByEmail(t *testing.T) {
	repo := patientRepo.NewInMemoryPatientRepo()
	require.NoError(t, repo.Insert(context.Background(), &models.PatientRecord{
		ID: "pat-1", Name: "Ada", Email: "ada@example.com",
	}))
	svc := NewDirectoryService(repo, zap.NewNop())

	result, err := svc.Lookup(context.Background(), models.PatientIdentity{
		Name: "Ada", Email: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PatientTypeReturning, result.PatientType)
}

func TestLookupUnknownPatientRegistersNew(t *testing.T) {
	repo := patientRepo.NewInMemoryPatientRepo()
	svc := NewDirectoryService(repo, zap.NewNop())

	result, err := svc.Lookup(context.Background(), models.PatientIdentity{
		Name: "Grace", Phone: "555-0101", Email: "grace@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PatientTypeNew, result.PatientType)
	require.NotEmpty(t, result.PatientID)

	// The fresh record is persisted; the same caller is returning next
	// time.
	record, err := svc.GetRecord(context.Background(), result.PatientID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", record.Name)

	again, err := svc.Lookup(context.Background(), models.PatientIdentity{
		Name: "Grace", Phone: "555-0101",
	})
	require.NoError(t, err)
	assert.Equal(t, result.PatientID, again.PatientID)
	assert.Equal(t, models.PatientTypeReturning, again.PatientType)
}
