package models

import "time"

// PatientType determines the appointment duration policy.
type PatientType string

const (
	PatientTypeNew       PatientType = "new"
	PatientTypeReturning PatientType = "returning"
)

// Duration returns the appointment length in minutes for the type:
// new patients get 60 minutes, returning patients 30.
func (t PatientType) Duration() int {
	if t == PatientTypeNew {
		return 60
	}
	return 30
}

// Valid reports whether the type is one of the known values.
func (t PatientType) Valid() bool {
	return t == PatientTypeNew || t == PatientTypeReturning
}

// PatientIdentity is what a caller supplies to the patient directory.
type PatientIdentity struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// PatientRecord is a directory entry. Patients found in the directory
// are returning; a failed lookup registers a fresh record as new.
type PatientRecord struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	LastVisit string    `bson:"lastVisit,omitempty" json:"lastVisit,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// PatientLookupResult is the directory collaborator's answer.
type PatientLookupResult struct {
	PatientID   string      `json:"patientId"`
	PatientType PatientType `json:"patientType"`
}
