package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Prescription is append-only: no update or delete operation exists.
type Prescription struct {
	Base
	DoctorID    uuid.UUID      `db:"doctor_id" json:"doctorId"`
	PatientID   uuid.UUID      `db:"patient_id" json:"patientId"`
	Diagnosis   string         `db:"diagnosis" json:"diagnosis"`
	Medications pq.StringArray `db:"medications" json:"medications"`
	Date        time.Time      `db:"date" json:"date"`
}

type CreatePrescriptionRequest struct {
	PatientID   string   `json:"patientId" binding:"required"`
	Diagnosis   string   `json:"diagnosis" binding:"required"`
	Medications []string `json:"medications" binding:"required,min=1"`
}

// ListPatientPrescriptionsRequest carries the legacy body-supplied patient
// id. With strict scoping enabled the session id wins and a disagreeing
// body id is rejected.
type ListPatientPrescriptionsRequest struct {
	PatientID string `json:"patientId"`
}
