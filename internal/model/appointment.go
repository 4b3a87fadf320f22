package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the three allowed statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is owned and mutated exclusively by the referenced doctor.
type Appointment struct {
	Base
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	Reason          string            `db:"reason" json:"reason"`
	Status          AppointmentStatus `db:"status" json:"status"`
}

type CreateAppointmentRequest struct {
	PatientID       string `json:"patient_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required,rfc3339"`
	Reason          string `json:"reason"`
}

type UpdateAppointmentStatusRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

type DeleteAppointmentRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
}
