// Package appointment implements the doctor-owned appointment workflow.
// Every mutation is scoped to the authenticated doctor's identity; a
// record another doctor owns is reported as not found, never as forbidden.
package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
)

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
}

func NewService(appointments repository.AppointmentRepository, patients repository.PatientRepository) *Service {
	return &Service{appointments: appointments, patients: patients}
}

// Create schedules an appointment for the acting doctor. The doctor
// reference is taken from the session identity, never from the request.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient ID", err)
	}

	date, err := time.Parse(time.RFC3339, req.AppointmentDate)
	if err != nil {
		return nil, apperrors.Validation("invalid or missing appointment date", err)
	}

	if _, err := s.patients.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	appointment := &model.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		Reason:          req.Reason,
		Status:          model.AppointmentStatusScheduled,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointment, nil
}

// List returns the acting doctor's appointments, date ascending.
func (s *Service) List(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// UpdateStatus sets the status on an appointment the doctor owns. Setting
// the current status again is a no-op success.
func (s *Service) UpdateStatus(ctx context.Context, doctorID uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	status := model.AppointmentStatus(req.Status)
	if !status.Valid() {
		return nil, apperrors.Validation("invalid status value", nil)
	}

	id, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, apperrors.Validation("invalid appointment ID", err)
	}

	appointment, err := s.appointments.UpdateStatusOwned(ctx, id, doctorID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment not found or access denied", err)
		}
		return nil, apperrors.Internal(err)
	}
	return appointment, nil
}

// Delete hard-deletes an appointment the doctor owns.
func (s *Service) Delete(ctx context.Context, doctorID uuid.UUID, req *model.DeleteAppointmentRequest) error {
	id, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return apperrors.Validation("invalid appointment ID", err)
	}

	if err := s.appointments.DeleteOwned(ctx, id, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment not found or access denied", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
