package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/carewire/clinical-api/internal/model"
)

var (
	// ErrNotFound is returned when a record is absent, and by ownership-scoped
	// mutations when the record exists but belongs to a different actor.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique-constraint collisions (email per
	// actor collection).
	ErrDuplicate = errors.New("record already exists")
	// ErrInUse is returned when a delete is blocked by rows that reference
	// the record (admissions, appointments, prescriptions).
	ErrInUse = errors.New("record is referenced by other records")
)

// All repository interfaces in one file
type (
	HospitalRepository interface {
		Create(ctx context.Context, hospital *model.Hospital) error
		Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
		GetByEmail(ctx context.Context, email string) (*model.Hospital, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
	}

	// AdmissionRepository persists hospitalization episodes. Episodes are
	// never deleted.
	AdmissionRepository interface {
		Create(ctx context.Context, admission *model.AdmittedPatient) error
		Get(ctx context.Context, id uuid.UUID) (*model.AdmittedPatient, error)
		ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.AdmittedPatient, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AdmittedPatient, error)
		AssignDoctor(ctx context.Context, admissionID, doctorID uuid.UUID) (*model.AdmittedPatient, error)
		UpdateDischarge(ctx context.Context, admissionID uuid.UUID, dischargedAt time.Time) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
		// UpdateStatusOwned and DeleteOwned filter on doctor id in the same
		// statement as the mutation, so a foreign record is indistinguishable
		// from a missing one.
		UpdateStatusOwned(ctx context.Context, id, doctorID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
		DeleteOwned(ctx context.Context, id, doctorID uuid.UUID) error
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
	}
)
