// Package prescription implements the append-only prescription workflow.
package prescription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
)

type Service struct {
	prescriptions repository.PrescriptionRepository
	patients      repository.PatientRepository
	// strictScope pins patient prescription lookups to the session identity.
	// Off keeps the legacy behavior of trusting the body-supplied id.
	strictScope bool
}

func NewService(prescriptions repository.PrescriptionRepository, patients repository.PatientRepository, strictScope bool) *Service {
	return &Service{
		prescriptions: prescriptions,
		patients:      patients,
		strictScope:   strictScope,
	}
}

// Create writes a prescription. The doctor reference is forced to the
// session identity regardless of anything the caller supplies; records are
// immutable once written.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if req.Diagnosis == "" || len(req.Medications) == 0 {
		return nil, apperrors.Validation("missing required fields", nil)
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient ID", err)
	}

	if _, err := s.patients.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	prescription := &model.Prescription{
		DoctorID:    doctorID,
		PatientID:   patientID,
		Diagnosis:   req.Diagnosis,
		Medications: pq.StringArray(req.Medications),
		Date:        time.Now(),
	}
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, apperrors.Internal(err)
	}
	return prescription, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.prescriptions.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return prescriptions, nil
}

// ListForPatient returns prescriptions for the authenticated patient.
// bodyPatientID is the legacy body-supplied id; with strict scoping the
// session id wins and a disagreeing body id reads as not found.
func (s *Service) ListForPatient(ctx context.Context, sessionPatientID uuid.UUID, bodyPatientID string) ([]*model.Prescription, error) {
	target := sessionPatientID

	if bodyPatientID != "" {
		id, err := uuid.Parse(bodyPatientID)
		if err != nil {
			return nil, apperrors.Validation("invalid patient ID", err)
		}
		if s.strictScope && id != sessionPatientID {
			return nil, apperrors.NotFound("prescriptions not found", nil)
		}
		if !s.strictScope {
			target = id
		}
	} else if !s.strictScope {
		// Legacy behavior requires the id in the body.
		return nil, apperrors.Validation("invalid patient ID", nil)
	}

	prescriptions, err := s.prescriptions.ListByPatient(ctx, target)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return prescriptions, nil
}
