// Package hospital owns the admission side of the care-relationship
// engine: doctor and patient registration under a hospital, admission
// episodes and doctor assignment.
package hospital

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
	"github.com/carewire/clinical-api/internal/service/auth"
)

type Service struct {
	auth       *auth.Service
	hospitals  repository.HospitalRepository
	doctors    repository.DoctorRepository
	patients   repository.PatientRepository
	admissions repository.AdmissionRepository
}

func NewService(
	authSvc *auth.Service,
	hospitals repository.HospitalRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	admissions repository.AdmissionRepository,
) *Service {
	return &Service{
		auth:       authSvc,
		hospitals:  hospitals,
		doctors:    doctors,
		patients:   patients,
		admissions: admissions,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterHospitalRequest) (*model.Hospital, string, error) {
	hospital, err := s.auth.RegisterHospital(ctx, req)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.auth.IssueToken(model.ActorHospital, hospital.ID, hospital.Email)
	if err != nil {
		return nil, "", err
	}
	return hospital, tok, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.Hospital, string, error) {
	hospital, err := s.auth.VerifyHospital(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.auth.IssueToken(model.ActorHospital, hospital.ID, hospital.Email)
	if err != nil {
		return nil, "", err
	}
	return hospital, tok, nil
}

// RegisterDoctor creates a doctor under the given hospital. The hospital
// must exist at the time of the call; the relation itself is not persisted
// on the doctor record.
func (s *Service) RegisterDoctor(ctx context.Context, hospitalID uuid.UUID, req *model.RegisterDoctorRequest) (*model.Doctor, error) {
	if err := s.requireHospital(ctx, hospitalID); err != nil {
		return nil, err
	}
	return s.auth.RegisterDoctor(ctx, req)
}

func (s *Service) RegisterPatient(ctx context.Context, hospitalID uuid.UUID, req *model.RegisterPatientRequest) (*model.Patient, error) {
	if err := s.requireHospital(ctx, hospitalID); err != nil {
		return nil, err
	}
	return s.auth.RegisterPatient(ctx, req)
}

// AdmitPatient opens a new admission episode. The patient and hospital must
// both exist; multiple concurrent episodes for the same patient are
// permitted. doctorAssigned starts null.
func (s *Service) AdmitPatient(ctx context.Context, hospitalID uuid.UUID, req *model.AdmitPatientRequest) (*model.AdmittedPatient, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient ID", err)
	}

	if err := s.requireHospital(ctx, hospitalID); err != nil {
		return nil, err
	}
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	admission := &model.AdmittedPatient{
		PatientID:     patientID,
		HospitalID:    hospitalID,
		Support:       req.Support,
		SupportNo:     req.SupportNo,
		Content:       req.Content,
		AdmissionDate: time.Now(),
		IsDischarged:  false,
	}
	if err := s.admissions.Create(ctx, admission); err != nil {
		return nil, apperrors.Internal(err)
	}
	return admission, nil
}

// AssignDoctor sets doctorAssigned on an admission episode. The doctor must
// exist; there is deliberately no check that the doctor belongs to the
// acting hospital — any hospital may assign any doctor. That permissive
// policy is a trust boundary, not an invariant. Concurrent assignments are
// last-write-wins.
func (s *Service) AssignDoctor(ctx context.Context, req *model.AssignDoctorRequest) (*model.AdmittedPatient, error) {
	admissionID, err := uuid.Parse(req.AdmissionID)
	if err != nil {
		return nil, apperrors.Validation("invalid admission ID", err)
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.Validation("invalid doctor ID", err)
	}

	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	admission, err := s.admissions.AssignDoctor(ctx, admissionID, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("admitted patient not found", err)
		}
		return nil, apperrors.Internal(err)
	}
	return admission, nil
}

func (s *Service) ListAdmittedPatients(ctx context.Context, hospitalID uuid.UUID) ([]*model.AdmittedPatient, error) {
	if err := s.requireHospital(ctx, hospitalID); err != nil {
		return nil, err
	}
	admissions, err := s.admissions.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return admissions, nil
}

func (s *Service) ListRegisteredPatients(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(patients) == 0 {
		return nil, apperrors.NotFound("no registered patients found", nil)
	}
	return patients, nil
}

func (s *Service) requireHospital(ctx context.Context, id uuid.UUID) error {
	if _, err := s.hospitals.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("hospital not found", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
