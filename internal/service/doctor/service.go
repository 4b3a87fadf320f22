package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
	"github.com/carewire/clinical-api/internal/service/auth"
)

type Service struct {
	auth       *auth.Service
	doctors    repository.DoctorRepository
	admissions repository.AdmissionRepository
}

func NewService(authSvc *auth.Service, doctors repository.DoctorRepository, admissions repository.AdmissionRepository) *Service {
	return &Service{
		auth:       authSvc,
		doctors:    doctors,
		admissions: admissions,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.Doctor, string, error) {
	doctor, err := s.auth.VerifyDoctor(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.auth.IssueToken(model.ActorDoctor, doctor.ID, doctor.Email)
	if err != nil {
		return nil, "", err
	}
	return doctor, tok, nil
}

func (s *Service) Profile(ctx context.Context, doctorID uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor not found", err)
		}
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

// AssignedPatients returns the admission episodes this doctor is assigned to.
func (s *Service) AssignedPatients(ctx context.Context, doctorID uuid.UUID) ([]*model.AdmittedPatient, error) {
	admissions, err := s.admissions.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return admissions, nil
}
