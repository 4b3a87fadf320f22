package patient

import (
	"context"
	"errors"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
	"github.com/carewire/clinical-api/internal/service/auth"
)

type Service struct {
	auth     *auth.Service
	patients repository.PatientRepository
}

func NewService(authSvc *auth.Service, patients repository.PatientRepository) *Service {
	return &Service{auth: authSvc, patients: patients}
}

func (s *Service) Signup(ctx context.Context, req *model.SignupPatientRequest) (*model.Patient, string, error) {
	patient, err := s.auth.SignupPatient(ctx, req)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.auth.IssueToken(model.ActorPatient, patient.ID, patient.Email)
	if err != nil {
		return nil, "", err
	}
	return patient, tok, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.Patient, string, error) {
	patient, err := s.auth.VerifyPatient(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.auth.IssueToken(model.ActorPatient, patient.ID, patient.Email)
	if err != nil {
		return nil, "", err
	}
	return patient, tok, nil
}

// Delete re-verifies credentials from the request body before the hard
// delete; holding a session is not enough on its own. A patient with
// medical history (admissions, appointments, prescriptions) cannot be
// deleted.
func (s *Service) Delete(ctx context.Context, req *model.DeletePatientRequest) error {
	patient, err := s.auth.VerifyPatient(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, patient.ID); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return apperrors.Validation("patient has existing medical records", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
