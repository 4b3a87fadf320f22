// Package auth owns the credential store semantics: hashed credential
// writes, verification, and session token minting for all three actor
// types. Passwords are hashed on write and never leave the store.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/carewire/clinical-api/pkg/errors"
	"github.com/carewire/clinical-api/pkg/regid"
	"github.com/carewire/clinical-api/pkg/security"
	"github.com/carewire/clinical-api/pkg/token"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
)

const bcryptCost = 10

type Service struct {
	hospitals repository.HospitalRepository
	doctors   repository.DoctorRepository
	patients  repository.PatientRepository
	hasher    security.PasswordHasher
	issuer    *token.Issuer
	throttle  *LoginThrottle
}

func NewService(
	hospitals repository.HospitalRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	issuer *token.Issuer,
	throttle *LoginThrottle,
) *Service {
	return &Service{
		hospitals: hospitals,
		doctors:   doctors,
		patients:  patients,
		hasher:    security.NewBcryptHasher(bcryptCost),
		issuer:    issuer,
		throttle:  throttle,
	}
}

// IssueToken mints a session token for the given actor.
func (s *Service) IssueToken(actorType model.ActorType, actorID uuid.UUID, email string) (string, error) {
	tok, err := s.issuer.Issue(string(actorType), actorID, email)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return tok, nil
}

func (s *Service) RegisterHospital(ctx context.Context, req *model.RegisterHospitalRequest) (*model.Hospital, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	hospital := &model.Hospital{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Location:     req.Location,
		Phone:        req.Phone,
	}
	if err := s.hospitals.Create(ctx, hospital); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Duplicate("hospital already registered", err)
		}
		return nil, apperrors.Internal(err)
	}
	return hospital, nil
}

// RegisterDoctor is the hospital-mediated creation path; callers are
// responsible for verifying the acting hospital exists first.
func (s *Service) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) (*model.Doctor, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	doctor := &model.Doctor{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Specialization: req.Specialization,
		RegID:          regid.New(),
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Duplicate("doctor already registered", err)
		}
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

// SignupPatient is the self-signup path.
func (s *Service) SignupPatient(ctx context.Context, req *model.SignupPatientRequest) (*model.Patient, error) {
	return s.createPatient(ctx, &model.Patient{
		Name:  req.Name,
		Email: req.Email,
		RegID: regid.New(),
	}, req.Password)
}

// RegisterPatient is the hospital-mediated path. Identical record shape to
// self-signup; only the caller differs.
func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	return s.createPatient(ctx, &model.Patient{
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Gender: req.Gender,
		RegID:  regid.New(),
	}, req.Password)
}

func (s *Service) createPatient(ctx context.Context, patient *model.Patient, password string) (*model.Patient, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}
	patient.PasswordHash = hash

	if err := s.patients.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Duplicate("patient already registered", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

// VerifyHospital checks credentials against the hospital collection.
func (s *Service) VerifyHospital(ctx context.Context, email, password string) (*model.Hospital, error) {
	hospital, err := s.hospitals.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.credentialFailure(ctx, model.ActorHospital, email, err)
	}
	if err := s.checkPassword(ctx, model.ActorHospital, email, hospital.PasswordHash, password); err != nil {
		return nil, err
	}
	return hospital, nil
}

func (s *Service) VerifyDoctor(ctx context.Context, email, password string) (*model.Doctor, error) {
	doctor, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.credentialFailure(ctx, model.ActorDoctor, email, err)
	}
	if err := s.checkPassword(ctx, model.ActorDoctor, email, doctor.PasswordHash, password); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) VerifyPatient(ctx context.Context, email, password string) (*model.Patient, error) {
	patient, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient is not registered", err)
		}
		return nil, apperrors.Internal(err)
	}
	if err := s.checkPassword(ctx, model.ActorPatient, email, patient.PasswordHash, password); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) credentialFailure(ctx context.Context, actorType model.ActorType, email string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		// Same message as a bad password so the two cases cannot be probed.
		return apperrors.Authentication("invalid credentials", err)
	}
	return apperrors.Internal(err)
}

func (s *Service) checkPassword(ctx context.Context, actorType model.ActorType, email, hash, password string) error {
	if s.throttle != nil {
		locked, err := s.throttle.Locked(ctx, actorType, email)
		if err == nil && locked {
			return apperrors.Authentication("too many failed attempts, try again later", nil)
		}
	}

	if err := s.hasher.Compare(hash, password); err != nil {
		if s.throttle != nil {
			s.throttle.RecordFailure(ctx, actorType, email)
		}
		if actorType == model.ActorPatient {
			return apperrors.Authentication("incorrect password", err)
		}
		return apperrors.Authentication("invalid credentials", err)
	}

	if s.throttle != nil {
		s.throttle.Reset(ctx, actorType, email)
	}
	return nil
}
