package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/carewire/clinical-api/pkg/errors"
	"github.com/carewire/clinical-api/pkg/token"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
	"github.com/carewire/clinical-api/internal/service/auth"
)

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
	// withHistory marks patients whose delete is blocked by referencing
	// admissions, appointments or prescriptions.
	withHistory map[uuid.UUID]bool
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		patients:    make(map[uuid.UUID]*model.Patient),
		withHistory: make(map[uuid.UUID]bool),
	}
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	for _, e := range f.patients {
		if e.Email == p.Email {
			return repository.ErrDuplicate
		}
	}
	p.ID = uuid.New()
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) GetByEmail(_ context.Context, email string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.patients[id]; !ok {
		return repository.ErrNotFound
	}
	if f.withHistory[id] {
		return repository.ErrInUse
	}
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.patients {
		out = append(out, p)
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *fakePatientRepo) {
	t.Helper()
	patients := newFakePatientRepo()
	issuer := token.NewIssuer("test-secret", time.Hour)
	authSvc := auth.NewService(nil, nil, patients, issuer, nil)
	return NewService(authSvc, patients), patients
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	patient, tok, err := svc.Signup(ctx, &model.SignupPatientRequest{
		Name: "Jan", Email: "jan@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.NotEqual(t, uuid.Nil, patient.ID)

	got, tok, err := svc.Login(ctx, &model.LoginRequest{
		Email: "jan@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, patient.ID, got.ID)
}

func TestDeleteRemovesPatient(t *testing.T) {
	svc, patients := newTestService(t)
	ctx := context.Background()

	patient, _, err := svc.Signup(ctx, &model.SignupPatientRequest{
		Name: "Jan", Email: "jan@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, &model.DeletePatientRequest{
		Email: "jan@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = patients.Get(ctx, patient.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, &model.SignupPatientRequest{
		Name: "Jan", Email: "jan@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, &model.DeletePatientRequest{
		Email: "jan@example.com", Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthentication, apperrors.AsAppError(err).Code)
}

func TestDeleteWithMedicalHistory(t *testing.T) {
	svc, patients := newTestService(t)
	ctx := context.Background()

	patient, _, err := svc.Signup(ctx, &model.SignupPatientRequest{
		Name: "Jan", Email: "jan@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	patients.withHistory[patient.ID] = true

	err = svc.Delete(ctx, &model.DeletePatientRequest{
		Email: "jan@example.com", Password: "secret123",
	})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Equal(t, "patient has existing medical records", appErr.Message)

	// The record survives the refused delete.
	_, err = patients.Get(ctx, patient.ID)
	assert.NoError(t, err)
}
