package prescription

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
)

type fakePrescriptionRepo struct {
	prescriptions []*model.Prescription
}

func (f *fakePrescriptionRepo) Create(_ context.Context, p *model.Prescription) error {
	p.ID = uuid.New()
	f.prescriptions = append(f.prescriptions, p)
	return nil
}

func (f *fakePrescriptionRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	var out []*model.Prescription
	for _, p := range f.prescriptions {
		if p.DoctorID == doctorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePrescriptionRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	var out []*model.Prescription
	for _, p := range f.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
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

func newFixture(strictScope bool) (*Service, *fakePrescriptionRepo, *fakePatientRepo) {
	prescriptions := &fakePrescriptionRepo{}
	patients := &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
	return NewService(prescriptions, patients, strictScope), prescriptions, patients
}

func seedPatient(t *testing.T, patients *fakePatientRepo) *model.Patient {
	t.Helper()
	p := &model.Patient{Name: "Pat", Email: "pat@example.com"}
	require.NoError(t, patients.Create(context.Background(), p))
	return p
}

func TestCreateForcesSessionDoctor(t *testing.T) {
	svc, _, patients := newFixture(true)
	patient := seedPatient(t, patients)
	doctorID := uuid.New()

	created, err := svc.Create(context.Background(), doctorID, &model.CreatePrescriptionRequest{
		PatientID:   patient.ID.String(),
		Diagnosis:   "flu",
		Medications: []string{"paracetamol"},
	})
	require.NoError(t, err)

	assert.Equal(t, doctorID, created.DoctorID)
	assert.Equal(t, patient.ID, created.PatientID)
	assert.False(t, created.Date.IsZero())
}

func TestCreateRequiresDiagnosisAndMedications(t *testing.T) {
	svc, _, patients := newFixture(true)
	patient := seedPatient(t, patients)

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreatePrescriptionRequest{
		PatientID:   patient.ID.String(),
		Medications: []string{"paracetamol"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation, apperrors.AsAppError(err).Code)

	_, err = svc.Create(context.Background(), uuid.New(), &model.CreatePrescriptionRequest{
		PatientID: patient.ID.String(),
		Diagnosis: "flu",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation, apperrors.AsAppError(err).Code)
}

func TestCreateUnknownPatient(t *testing.T) {
	svc, _, _ := newFixture(true)

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreatePrescriptionRequest{
		PatientID:   uuid.New().String(),
		Diagnosis:   "flu",
		Medications: []string{"paracetamol"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.AsAppError(err).Code)
}

func TestListForPatientStrictScopeUsesSession(t *testing.T) {
	svc, _, patients := newFixture(true)
	patient := seedPatient(t, patients)
	doctorID := uuid.New()

	_, err := svc.Create(context.Background(), doctorID, &model.CreatePrescriptionRequest{
		PatientID:   patient.ID.String(),
		Diagnosis:   "flu",
		Medications: []string{"paracetamol"},
	})
	require.NoError(t, err)

	// No body id needed.
	got, err := svc.ListForPatient(context.Background(), patient.ID, "")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Matching body id is accepted.
	got, err = svc.ListForPatient(context.Background(), patient.ID, patient.ID.String())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListForPatientStrictScopeRejectsForeignID(t *testing.T) {
	svc, _, patients := newFixture(true)
	patient := seedPatient(t, patients)

	_, err := svc.ListForPatient(context.Background(), patient.ID, uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.AsAppError(err).Code)
}

func TestListForPatientLegacyScopeTrustsBody(t *testing.T) {
	svc, _, patients := newFixture(false)
	patient := seedPatient(t, patients)
	other := seedPatientWithEmail(t, patients, "other@example.com")
	doctorID := uuid.New()

	_, err := svc.Create(context.Background(), doctorID, &model.CreatePrescriptionRequest{
		PatientID:   other.ID.String(),
		Diagnosis:   "flu",
		Medications: []string{"paracetamol"},
	})
	require.NoError(t, err)

	// Legacy behavior reads whatever id the body supplies.
	got, err := svc.ListForPatient(context.Background(), patient.ID, other.ID.String())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// And requires one.
	_, err = svc.ListForPatient(context.Background(), patient.ID, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation, apperrors.AsAppError(err).Code)
}

func seedPatientWithEmail(t *testing.T, patients *fakePatientRepo, email string) *model.Patient {
	t.Helper()
	p := &model.Patient{Name: "Other", Email: email}
	require.NoError(t, patients.Create(context.Background(), p))
	return p
}

func TestListByDoctorScopes(t *testing.T) {
	svc, _, patients := newFixture(true)
	patient := seedPatient(t, patients)
	docA := uuid.New()
	docB := uuid.New()

	for _, id := range []uuid.UUID{docA, docA, docB} {
		_, err := svc.Create(context.Background(), id, &model.CreatePrescriptionRequest{
			PatientID:   patient.ID.String(),
			Diagnosis:   "flu",
			Medications: []string{"paracetamol"},
		})
		require.NoError(t, err)
	}

	got, err := svc.ListByDoctor(context.Background(), docA)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
