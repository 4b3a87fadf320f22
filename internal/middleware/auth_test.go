package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewire/clinical-api/pkg/token"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
)

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	d.ID = uuid.New()
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
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
	return nil, nil
}

type sessionFixture struct {
	issuer   *token.Issuer
	doctors  *fakeDoctorRepo
	patients *fakePatientRepo
	engine   *gin.Engine
}

func newSessionFixture(t *testing.T, expiry time.Duration) *sessionFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := token.NewIssuer("test-secret", expiry)
	doctors := &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
	patients := &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
	session := NewSessionMiddleware(issuer, "token", doctors, patients)

	engine := gin.New()
	engine.GET("/doctor-only", session.Doctor(), func(c *gin.Context) {
		s, ok := DoctorSession(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"name": s.Doctor.Name})
	})
	engine.GET("/patient-only", session.Patient(), func(c *gin.Context) {
		s, ok := PatientSession(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"name": s.Patient.Name})
	})

	return &sessionFixture{issuer: issuer, doctors: doctors, patients: patients, engine: engine}
}

func (f *sessionFixture) request(t *testing.T, path, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func responseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestSessionMissingCookie(t *testing.T) {
	f := newSessionFixture(t, time.Hour)

	w := f.request(t, "/doctor-only", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing session token", responseMessage(t, w))
}

func TestSessionValidDoctor(t *testing.T) {
	f := newSessionFixture(t, time.Hour)

	doc := &model.Doctor{Name: "Dr. House", Email: "house@example.com"}
	require.NoError(t, f.doctors.Create(context.Background(), doc))

	tok, err := f.issuer.Issue("doctor", doc.ID, doc.Email)
	require.NoError(t, err)

	w := f.request(t, "/doctor-only", tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dr. House")
}

func TestSessionExpiredToken(t *testing.T) {
	f := newSessionFixture(t, time.Hour)

	expiredIssuer := token.NewIssuer("test-secret", -time.Minute)
	tok, err := expiredIssuer.Issue("doctor", uuid.New(), "x@example.com")
	require.NoError(t, err)

	w := f.request(t, "/doctor-only", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "session expired", responseMessage(t, w))
}

func TestSessionActorTypeMismatch(t *testing.T) {
	f := newSessionFixture(t, time.Hour)

	p := &model.Patient{Name: "Pat", Email: "pat@example.com"}
	require.NoError(t, f.patients.Create(context.Background(), p))

	tok, err := f.issuer.Issue("patient", p.ID, p.Email)
	require.NoError(t, err)

	// A patient token never opens a doctor route.
	w := f.request(t, "/doctor-only", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid session token", responseMessage(t, w))
}

func TestSessionDeletedActorRejected(t *testing.T) {
	f := newSessionFixture(t, time.Hour)

	p := &model.Patient{Name: "Pat", Email: "pat@example.com"}
	require.NoError(t, f.patients.Create(context.Background(), p))

	tok, err := f.issuer.Issue("patient", p.ID, p.Email)
	require.NoError(t, err)
	require.NoError(t, f.patients.Delete(context.Background(), p.ID))

	w := f.request(t, "/patient-only", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "session actor not found", responseMessage(t, w))
}

func TestSessionGarbageToken(t *testing.T) {
	f := newSessionFixture(t, time.Hour)

	w := f.request(t, "/patient-only", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid session token", responseMessage(t, w))
}
