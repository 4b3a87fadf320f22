package patient

import (
	"bytes"
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

	"github.com/carewire/clinical-api/internal/config"
	"github.com/carewire/clinical-api/internal/handler"
	"github.com/carewire/clinical-api/internal/middleware"
	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
	"github.com/carewire/clinical-api/internal/service/auth"
	patientService "github.com/carewire/clinical-api/internal/service/patient"
)

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	for _, existing := range f.patients {
		if existing.Email == p.Email {
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

func newTestEngine(t *testing.T) (*gin.Engine, *fakePatientRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	patients := &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
	issuer := token.NewIssuer("test-secret", time.Hour)
	authSvc := auth.NewService(nil, nil, patients, issuer, nil)
	svc := patientService.NewService(authSvc, patients)

	cookieCfg := config.CookieConfig{Name: "token", Path: "/", HTTPOnly: true, SameSite: "strict"}
	cookies := handler.NewCookieWriter(cookieCfg, time.Hour)
	session := middleware.NewSessionMiddleware(issuer, "token", nil, patients)

	engine := gin.New()
	h := NewHandler(svc, cookies)
	h.RegisterRoutes(engine.Group("/api/v1/patient"), session)

	return engine, patients
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSignupSetsCookieAndHidesPassword(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", map[string]string{
		"name":     "Pat",
		"email":    "pat@example.com",
		"password": "secret123",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	var body struct {
		StatusCode int                    `json:"statusCode"`
		Message    string                 `json:"message"`
		Data       map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, body.StatusCode)
	assert.Equal(t, "patient created successfully", body.Message)
	assert.Equal(t, "pat@example.com", body.Data["email"])
	assert.Contains(t, body.Data["regId"], "ADM-")

	// The hash never serializes under any key.
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestSignupDuplicateEmail(t *testing.T) {
	engine, _ := newTestEngine(t)

	payload := map[string]string{"name": "Pat", "email": "pat@example.com", "password": "secret123"}
	require.Equal(t, http.StatusCreated, doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", payload, nil).Code)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "patient already registered", body["message"])
	// Failure envelope carries the lowercase statuscode key.
	assert.Contains(t, w.Body.String(), `"statuscode"`)

	// The error member carries the classification, never null.
	errMember, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "error member missing or not an object: %s", w.Body.String())
	assert.Equal(t, "patient already registered", errMember["message"])
	assert.NotZero(t, errMember["code"])
}

func TestSignupValidation(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", map[string]string{
		"name":  "Pat",
		"email": "not-an-email",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginUnknownEmailReadsAsNotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/patient/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "patient is not registered", body["message"])
}

func TestLoginWrongPassword(t *testing.T) {
	engine, _ := newTestEngine(t)

	payload := map[string]string{"name": "Pat", "email": "pat@example.com", "password": "secret123"}
	require.Equal(t, http.StatusCreated, doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", payload, nil).Code)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/patient/login", map[string]string{
		"email":    "pat@example.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "incorrect password", body["message"])
}

func TestCurrentRequiresSession(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/patient/current", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentReturnsSessionActor(t *testing.T) {
	engine, _ := newTestEngine(t)

	signup := doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", map[string]string{
		"name": "Pat", "email": "pat@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, signup.Code)
	cookie := sessionCookie(t, signup)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/patient/current", nil, []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pat@example.com")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestLogoutClearsCookie(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/patient/logout", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestDeleteReverifiesCredentials(t *testing.T) {
	engine, patients := newTestEngine(t)

	signup := doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", map[string]string{
		"name": "Pat", "email": "pat@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, signup.Code)
	cookie := sessionCookie(t, signup)

	// Session alone is not enough; the body password must match.
	w := doJSON(t, engine, http.MethodDelete, "/api/v1/patient/delete", map[string]string{
		"email": "pat@example.com", "password": "wrong-password",
	}, []*http.Cookie{cookie})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Len(t, patients.patients, 1)

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/patient/delete", map[string]string{
		"email": "pat@example.com", "password": "secret123",
	}, []*http.Cookie{cookie})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, patients.patients)

	// A stale session for the deleted account is rejected like a missing one.
	w = doJSON(t, engine, http.MethodGet, "/api/v1/patient/current", nil, []*http.Cookie{cookie})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/patient/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "health check successful")
}
