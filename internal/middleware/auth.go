package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/carewire/clinical-api/pkg/errors"
	"github.com/carewire/clinical-api/pkg/token"

	"github.com/carewire/clinical-api/internal/handler"
	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
)

const (
	ctxDoctorSession  = "doctor_session"
	ctxPatientSession = "patient_session"
)

// SessionMiddleware resolves the session cookie to a live actor record,
// one instantiation per actor type. Hospital endpoints carry no session
// middleware in the current contract; that gap is documented at the routes.
type SessionMiddleware struct {
	issuer     *token.Issuer
	cookieName string
	doctors    repository.DoctorRepository
	patients   repository.PatientRepository
}

func NewSessionMiddleware(
	issuer *token.Issuer,
	cookieName string,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
) *SessionMiddleware {
	return &SessionMiddleware{
		issuer:     issuer,
		cookieName: cookieName,
		doctors:    doctors,
		patients:   patients,
	}
}

// Doctor authenticates the doctor session. The token payload is trusted
// for identity lookup only; the record is re-fetched so a deleted doctor
// is rejected the same way as a missing token.
func (m *SessionMiddleware) Doctor() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.verify(c, model.ActorDoctor)
		if !ok {
			return
		}

		doctor, err := m.doctors.Get(c.Request.Context(), claims.ActorID())
		if err != nil {
			m.reject(c, err)
			return
		}

		c.Set(ctxDoctorSession, &model.DoctorSession{Doctor: doctor})
		c.Next()
	}
}

// Patient authenticates the patient session.
func (m *SessionMiddleware) Patient() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.verify(c, model.ActorPatient)
		if !ok {
			return
		}

		patient, err := m.patients.Get(c.Request.Context(), claims.ActorID())
		if err != nil {
			m.reject(c, err)
			return
		}

		c.Set(ctxPatientSession, &model.PatientSession{Patient: patient})
		c.Next()
	}
}

func (m *SessionMiddleware) verify(c *gin.Context, want model.ActorType) (*token.Claims, bool) {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		handler.Fail(c, apperrors.Authentication("missing session token", err))
		return nil, false
	}

	claims, err := m.issuer.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			handler.Fail(c, apperrors.Authentication("session expired", err))
		} else {
			handler.Fail(c, apperrors.Authentication("invalid session token", err))
		}
		return nil, false
	}

	if claims.ActorType != string(want) {
		handler.Fail(c, apperrors.Authentication("invalid session token", nil))
		return nil, false
	}

	return claims, true
}

func (m *SessionMiddleware) reject(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		// A verified token for a deleted account is the same class of
		// rejection as a missing token.
		handler.Fail(c, apperrors.Authentication("session actor not found", err))
		return
	}
	handler.Fail(c, apperrors.Internal(err))
}

// DoctorSession returns the session attached by the Doctor middleware.
func DoctorSession(c *gin.Context) (*model.DoctorSession, bool) {
	v, ok := c.Get(ctxDoctorSession)
	if !ok {
		return nil, false
	}
	session, ok := v.(*model.DoctorSession)
	return session, ok
}

// PatientSession returns the session attached by the Patient middleware.
func PatientSession(c *gin.Context) (*model.PatientSession, bool) {
	v, ok := c.Get(ctxPatientSession)
	if !ok {
		return nil, false
	}
	session, ok := v.(*model.PatientSession)
	return session, ok
}
