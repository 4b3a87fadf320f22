package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/handler"
	"github.com/carewire/clinical-api/internal/middleware"
	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/service/prescription"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, session *middleware.SessionMiddleware) {
	rg.POST("/create-prescription", session.Doctor(), h.Create)
	rg.GET("/patient/all", session.Patient(), h.ListForPatient)
	rg.GET("/doctor/all", session.Doctor(), h.ListByDoctor)
}

func (h *Handler) Create(c *gin.Context) {
	session, ok := middleware.DoctorSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("missing required fields", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), session.Doctor.ID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusCreated, "prescription created", created)
}

func (h *Handler) ListByDoctor(c *gin.Context) {
	session, ok := middleware.DoctorSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	prescriptions, err := h.service.ListByDoctor(c.Request.Context(), session.Doctor.ID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "prescriptions written by doctor", prescriptions)
}

func (h *Handler) ListForPatient(c *gin.Context) {
	session, ok := middleware.PatientSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	// The body is optional here; the legacy contract reads the patient id
	// from it while strict scoping derives it from the session.
	var req model.ListPatientPrescriptionsRequest
	_ = c.ShouldBindJSON(&req)

	prescriptions, err := h.service.ListForPatient(c.Request.Context(), session.Patient.ID, req.PatientID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "prescriptions for patient", prescriptions)
}
