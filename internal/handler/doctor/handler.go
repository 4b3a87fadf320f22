package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/handler"
	"github.com/carewire/clinical-api/internal/middleware"
	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/service/appointment"
	"github.com/carewire/clinical-api/internal/service/doctor"
)

type Handler struct {
	doctors      *doctor.Service
	appointments *appointment.Service
	cookies      *handler.CookieWriter
}

func NewHandler(doctors *doctor.Service, appointments *appointment.Service, cookies *handler.CookieWriter) *Handler {
	return &Handler{doctors: doctors, appointments: appointments, cookies: cookies}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, session *middleware.SessionMiddleware) {
	rg.POST("/login", h.Login)

	authed := rg.Group("", session.Doctor())
	authed.GET("/profile", h.Profile)
	authed.GET("/patients", h.Patients)
	authed.POST("/create-appointment", h.CreateAppointment)
	authed.GET("/get-appointments", h.GetAppointments)
	authed.POST("/update-appointment", h.UpdateAppointment)
	authed.DELETE("/delete-appointment", h.DeleteAppointment)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	loggedIn, token, err := h.doctors.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	h.cookies.Issue(c, token)
	handler.Respond(c, http.StatusOK, "doctor logged in", loggedIn)
}

func (h *Handler) Profile(c *gin.Context) {
	session, ok := middleware.DoctorSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	profile, err := h.doctors.Profile(c.Request.Context(), session.Doctor.ID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "doctor profile fetched", profile)
}

// Patients lists the admission episodes assigned to the acting doctor.
func (h *Handler) Patients(c *gin.Context) {
	session, ok := middleware.DoctorSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	admissions, err := h.doctors.AssignedPatients(c.Request.Context(), session.Doctor.ID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "patients fetched", admissions)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	session, ok := middleware.DoctorSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	created, err := h.appointments.Create(c.Request.Context(), session.Doctor.ID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusCreated, "appointment created", created)
}

func (h *Handler) GetAppointments(c *gin.Context) {
	session, ok := middleware.DoctorSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	appointments, err := h.appointments.List(c.Request.Context(), session.Doctor.ID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "appointments fetched", appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	session, ok := middleware.DoctorSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	updated, err := h.appointments.UpdateStatus(c.Request.Context(), session.Doctor.ID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "appointment status updated", updated)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	session, ok := middleware.DoctorSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}

	var req model.DeleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	if err := h.appointments.Delete(c.Request.Context(), session.Doctor.ID, &req); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "appointment deleted successfully", nil)
}
