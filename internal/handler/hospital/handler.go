package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/handler"
	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/service/hospital"
)

type Handler struct {
	service *hospital.Service
	cookies *handler.CookieWriter
}

func NewHandler(service *hospital.Service, cookies *handler.CookieWriter) *Handler {
	return &Handler{service: service, cookies: cookies}
}

// RegisterRoutes wires the hospital surface. Hospital endpoints are not
// behind session middleware in the current contract: the acting hospital is
// identified by the path id's existence only. Known gap, preserved for
// compatibility.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.POST("/:hospitalId/register-doctor", h.RegisterDoctor)
	rg.POST("/:hospitalId/register-patient", h.RegisterPatient)
	rg.POST("/:hospitalId/admit-patient", h.AdmitPatient)
	rg.GET("/:hospitalId/registered-patients", h.RegisteredPatients)
	rg.GET("/:hospitalId/admitted-patients", h.AdmittedPatients)
	rg.POST("/:hospitalId/assign-doctor", h.AssignDoctor)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	created, token, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	h.cookies.Issue(c, token)
	handler.Respond(c, http.StatusCreated, "hospital registered", gin.H{
		"hospital": created,
		"token":    token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	loggedIn, token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	h.cookies.Issue(c, token)
	handler.Respond(c, http.StatusOK, "login successful", gin.H{
		"hospital": loggedIn,
		"token":    token,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	handler.Respond(c, http.StatusOK, "logout successful", nil)
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	hospitalID, ok := h.hospitalID(c)
	if !ok {
		return
	}

	var req model.RegisterDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	created, err := h.service.RegisterDoctor(c.Request.Context(), hospitalID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusCreated, "doctor registered", created)
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	hospitalID, ok := h.hospitalID(c)
	if !ok {
		return
	}

	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	created, err := h.service.RegisterPatient(c.Request.Context(), hospitalID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusCreated, "patient registered", created)
}

func (h *Handler) AdmitPatient(c *gin.Context) {
	hospitalID, ok := h.hospitalID(c)
	if !ok {
		return
	}

	var req model.AdmitPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	admission, err := h.service.AdmitPatient(c.Request.Context(), hospitalID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusCreated, "patient admitted successfully", admission)
}

func (h *Handler) RegisteredPatients(c *gin.Context) {
	if _, ok := h.hospitalID(c); !ok {
		return
	}

	patients, err := h.service.ListRegisteredPatients(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "registered patients fetched successfully", patients)
}

func (h *Handler) AdmittedPatients(c *gin.Context) {
	hospitalID, ok := h.hospitalID(c)
	if !ok {
		return
	}

	admissions, err := h.service.ListAdmittedPatients(c.Request.Context(), hospitalID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "admitted patients retrieved", admissions)
}

func (h *Handler) AssignDoctor(c *gin.Context) {
	if _, ok := h.hospitalID(c); !ok {
		return
	}

	var req model.AssignDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	admission, err := h.service.AssignDoctor(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Respond(c, http.StatusOK, "doctor assigned successfully", admission)
}

func (h *Handler) hospitalID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		handler.Fail(c, apperrors.Validation("invalid hospital ID", err))
		return uuid.Nil, false
	}
	return id, true
}
