package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/carewire/clinical-api/pkg/errors"

	"github.com/carewire/clinical-api/internal/handler"
	"github.com/carewire/clinical-api/internal/middleware"
	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/service/patient"
)

type Handler struct {
	service *patient.Service
	cookies *handler.CookieWriter
}

func NewHandler(service *patient.Service, cookies *handler.CookieWriter) *Handler {
	return &Handler{service: service, cookies: cookies}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, session *middleware.SessionMiddleware) {
	rg.GET("/health", h.Health)
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.DELETE("/delete", h.Delete)
	rg.GET("/current", session.Patient(), h.Current)
}

func (h *Handler) Health(c *gin.Context) {
	handler.Respond(c, http.StatusOK, "health check successful", nil)
}

func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation error", err))
		return
	}

	created, token, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	h.cookies.Issue(c, token)
	handler.Respond(c, http.StatusCreated, "patient created successfully", created)
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
	handler.Respond(c, http.StatusOK, "patient logged in successfully", loggedIn)
}

func (h *Handler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	handler.Respond(c, http.StatusOK, "patient logged out successfully", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	var req model.DeletePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Fail(c, apperrors.Validation("schema validation failed", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), &req); err != nil {
		handler.Fail(c, err)
		return
	}

	h.cookies.Clear(c)
	handler.Respond(c, http.StatusOK, "patient deleted successfully", gin.H{"email": req.Email})
}

// Current returns the session actor as re-fetched by the middleware; the
// password hash never serializes.
func (h *Handler) Current(c *gin.Context) {
	session, ok := middleware.PatientSession(c)
	if !ok {
		handler.Fail(c, apperrors.Authentication("not authenticated", nil))
		return
	}
	handler.Respond(c, http.StatusOK, "current patient fetched successfully", session.Patient)
}
