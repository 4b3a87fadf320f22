package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/carewire/clinical-api/pkg/errors"
)

// Response is the uniform success envelope.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

// ErrorEnvelope is the uniform failure envelope. The statuscode key is
// lowercase on the wire; the shape is preserved for client compatibility.
type ErrorEnvelope struct {
	StatusCode int         `json:"statuscode"`
	Message    string      `json:"message"`
	Error      interface{} `json:"error"`
	Stack      string      `json:"stack,omitempty"`
}

func Respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// Fail recovers any service error into the failure envelope. Nothing
// escapes unformatted.
func Fail(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus()

	envelope := ErrorEnvelope{
		StatusCode: status,
		Message:    appErr.Message,
		Error: gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	}
	if gin.IsDebugging() && appErr.Err != nil {
		envelope.Stack = appErr.Err.Error()
	}

	c.AbortWithStatusJSON(status, envelope)
}
