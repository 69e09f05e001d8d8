package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/validation"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string                  `json:"message"`
	Code    string                  `json:"code"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// AbortWithError writes err and stops the handler chain. Details are kept
// for logs only.
func AbortWithError(c *gin.Context, err *apperrors.AppError) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.Status, ErrorResponse{Message: err.Message, Code: err.Code})
}

// AbortWithFields writes a validation failure listing each bad field.
func AbortWithFields(c *gin.Context, err *apperrors.AppError, fields []validation.FieldError) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.Status, ErrorResponse{Message: err.Message, Code: err.Code, Errors: fields})
}
