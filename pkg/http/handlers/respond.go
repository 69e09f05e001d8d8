package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/http/middleware"
	"github.com/jgirmay/attendance/pkg/validation"
)

// Clock supplies the current instant; tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// respondError writes err as {message, code}. Anything that is not an
// AppError is reported as a store failure.
func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, apperrors.From(err))
}

// bindJSON decodes the body into dst, writing a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if fields := validation.Fields(err); fields != nil {
			middleware.AbortWithFields(c, apperrors.Validation(validation.Summary(fields), ""), fields)
			return false
		}
		middleware.AbortWithError(c, apperrors.Validation("Invalid request body", err.Error()))
		return false
	}
	return true
}
