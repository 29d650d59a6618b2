package server

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/locus/errors"
)

// RespondWithError writes err as an ErrorResponse. AppErrors keep their
// status; anything else becomes a 500 INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.ToAppError(err)
	_ = c.Error(err)
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}
