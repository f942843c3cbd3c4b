package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/logger"
)

// RespondWithError writes err as a JSON error body. AppErrors carry their
// own status; anything else becomes a 500 INTERNAL_ERROR. Server-side
// failures are logged with the request id.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.From(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Get("server").WithContext(c.Request.Context()).
			WithError(err).Error("Request failed", logger.Fields("code", string(appErr.Code)))
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 JSON response.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
