package middleware

import (
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached by handlers into the standard JSON
// error envelope. Only the first error is rendered, handlers attach at most
// one.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors[0].Err
		status := ierr.HTTPStatusFromErr(err)

		if status >= 500 {
			log.Errorw("request failed",
				"path", c.Request.URL.Path,
				"status", status,
				"error", err)
		}

		c.JSON(status, ierr.NewErrorResponse(err))
	}
}
