package middleware

import (
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/gin-gonic/gin"
)

// RequestIDMiddleware attaches a request id to the context and echoes it in
// the response, honoring an incoming X-Request-ID when the caller sets one
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Request-ID", requestID)

	c.Next()
}
