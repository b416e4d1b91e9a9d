package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/zandres28/imvcrm/internal/types"
)

const headerRequestID = "X-Request-ID"

// RequestIDMiddleware tags every request with an ID for log correlation
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(headerRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(headerRequestID, requestID)

	c.Next()
}
