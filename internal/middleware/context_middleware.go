package middleware

import (
	"go-employee-gateway/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a logger tagged with the request id to the request
// context so services can log without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		rid := contextutil.GetRequestID(ctx)
		if rid == "" {
			rid = c.GetHeader(contextutil.RequestIDHeader)
		}
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header(contextutil.RequestIDHeader, rid)

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("client_ip", c.ClientIP()),
		)

		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
