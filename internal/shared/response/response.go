package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorEnvelope is the body of every failed facade response.
type ErrorEnvelope struct {
	Ok    bool      `json:"ok"`
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes the payload as-is. The facade keeps the upstream resource
// shapes (employee objects, name lists, bare integers) without wrapping them.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Ok: false,
		Error: ErrorBody{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
	})
}
