package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
)

// Envelope is the uniform API response shape.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorBody carries the machine-readable error payload.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes a success envelope.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// JSONWithMeta writes a success envelope with metadata.
func JSONWithMeta(c *gin.Context, status int, data, meta interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data, Meta: meta})
}

// Error writes the error envelope derived from any error value.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: appErr.Code, Message: appErr.Message},
	})
}
