// Package response provides JSON response helpers shared by all handlers.
package response

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Body is the envelope every endpoint responds with.
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Data writes a success envelope with a payload.
func Data(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Body{Success: true, Data: data})
}

// Message writes a success envelope with a message only.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Success: true, Message: message})
}

// Error writes a failure envelope with a client-facing message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Success: false, Error: message})
}

// ErrorCode writes a failure envelope carrying a machine-readable code
// alongside the message (e.g. TOKEN_EXPIRED).
func ErrorCode(c *gin.Context, status int, message, code string) {
	c.JSON(status, Body{Success: false, Error: message, Code: code})
}

// ErrorDetails writes a failure envelope with field-level detail.
func ErrorDetails(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, Body{Success: false, Error: message, Details: details})
}

// LogAndError logs the underlying error server-side and responds with a
// generic client-facing message. Internals never reach the client.
func LogAndError(c *gin.Context, status int, err error, message string) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	Error(c, status, message)
}
