// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	ErrorCodeInvalidJSON         ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery        ErrorCode = "INVALID_QUERY"
	ErrorCodeInvalidTopK         ErrorCode = "INVALID_TOP_K"
	ErrorCodeInvalidMode         ErrorCode = "INVALID_MODE"
	ErrorCodeInvalidID           ErrorCode = "INVALID_ID"
	ErrorCodeProfessorNotFound   ErrorCode = "PROFESSOR_NOT_FOUND"
	ErrorCodePublicationNotFound ErrorCode = "PUBLICATION_NOT_FOUND"
	ErrorCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrorCodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// APIError is the standard error envelope. Every non-2xx response carries
// one.
type APIError struct {
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// SendError writes the error envelope, attaching the request id when the
// middleware has set one.
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string) {
	resp := &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			resp.RequestID = id
		}
	}
	c.JSON(statusCode, resp)
}
