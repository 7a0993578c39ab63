package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-shortscript/internal/apierr"
	"github.com/alnah/go-shortscript/internal/session"
	"github.com/alnah/go-shortscript/internal/workflow"
)

// Error codes returned in the response envelope.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeEmptyInput      = "EMPTY_INPUT"
	CodeUnknownIdea     = "UNKNOWN_IDEA"
	CodeNoIdeas         = "NO_IDEAS"
	CodeNoScript        = "NO_SCRIPT"
	CodeBusy            = "BUSY"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeGeneration      = "GENERATION_FAILED"
	CodeGenerationAuth  = "GENERATION_AUTH_FAILED"
	CodeGenerationRate  = "GENERATION_RATE_LIMITED"
	CodeGenerationQuota = "GENERATION_QUOTA_EXCEEDED"
	CodeGenerationTime  = "GENERATION_TIMEOUT"
	CodeGenerationEmpty = "GENERATION_EMPTY"
	CodeInternal        = "INTERNAL_ERROR"
)

// Envelope wraps every API response.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError is the error part of an Envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{
		Error:     &APIError{Code: code, Message: message},
		Timestamp: time.Now(),
	})
}

// respondErr maps a workflow, session or generation error to a status, a
// code and a message safe to show in the browser.
func respondErr(c *gin.Context, err error) {
	status, code, msg := classify(err)
	_ = c.Error(err)
	respondError(c, status, code, msg)
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, workflow.ErrEmptyInput):
		return http.StatusBadRequest, CodeEmptyInput, "Paste a transcript first."
	case errors.Is(err, workflow.ErrBusy):
		return http.StatusConflict, CodeBusy, "Another action is still running. Wait for it to finish."
	case errors.Is(err, workflow.ErrNoIdeas):
		return http.StatusConflict, CodeNoIdeas, "Generate ideas before asking for a script."
	case errors.Is(err, workflow.ErrNoScript):
		return http.StatusConflict, CodeNoScript, "Generate a script before revising it."
	case errors.Is(err, workflow.ErrUnknownIdea):
		return http.StatusNotFound, CodeUnknownIdea, "That idea is no longer available. Pick one from the current list."
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, CodeSessionNotFound, "Your session expired. Reload the page."
	case errors.Is(err, workflow.ErrGeneration):
		return classifyGeneration(err)
	}
	return http.StatusInternalServerError, CodeInternal, "Something went wrong."
}

func classifyGeneration(err error) (int, string, string) {
	switch {
	case errors.Is(err, apierr.ErrAuthFailed):
		return http.StatusBadGateway, CodeGenerationAuth, "The generation service rejected the API key."
	case errors.Is(err, apierr.ErrQuotaExceeded):
		return http.StatusBadGateway, CodeGenerationQuota, "The generation service quota is exhausted."
	case errors.Is(err, apierr.ErrRateLimit):
		return http.StatusBadGateway, CodeGenerationRate, "The generation service is rate limiting requests. Try again shortly."
	case errors.Is(err, apierr.ErrTimeout):
		return http.StatusGatewayTimeout, CodeGenerationTime, "The generation service did not answer in time. Try again."
	case errors.Is(err, apierr.ErrServiceUnavailable):
		return http.StatusBadGateway, CodeGeneration, "The generation service reported an internal error. Try again."
	case errors.Is(err, apierr.ErrEmptyResponse):
		return http.StatusBadGateway, CodeGenerationEmpty, "The generation service returned no text. Try again."
	}
	return http.StatusBadGateway, CodeGeneration, "The generation service call failed. Try again."
}
