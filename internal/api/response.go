package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/grading"
)

// Error codes carried in the envelope.
const (
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeAIUnavailable  = "ai_unavailable"
	CodeAITransport    = "ai_transport"
	CodeAIParse        = "ai_parse"
	CodeAIInvalidShape = "ai_invalid_shape"
	CodeInternal       = "internal"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func badRequest(c *gin.Context, msg string) {
	RespondError(c, http.StatusBadRequest, CodeInvalidRequest, errors.New(msg))
}

// classify maps a service error onto a status, code and client message.
// Errors outside the ai kinds are reported without their detail.
func classify(err error) (int, APIError) {
	if errors.Is(err, grading.ErrInvalidGrade) {
		return http.StatusBadRequest, APIError{Message: err.Error(), Code: CodeInvalidRequest}
	}
	switch ai.KindOf(err) {
	case ai.KindNotFound:
		return http.StatusNotFound, APIError{Message: ai.Message(err), Code: CodeNotFound}
	case ai.KindUnavailable:
		return http.StatusServiceUnavailable, APIError{Message: ai.Message(err), Code: CodeAIUnavailable}
	case ai.KindTransport:
		return http.StatusBadGateway, APIError{Message: ai.Message(err), Code: CodeAITransport}
	case ai.KindParse:
		return http.StatusBadGateway, APIError{Message: ai.Message(err), Code: CodeAIParse}
	case ai.KindInvalidShape:
		return http.StatusBadGateway, APIError{Message: ai.Message(err), Code: CodeAIInvalidShape}
	}
	return http.StatusInternalServerError, APIError{Message: "internal error", Code: CodeInternal}
}

func (h *handler) respondErr(c *gin.Context, err error) {
	status, apiErr := classify(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: apiErr})
}
