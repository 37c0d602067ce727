package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/platform/telemetry"
)

// traceIDKey is the gin context key middleware may use to pin a trace ID.
const traceIDKey = "trace_id"

// User-facing messages for errors that carry no message of their own.
const (
	msgUnavailable = "The quote store is temporarily unavailable. Try again later."
	msgInternal    = "An internal error occurred."
)

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors and store faults map to 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	resp := errorResponseFor(err)

	return StatusFor(resp.Error.Code), resp
}

func errorResponseFor(err error) *ErrorResponse {
	var validationErr *domain.ValidationError

	switch {
	case domain.IsNotFound(err):
		return NewErrorResponse(ErrorCodeNotFound, notFoundMessage(err))
	case domain.IsConflict(err):
		return NewErrorResponse(ErrorCodeConflict, conflictMessage(err))
	case errors.As(err, &validationErr):
		resp := NewErrorResponse(ErrorCodeValidation, validationErr.Message)
		if validationErr.Field != "" {
			resp.WithDetails(map[string]string{validationErr.Field: validationErr.Message})
		}

		return resp
	case domain.IsValidation(err):
		return NewErrorResponse(ErrorCodeValidation, err.Error())
	case domain.IsUnavailable(err):
		return NewErrorResponse(ErrorCodeUnavailable, msgUnavailable)
	default:
		return NewErrorResponse(ErrorCodeInternal, msgInternal)
	}
}

// HandleError writes the error response for err. Internal errors are logged
// with their cause since the response hides it.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			"error", err.Error(),
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// AbortWithErrorCode stops the handler chain with an adapter-level error.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(StatusFor(code), resp)
}

// RespondWithValidationErrors writes a 400 with field-level binding failures.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	resp := NewErrorResponse(ErrorCodeValidation, "request validation failed").WithDetails(fieldErrors)
	c.JSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))
}

// GetTraceID returns the trace ID for the response envelope. A string pinned
// under "trace_id" wins, then the active span, then the X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(traceIDKey); ok {
		id, _ := v.(string)
		return id
	}

	if c.Request == nil {
		return ""
	}

	if id := telemetry.TraceID(c.Request.Context()); id != "" {
		return id
	}

	return c.GetHeader("X-Request-ID")
}

func notFoundMessage(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}

	return err.Error()
}

func conflictMessage(err error) string {
	var ae *domain.AlreadyExistsError
	if errors.As(err, &ae) {
		return ae.Error()
	}

	return err.Error()
}
