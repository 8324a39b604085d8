package util

import (
	stderrors "errors"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/errors"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/repository"
	"go.uber.org/zap"
)

var exposeErrorDetails atomic.Bool

// SetExposeErrorDetails controls whether 500 responses carry the underlying
// error text. It is enabled outside production.
func SetExposeErrorDetails(enabled bool) {
	exposeErrorDetails.Store(enabled)
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondWithAPIError sends a structured API error response
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	fields := []zap.Field{
		zap.String("code", string(apiErr.Code)),
		zap.String("message", apiErr.Message),
		zap.String("path", c.FullPath()),
		logger.WithRequestID(GetRequestID(c)),
	}
	if apiErr.Field != "" {
		fields = append(fields, zap.String("field", apiErr.Field))
	}

	if apiErr.Status >= http.StatusInternalServerError {
		if apiErr.Details != "" {
			fields = append(fields, zap.String("details", apiErr.Details))
		}
		logger.Log.Error("API error", append(fields, logger.WithStatus(apiErr.Status))...)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error", fields...)
	}

	response := ErrorResponse{
		Code:    string(apiErr.Code),
		Message: apiErr.Message,
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	if apiErr.Status >= http.StatusInternalServerError && !exposeErrorDetails.Load() {
		response.Details = ""
	}
	c.AbortWithStatusJSON(apiErr.Status, response)
}

// RespondWithError maps a domain error to its API error and sends it.
// Unknown errors become 500s.
func RespondWithError(c *gin.Context, err error) {
	var apiErr *errors.APIError
	switch {
	case stderrors.As(err, &apiErr):
	case stderrors.Is(err, repository.ErrTopicNotFound):
		apiErr = errors.NotFound("Topic")
	case stderrors.Is(err, repository.ErrReplyNotFound):
		apiErr = errors.NotFound("Reply")
	case stderrors.Is(err, repository.ErrSalonNotFound):
		apiErr = errors.NotFound("Salon")
	case stderrors.Is(err, repository.ErrBlogPostNotFound):
		apiErr = errors.NotFound("Blog post")
	case stderrors.Is(err, repository.ErrMaxDepthExceeded):
		apiErr = errors.NestingDepthExceeded(err.Error())
	case stderrors.Is(err, repository.ErrInvalidInput):
		apiErr = errors.BadRequest(err.Error())
	default:
		apiErr = errors.InternalError("Internal Server Error").WithDetails(err.Error())
	}
	RespondWithAPIError(c, apiErr)
}

// RespondValidationError sends a 400 response naming the offending field
func RespondValidationError(c *gin.Context, field, message string) {
	RespondWithAPIError(c, errors.ValidationError(field, message))
}

// RespondRateLimited sends a 429 response with the guard's reason
func RespondRateLimited(c *gin.Context, reason string) {
	RespondWithAPIError(c, errors.RateLimited(reason))
}

// RespondInternalError sends a 500 response, attaching err as details
func RespondInternalError(c *gin.Context, message string, err error) {
	apiErr := errors.InternalError(message)
	if err != nil {
		apiErr = apiErr.WithDetails(err.Error())
	}
	RespondWithAPIError(c, apiErr)
}
