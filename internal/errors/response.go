package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code (see codes.go)
	Message string `json:"message"` // human-readable message
}

// RespondWithError writes the standard error envelope.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shortcuts for the common responses.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An internal error occurred. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field messages for request binding failures.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Request validation failed",
		Fields:  fields,
	})
}

// RespondWithBindingError writes a 400 for a request body that failed to bind.
// Field-level validation failures include the failing tag per field.
func RespondWithBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		RespondWithValidationError(c, fields)
		return
	}

	BadRequest(c, ValidationInvalidInput, "Invalid request data")
}

// RespondWithParsedError classifies an error that escaped the service layer
// untyped and writes the matching envelope. Controllers handle service
// sentinels first; this is the fallback for driver and constraint errors.
func RespondWithParsedError(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, statusForCode(info.Code), info.Code, info.Message)
}

func statusForCode(code string) int {
	switch code {
	case ResourceNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, CategoryDuplicatePath, UserDuplicateIdentity:
		return http.StatusConflict
	case DealDanglingReference, ValidationRequired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
