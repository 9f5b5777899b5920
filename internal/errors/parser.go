package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a client-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies errors that escaped the service layer untyped:
// driver-level failures, constraint violations, and plain record-not-found.
// Service sentinels are handled before this by the controllers; anything
// reaching here is mapped conservatively so internals never leak.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (PostgreSQL 23505, SQLite "UNIQUE constraint failed")
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    DealDanglingReference,
			Message: "A referenced record does not exist",
		}
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// Connectivity failures
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The datastore is unreachable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "path") || strings.Contains(errLower, "idx_categories_path") {
		return ErrorInfo{
			Code:    CategoryDuplicatePath,
			Message: "A category with this path already exists",
		}
	}

	if strings.Contains(errLower, "uid") || strings.Contains(errLower, "idx_users_uid") {
		return ErrorInfo{
			Code:    UserDuplicateIdentity,
			Message: "This identity is already bound to a user",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "The record already exists. Please retry",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The record already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "deal") {
		return "Deal not found"
	}
	if strings.Contains(contextLower, "category") || strings.Contains(contextLower, "tag") {
		return "Category not found"
	}
	if strings.Contains(contextLower, "store") {
		return "Store not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}

	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "post") {
		return "Creation failed. Please try again later"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "vote") {
		return "Update failed. Please try again later"
	}
	if strings.Contains(contextLower, "list") || strings.Contains(contextLower, "get") {
		return "Lookup failed. Please try again later"
	}

	return "An internal error occurred. Please try again later"
}
