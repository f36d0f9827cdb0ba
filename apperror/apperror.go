// Package apperror defines a centralized system for application-specific errors.
// Every layer that can classify a failure turns it into an *AppError; the HTTP layer
// then maps the error's type onto a status code and a `{success:false, error}` body.
// Anything that reaches the HTTP layer unclassified is reported as a server error.
package apperror

import (
	"errors"
	"fmt"
	// `net/http` is used for HTTP status codes.
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// ValidationError represents malformed or missing input
	ValidationError
	// UnauthorizedError represents a missing or invalid credential (no token, bad token, bad password)
	UnauthorizedError
	// ForbiddenError represents a valid identity without the required role
	ForbiddenError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ConflictError represents a conflict, e.g., an email that is already registered
	ConflictError
	// DatabaseError represents an error originating from the store
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// InternalError represents a generic internal server error
	InternalError
)

// String returns a short label for the error type, used in server-side logs.
func (t ErrorType) String() string {
	switch t {
	case ValidationError:
		return "validation"
	case UnauthorizedError:
		return "unauthorized"
	case ForbiddenError:
		return "forbidden"
	case NotFoundError:
		return "not_found"
	case ConflictError:
		return "conflict"
	case DatabaseError:
		return "database"
	case ConfigError:
		return "config"
	case InternalError:
		return "internal"
	default:
		return "unknown"
	}
}

// AppError is a custom error type for the application.
// `Message` is what the client sees; `Err` is the underlying cause and stays server-side.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so `errors.Is` and `errors.As` can inspect the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case UnauthorizedError:
		// 401: the caller is not authenticated (no token, bad token, bad credentials).
		return http.StatusUnauthorized
	case ForbiddenError:
		// 403: the caller is authenticated but its role is not allowed on the route.
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsServerError reports whether the error maps to a 5xx response.
// The message of such errors is never shown to clients.
func (e *AppError) IsServerError() bool {
	return e.StatusCode() >= http.StatusInternalServerError
}

// NewAppError creates a new AppError. This is the generic constructor the
// typed helpers below delegate to.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewUnauthorizedError creates a new UnauthorizedError (authentication failed)
func NewUnauthorizedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthorizedError, message, underlyingError)
}

// NewForbiddenError creates a new ForbiddenError (authorization failed)
func NewForbiddenError(message string, underlyingError error) *AppError {
	return NewAppError(ForbiddenError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// ErrorResponse is the error payload every endpoint returns.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"A description of the error"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing `Message` is included, never the underlying `Err`.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Success: false, Error: e.Message}
}

// FromError finds an *AppError anywhere in err's chain.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether err carries an AppError of the given type.
func Is(err error, t ErrorType) bool {
	ae, ok := FromError(err)
	return ok && ae.Type == t
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool { return Is(err, NotFoundError) }

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool { return Is(err, ValidationError) }

// IsUnauthorizedError checks if an error is an Unauthorized (authentication) error
func IsUnauthorizedError(err error) bool { return Is(err, UnauthorizedError) }

// IsForbiddenError checks if an error is a Forbidden (authorization) error
func IsForbiddenError(err error) bool { return Is(err, ForbiddenError) }

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool { return Is(err, ConflictError) }
