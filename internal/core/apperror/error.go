// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All conversion and business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes following domain-driven design
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Value conversion errors (400)
	CodeFormat     = "FORMAT_ERROR"
	CodeParse      = "PARSE_ERROR"
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (409, 422)
	CodeConflict               = "CONFLICT"
	CodeDuplicate              = "DUPLICATE_ENTRY"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeBuiltinType            = "BUILTIN_TYPE_IMMUTABLE"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (type name, offending value, bounds, kinds)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for conversion errors ---

// NewFormat creates a format error: a type was asked to format a value
// to a representation kind it does not support.
func NewFormat(typeName, targetKind string) *AppError {
	return &AppError{
		Code:       CodeFormat,
		Message:    fmt.Sprintf("type %s cannot format to target kind %q", typeName, targetKind),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"type": typeName, "targetKind": targetKind},
	}
}

// NewFormatValue creates a format error for a value the type cannot represent.
func NewFormatValue(typeName string, value any) *AppError {
	return &AppError{
		Code:       CodeFormat,
		Message:    fmt.Sprintf("type %s cannot format value %v", typeName, value),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"type": typeName, "value": value},
	}
}

// NewParse creates a parse error for input that is not a valid value
// of the given type.
func NewParse(typeName string, raw any) *AppError {
	return &AppError{
		Code:       CodeParse,
		Message:    fmt.Sprintf("%v is not a valid %s", raw, typeName),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"type": typeName, "value": raw},
	}
}

// NewParseKind creates a parse error for an unsupported source representation kind.
func NewParseKind(typeName, sourceKind string) *AppError {
	return &AppError{
		Code:       CodeParse,
		Message:    fmt.Sprintf("type %s cannot parse from source kind %q", typeName, sourceKind),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"type": typeName, "sourceKind": sourceKind},
	}
}

// NewValidateNull is returned when a non-nullable type receives a null value.
func NewValidateNull(typeName string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf("null is not allowed for type %s", typeName),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"type": typeName},
	}
}

// NewValidateKind is returned when a value has the wrong runtime kind
// (e.g. a string given to an integer type, or a non-integral number).
func NewValidateKind(typeName, actualKind string, value any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf("%v (%s) is not a valid %s value", value, actualKind, typeName),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"type": typeName, "kind": actualKind, "value": value},
	}
}

// NewValidateRange is returned when a value falls outside the type's
// inclusive [minimum, maximum] bounds.
func NewValidateRange(typeName string, value, minimum, maximum any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf("value %v of type %s is out of range [%v, %v]", value, typeName, minimum, maximum),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"type":    typeName,
			"value":   value,
			"minimum": minimum,
			"maximum": maximum,
		},
	}
}

// NewValidateRule is returned when a value fails a type's refinement rule.
func NewValidateRule(typeName string, value any, rule string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf("value %v of type %s violates rule %q", value, typeName, rule),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"type": typeName, "value": value, "rule": rule},
	}
}

// NewValidation creates a generic validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// --- Factory functions for service errors ---

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewBuiltinImmutable is returned when a request tries to redefine or
// delete one of the built-in types.
func NewBuiltinImmutable(typeName string) *AppError {
	return &AppError{
		Code:       CodeBuiltinType,
		Message:    fmt.Sprintf("built-in type %s cannot be modified", typeName),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"type": typeName},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsCode checks if error carries the given machine-readable code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
