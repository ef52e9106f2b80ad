package errors

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidIdentifier
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUploadFailed
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = Unauthorized("Invalid credentials")
	// ErrImageRequired is returned when a create request carries neither a file nor a URL.
	ErrImageRequired = Validation("Please provide an image URL or upload an image file.", "image")
	// ErrUploadFailed is returned when the media host rejects an upload.
	ErrUploadFailed = &Error{Kind: KindUploadFailed, Message: "Image upload failed. Please try again."}
)

// Error is an application error carrying its classification.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind and message, so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// Validation builds a 400 error listing the offending fields.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// InvalidIdentifier builds an error for a structurally invalid id.
func InvalidIdentifier(resource string) *Error {
	return &Error{Kind: KindInvalidIdentifier, Message: "Invalid " + resource + " ID format"}
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden builds a 403 error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds an error for a duplicate unique field.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unclassified failure.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Stack   string   `json:"stack,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
		Fields:  e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}

	var httpErr *HTTPError
	switch appErr.Kind {
	case KindValidation:
		httpErr = NewHTTPError(http.StatusBadRequest, appErr.Message, "VALIDATION_ERROR")
		httpErr.Fields = appErr.Fields
	case KindInvalidIdentifier:
		httpErr = NewHTTPError(http.StatusBadRequest, appErr.Message, "INVALID_ID")
	case KindUnauthorized:
		httpErr = NewHTTPError(http.StatusUnauthorized, appErr.Message, "UNAUTHORIZED")
	case KindForbidden:
		httpErr = NewHTTPError(http.StatusForbidden, appErr.Message, "FORBIDDEN")
	case KindNotFound:
		httpErr = NewHTTPError(http.StatusNotFound, appErr.Message, "NOT_FOUND")
	case KindConflict:
		httpErr = NewHTTPError(http.StatusBadRequest, appErr.Message, "CONFLICT")
	case KindUploadFailed:
		httpErr = NewHTTPError(http.StatusInternalServerError, appErr.Message, "UPLOAD_FAILED")
	default:
		httpErr = NewHTTPError(http.StatusInternalServerError, appErr.Message, "INTERNAL_ERROR")
	}
	return httpErr
}

// MissingFieldsMessage renders the standard message for absent required fields.
func MissingFieldsMessage(fields []string) string {
	return "Please include all required fields: " + strings.Join(fields, ", ") + "."
}
