package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Document generation errors
	ErrRendering = errors.New("document rendering failed")

	// Storage errors
	ErrStorage = errors.New("photo storage failed")
)

// Domain errors. Each wraps one of the generic sentinels above so handlers can map them by category.
var (
	ErrStudentNotFound      = fmt.Errorf("%w: student not found", ErrResourceNotFound)
	ErrModuleNotFound       = fmt.Errorf("%w: module not found", ErrResourceNotFound)
	ErrAcademicDataNotFound = fmt.Errorf("%w: academic data not found", ErrResourceNotFound)
	ErrReportNotFound       = fmt.Errorf("%w: report not found", ErrResourceNotFound)
	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrResourceNotFound)

	ErrAcademicDataExists = fmt.Errorf("%w: academic data already exists for this trimester, year and period", ErrConflict)
	ErrPhoneAlreadyExists = fmt.Errorf("%w: phone number already registered", ErrConflict)
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrModuleNameExists   = fmt.Errorf("%w: module name already exists", ErrConflict)

	// ErrNotEnrolled is the enrollment error: the student's module set does not contain the module.
	ErrNotEnrolled = fmt.Errorf("%w: student is not enrolled in module", ErrValidationFailed)
	ErrScoreRange  = fmt.Errorf("%w: score must be between 0 and 100", ErrValidationFailed)
	ErrNotAParent  = fmt.Errorf("%w: user does not have the PARENTS role", ErrValidationFailed)

	ErrUnsupportedImage = fmt.Errorf("%w: file is not a supported image", ErrValidationFailed)
	ErrImageTooLarge    = fmt.Errorf("%w: image exceeds the maximum allowed size", ErrValidationFailed)
	ErrEmptyImage       = fmt.Errorf("%w: image is empty", ErrValidationFailed)
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a permission denied error whose message names the refused action
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewRenderingError wraps a document library failure.
func NewRenderingError(cause error) error {
	return &CustomError{Err: ErrRendering, Message: fmt.Sprintf("%s: %v", ErrRendering, cause)}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// BatchError is returned when every item of a bulk operation failed. It carries one message per item.
type BatchError struct {
	Messages []string
}

// Error implements error interface
func (e *BatchError) Error() string {
	return "Failed to add any marks. Errors: " + strings.Join(e.Messages, "; ")
}

// Unwrap classifies a failed batch as a validation failure.
func (e *BatchError) Unwrap() error {
	return ErrValidationFailed
}

// Message returns the user-facing text of err: the CustomError message when present, err.Error() otherwise.
func Message(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Error()
	}
	return err.Error()
}
