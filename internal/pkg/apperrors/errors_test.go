package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorsWrapCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category error
	}{
		{"student", ErrStudentNotFound, ErrResourceNotFound},
		{"report", ErrReportNotFound, ErrResourceNotFound},
		{"academic data conflict", ErrAcademicDataExists, ErrConflict},
		{"phone conflict", ErrPhoneAlreadyExists, ErrConflict},
		{"enrollment", ErrNotEnrolled, ErrValidationFailed},
		{"score", ErrScoreRange, ErrValidationFailed},
		{"image", ErrUnsupportedImage, ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("%w: extra context", tt.err)
			assert.ErrorIs(t, wrapped, tt.category)
			assert.ErrorIs(t, wrapped, tt.err)
		})
	}
}

func TestBatchError(t *testing.T) {
	err := error(&BatchError{Messages: []string{"first", "second"}})

	assert.Equal(t, "Failed to add any marks. Errors: first; second", err.Error())
	assert.ErrorIs(t, err, ErrValidationFailed)

	var batch *BatchError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &batch))
	assert.Len(t, batch.Messages, 2)
}

func TestRenderingError(t *testing.T) {
	err := NewRenderingError(errors.New("font missing"))

	assert.ErrorIs(t, err, ErrRendering)
	assert.Contains(t, err.Error(), "font missing")
}

func TestMessage(t *testing.T) {
	err := NewConflictError("module already exists")

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrResourceNotFound)
	assert.Equal(t, "module already exists", Message(fmt.Errorf("ctx: %w", err)))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestForbiddenErrorKeepsMessage(t *testing.T) {
	err := NewForbiddenError("PARENTS cannot manage report")

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "PARENTS cannot manage report", Message(fmt.Errorf("ctx: %w", err)))
}
