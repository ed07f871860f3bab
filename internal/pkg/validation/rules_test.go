package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name    string
		rule    *StringValidation
		wantErr string
	}{
		{"required empty", NewStringValidation("firstName", ""), "firstName is required"},
		{"optional empty", NewStringValidation("email", "").WithRequired(false), ""},
		{"too long", NewStringValidation("lastName", strings.Repeat("é", 101)).WithMaxLength(NameMaxLength), "at most 100"},
		{"accented fits", NewStringValidation("lastName", strings.Repeat("é", 100)).WithMaxLength(NameMaxLength), ""},
		{"year ok", NewStringValidation("academicYear", "2024-2025").WithPattern(CompiledPatterns.AcademicYear, "2024-2025"), ""},
		{"year bad", NewStringValidation("academicYear", "2024/25").WithPattern(CompiledPatterns.AcademicYear, "2024-2025"), "must look like 2024-2025"},
		{"phone ok", NewStringValidation("phone", "+250781234567").WithPattern(CompiledPatterns.Phone, ""), ""},
		{"phone bad", NewStringValidation("phone", "07812").WithPattern(CompiledPatterns.Phone, ""), "invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNumericValidationAndAll(t *testing.T) {
	assert.NoError(t, NewNumericValidation("indexOrder", 0).WithMin(0).Validate())
	err := NewNumericValidation("indexOrder", -1).WithMin(0).Validate()
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = All(
		NewStringValidation("name", "Dessin"),
		NewNumericValidation("score", 120).WithMin(0).WithMax(100),
		NewStringValidation("category", ""),
	)
	assert.ErrorContains(t, err, "score must be at most 100")
}
