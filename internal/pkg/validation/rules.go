// Package validation holds the field rules shared by the services. Failed rules wrap
// apperrors.ErrValidationFailed and name the offending field.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Academic year label, e.g. 2024-2025
	AcademicYearPattern = `^(\d{4})-(\d{4})$`

	// Phone numbers are stored as typed: optional +, then 10 to 15 digits
	PhonePattern = `^\+?\d{10,15}$`

	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	AcademicYear *regexp.Regexp
	Phone        *regexp.Regexp
}{
	AcademicYear: regexp.MustCompile(AcademicYearPattern),
	Phone:        regexp.MustCompile(PhonePattern),
}

// StringValidation checks one string field
type StringValidation struct {
	Field    string
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
	Hint     string
}

// NewStringValidation creates a required string validation
func NewStringValidation(field, value string) *StringValidation {
	return &StringValidation{
		Field:    field,
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets the minimum length in characters
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets the maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets the pattern and the hint shown when it does not match
func (v *StringValidation) WithPattern(pattern *regexp.Regexp, hint string) *StringValidation {
	v.Pattern = pattern
	v.Hint = hint
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate returns nil or an error wrapping ErrValidationFailed
func (v *StringValidation) Validate() error {
	if v.Value == "" {
		if v.Required {
			return fmt.Errorf("%w: %s is required", apperrors.ErrValidationFailed, v.Field)
		}
		return nil
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return fmt.Errorf("%w: %s must be at least %d characters", apperrors.ErrValidationFailed, v.Field, v.MinLen)
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return fmt.Errorf("%w: %s must be at most %d characters", apperrors.ErrValidationFailed, v.Field, v.MaxLen)
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		if v.Hint != "" {
			return fmt.Errorf("%w: %s must look like %s", apperrors.ErrValidationFailed, v.Field, v.Hint)
		}
		return fmt.Errorf("%w: %s has an invalid format", apperrors.ErrValidationFailed, v.Field)
	}
	return nil
}

// NumericValidation checks one integer field against inclusive bounds
type NumericValidation struct {
	Field  string
	Value  int
	Min    int
	Max    int
	HasMin bool
	HasMax bool
}

// NewNumericValidation creates an unbounded numeric validation
func NewNumericValidation(field string, value int) *NumericValidation {
	return &NumericValidation{Field: field, Value: value}
}

// WithMin sets the minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min, v.HasMin = min, true
	return v
}

// WithMax sets the maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max, v.HasMax = max, true
	return v
}

// Validate returns nil or an error wrapping ErrValidationFailed
func (v *NumericValidation) Validate() error {
	if v.HasMin && v.Value < v.Min {
		return fmt.Errorf("%w: %s must be at least %d", apperrors.ErrValidationFailed, v.Field, v.Min)
	}
	if v.HasMax && v.Value > v.Max {
		return fmt.Errorf("%w: %s must be at most %d", apperrors.ErrValidationFailed, v.Field, v.Max)
	}
	return nil
}

// All runs the validations in order and returns the first failure
func All(rules ...interface{ Validate() error }) error {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}
