package models

import (
	"fmt"
	"strings"

	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// ClassLevel is the enumerated grade band a student belongs to.
type ClassLevel string

const (
	ClassNursery1   ClassLevel = "NURSERY_1"
	ClassNursery2   ClassLevel = "NURSERY_2"
	ClassNursery3   ClassLevel = "NURSERY_3"
	ClassPrePrimary ClassLevel = "PRE_PRIMARY"
)

var classLevelNames = map[ClassLevel]string{
	ClassNursery1:   "Nursery-1",
	ClassNursery2:   "Nursery-2",
	ClassNursery3:   "Nursery-3",
	ClassPrePrimary: "Pre-Primary",
}

// ClassLevels lists the class levels in school order.
var ClassLevels = []ClassLevel{ClassNursery1, ClassNursery2, ClassNursery3, ClassPrePrimary}

// DisplayName returns the human readable name, or the raw value for unknown levels.
func (c ClassLevel) DisplayName() string {
	if name, ok := classLevelNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c is one of the declared class levels.
func (c ClassLevel) Valid() bool {
	_, ok := classLevelNames[c]
	return ok
}

// ParseClassLevel is lenient: it ignores case, treats spaces and hyphens as underscores and
// accepts display names ("Nursery 1", "nursery-1", "Pre-Primary", "PRE_PRIMARY").
func ParseClassLevel(s string) (ClassLevel, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return "", fmt.Errorf("%w: class level is required", apperrors.ErrValidationFailed)
	}

	normalized := strings.ToUpper(raw)
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for strings.Contains(normalized, "__") {
		normalized = strings.ReplaceAll(normalized, "__", "_")
	}
	if c := ClassLevel(normalized); c.Valid() {
		return c, nil
	}

	for c, name := range classLevelNames {
		if strings.EqualFold(name, raw) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: invalid class level %q", apperrors.ErrValidationFailed, s)
}
