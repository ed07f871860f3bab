package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// Trimester of the school year.
type Trimester string

const (
	TrimesterFirst  Trimester = "FIRST"
	TrimesterSecond Trimester = "SECOND"
	TrimesterThird  Trimester = "THIRD"
)

// Trimesters lists the trimesters in calendar order.
var Trimesters = []Trimester{TrimesterFirst, TrimesterSecond, TrimesterThird}

// Value is the trimester number, 1 to 3. Unknown trimesters return 0.
func (t Trimester) Value() int {
	for i, v := range Trimesters {
		if v == t {
			return i + 1
		}
	}
	return 0
}

// DisplayName returns e.g. "First Trimester".
func (t Trimester) DisplayName() string {
	switch t {
	case TrimesterFirst:
		return "First Trimester"
	case TrimesterSecond:
		return "Second Trimester"
	case TrimesterThird:
		return "Third Trimester"
	}
	return string(t)
}

// Roman returns I, II or III.
func (t Trimester) Roman() string {
	switch t.Value() {
	case 1:
		return "I"
	case 2:
		return "II"
	case 3:
		return "III"
	}
	return string(t)
}

// Label is the heading used on printed documents, e.g. "TRIMESTRE II".
func (t Trimester) Label() string {
	return "TRIMESTRE " + t.Roman()
}

// Valid reports whether t is declared.
func (t Trimester) Valid() bool {
	return t.Value() > 0
}

// TrimesterFromValue maps 1..3 to a trimester.
func TrimesterFromValue(v int) (Trimester, error) {
	if v < 1 || v > len(Trimesters) {
		return "", fmt.Errorf("%w: trimester must be 1, 2 or 3", apperrors.ErrValidationFailed)
	}
	return Trimesters[v-1], nil
}

// ParseTrimester accepts a number ("2"), a name ("second") or a Roman numeral ("II").
func ParseTrimester(s string) (Trimester, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(v); err == nil {
		return TrimesterFromValue(n)
	}
	for _, t := range Trimesters {
		if v == string(t) || v == t.Roman() {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: invalid trimester %q", apperrors.ErrValidationFailed, s)
}

// Period inside a trimester.
type Period string

const (
	Period1       Period = "PERIOD_1"
	Period2       Period = "PERIOD_2"
	Period3       Period = "PERIOD_3"
	FinalSemester Period = "FINAL_SEMESTER"
)

var periods = []Period{Period1, Period2, Period3, FinalSemester}

// Order is the sort position of the period, starting at 1; unknown periods sort last.
func (p Period) Order() int {
	for i, v := range periods {
		if v == p {
			return i + 1
		}
	}
	return len(periods) + 1
}

// DisplayName returns e.g. "Period 1" or "Final Semester".
func (p Period) DisplayName() string {
	switch p {
	case Period1:
		return "Period 1"
	case Period2:
		return "Period 2"
	case Period3:
		return "Period 3"
	case FinalSemester:
		return "Final Semester"
	}
	return string(p)
}

// Valid reports whether p is declared.
func (p Period) Valid() bool {
	return p.Order() <= len(periods)
}

// ParsePeriod accepts the enum name or the display name in any case.
func ParsePeriod(s string) (Period, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, " ", "_")
	if p := Period(v); p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("%w: invalid period %q", apperrors.ErrValidationFailed, s)
}

// AcademicData is the (trimester, year, period) unit of reporting. Published gates report visibility.
type AcademicData struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Trimester    Trimester `json:"trimester" db:"trimester" example:"FIRST"`
	AcademicYear int       `json:"academicYear" db:"academic_year" example:"2025"`
	Period       Period    `json:"period" db:"period" example:"PERIOD_1"`
	Published    bool      `json:"published" db:"published"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// SameSlot reports whether both rows describe the same (trimester, year, period) triple.
func (a *AcademicData) SameSlot(other *AcademicData) bool {
	return a.Trimester == other.Trimester && a.AcademicYear == other.AcademicYear && a.Period == other.Period
}

// Validate checks the triple.
func (a *AcademicData) Validate() error {
	if !a.Trimester.Valid() {
		return fmt.Errorf("%w: trimester is required", apperrors.ErrValidationFailed)
	}
	if !a.Period.Valid() {
		return fmt.Errorf("%w: period is required", apperrors.ErrValidationFailed)
	}
	if a.AcademicYear < 2000 || a.AcademicYear > 2100 {
		return fmt.Errorf("%w: academic year must be between 2000 and 2100", apperrors.ErrValidationFailed)
	}
	return nil
}
