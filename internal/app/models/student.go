package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender of a student.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender accepts MALE or FEMALE in any case.
func ParseGender(s string) (Gender, bool) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, true
	}
	return "", false
}

// StudentStatus is the enrolment status.
type StudentStatus string

const (
	StatusActive      StudentStatus = "ACTIVE"
	StatusInactive    StudentStatus = "INACTIVE"
	StatusGraduated   StudentStatus = "GRADUATED"
	StatusTransferred StudentStatus = "TRANSFERRED"
	StatusSuspended   StudentStatus = "SUSPENDED"
)

// Valid reports whether s is declared.
func (s StudentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusGraduated, StatusTransferred, StatusSuspended:
		return true
	}
	return false
}

// Student is a pupil. StudentCode is unique and never changes after creation.
type Student struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	StudentCode  string        `json:"studentCode" db:"student_code" example:"STD20240001"`
	FirstName    string        `json:"firstName" db:"first_name"`
	LastName     string        `json:"lastName" db:"last_name"`
	DateOfBirth  time.Time     `json:"dateOfBirth" db:"date_of_birth"`
	Gender       Gender        `json:"gender" db:"gender"`
	ClassLevel   ClassLevel    `json:"classLevel" db:"class_level"`
	AcademicYear string        `json:"academicYear" db:"academic_year" example:"2024-2025"`
	Status       StudentStatus `json:"status" db:"status"`
	ProfilePhoto *string       `json:"profilePhoto,omitempty" db:"profile_photo"`
	ParentIDs    []uuid.UUID   `json:"parentIds"`
	ModuleIDs    []uuid.UUID   `json:"moduleIds"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// IsEnrolledIn reports whether moduleID is in the student's module set.
func (s *Student) IsEnrolledIn(moduleID uuid.UUID) bool {
	for _, id := range s.ModuleIDs {
		if id == moduleID {
			return true
		}
	}
	return false
}

// HasParent reports whether parentID is linked to the student.
func (s *Student) HasParent(parentID uuid.UUID) bool {
	for _, id := range s.ParentIDs {
		if id == parentID {
			return true
		}
	}
	return false
}
