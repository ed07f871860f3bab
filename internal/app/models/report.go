package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is one student's score for one module in one academic period.
// At most one report exists per (StudentID, ModuleID, AcademicDataID).
type Report struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	StudentID      uuid.UUID  `json:"studentId" db:"student_id"`
	ModuleID       uuid.UUID  `json:"moduleId" db:"module_id"`
	AcademicDataID uuid.UUID  `json:"academicDataId" db:"academic_data_id"`
	ClassLevel     ClassLevel `json:"classLevel,omitempty" db:"class_level"`
	Score          int        `json:"score" db:"score"`
	GradeColor     GradeColor `json:"gradeColor" db:"grade_color"`
	TeacherComment *string    `json:"teacherComment,omitempty" db:"teacher_comment"`
	TeacherID      *uuid.UUID `json:"teacherId,omitempty" db:"teacher_id"`
	ApprovedByID   *uuid.UUID `json:"approvedById,omitempty" db:"approved_by"`
	DateRecorded   time.Time  `json:"dateRecorded" db:"date_recorded"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`

	// Loaded by read queries, never written
	Student      *Student      `json:"student,omitempty"`
	Module       *Module       `json:"module,omitempty"`
	AcademicData *AcademicData `json:"academicData,omitempty"`
	Teacher      *User         `json:"teacher,omitempty"`
	ApprovedBy   *User         `json:"approvedBy,omitempty"`
}

// SetScore stores the score and recomputes the grade colour.
func (r *Report) SetScore(score int) {
	r.Score = score
	r.GradeColor = ClassifyScore(score)
}

// Published reports whether the joined academic period is published.
func (r *Report) Published() bool {
	return r.AcademicData != nil && r.AcademicData.Published
}
