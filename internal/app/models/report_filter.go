package models

import "github.com/google/uuid"

// ReportFilter narrows report reads. Nil fields are not filtered on.
type ReportFilter struct {
	StudentID      *uuid.UUID
	AcademicDataID *uuid.UUID
	Trimester      *Trimester
	AcademicYear   *int
	PublishedOnly  bool
}

// Matches reports whether r, with its AcademicData loaded, passes the filter.
func (f ReportFilter) Matches(r *Report) bool {
	if f.StudentID != nil && r.StudentID != *f.StudentID {
		return false
	}
	if f.AcademicDataID != nil && r.AcademicDataID != *f.AcademicDataID {
		return false
	}
	ad := r.AcademicData
	if f.Trimester != nil && (ad == nil || ad.Trimester != *f.Trimester) {
		return false
	}
	if f.AcademicYear != nil && (ad == nil || ad.AcademicYear != *f.AcademicYear) {
		return false
	}
	if f.PublishedOnly && (ad == nil || !ad.Published) {
		return false
	}
	return true
}
