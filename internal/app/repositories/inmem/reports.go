package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// ReportStore keeps reports; the (student, module, academic data) triple is unique
type ReportStore struct {
	db *DB
}

// stored reports keep no relations; load attaches copies of them. Callers hold a lock.
func (s *ReportStore) load(r *models.Report) *models.Report {
	c := *r
	if r.TeacherComment != nil {
		v := *r.TeacherComment
		c.TeacherComment = &v
	}
	if st, ok := s.db.students[r.StudentID]; ok {
		c.Student = copyStudent(st)
	}
	if m, ok := s.db.modules[r.ModuleID]; ok {
		c.Module = copyModule(m)
	}
	if a, ok := s.db.academicData[r.AcademicDataID]; ok {
		c.AcademicData = copyAcademicData(a)
	}
	if r.TeacherID != nil {
		if u, ok := s.db.users[*r.TeacherID]; ok {
			c.Teacher = copyUser(u)
		}
	}
	if r.ApprovedByID != nil {
		if u, ok := s.db.users[*r.ApprovedByID]; ok {
			c.ApprovedBy = copyUser(u)
		}
	}
	return &c
}

func bare(r *models.Report) *models.Report {
	c := *r
	c.Student, c.Module, c.AcademicData, c.Teacher, c.ApprovedBy = nil, nil, nil, nil, nil
	if r.TeacherComment != nil {
		v := *r.TeacherComment
		c.TeacherComment = &v
	}
	return &c
}

func (s *ReportStore) findTriple(studentID, moduleID, academicDataID uuid.UUID) *models.Report {
	for _, r := range s.db.reports {
		if r.StudentID == studentID && r.ModuleID == moduleID && r.AcademicDataID == academicDataID {
			return r
		}
	}
	return nil
}

// Upsert inserts rep or updates the report of the same triple. Class level, comment and teacher
// of an existing report are only replaced when set on rep.
func (s *ReportStore) Upsert(_ context.Context, rep *models.Report) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.students[rep.StudentID]; !ok {
		return false, apperrors.NewResourceNotFoundError("referenced entity does not exist: fk_reports_student")
	}
	if _, ok := s.db.modules[rep.ModuleID]; !ok {
		return false, apperrors.NewResourceNotFoundError("referenced entity does not exist: fk_reports_module")
	}
	if _, ok := s.db.academicData[rep.AcademicDataID]; !ok {
		return false, apperrors.NewResourceNotFoundError("referenced entity does not exist: fk_reports_academic_data")
	}
	if rep.TeacherID != nil {
		if _, ok := s.db.users[*rep.TeacherID]; !ok {
			return false, apperrors.NewResourceNotFoundError("referenced entity does not exist: fk_reports_teacher")
		}
	}

	if existing := s.findTriple(rep.StudentID, rep.ModuleID, rep.AcademicDataID); existing != nil {
		existing.Score = rep.Score
		existing.GradeColor = rep.GradeColor
		if rep.ClassLevel != "" {
			existing.ClassLevel = rep.ClassLevel
		}
		if rep.TeacherComment != nil {
			v := *rep.TeacherComment
			existing.TeacherComment = &v
		}
		if rep.TeacherID != nil {
			id := *rep.TeacherID
			existing.TeacherID = &id
		}
		existing.UpdatedAt = s.db.now()

		rep.ID = existing.ID
		rep.ClassLevel = existing.ClassLevel
		rep.TeacherComment = existing.TeacherComment
		rep.TeacherID = existing.TeacherID
		rep.ApprovedByID = existing.ApprovedByID
		rep.DateRecorded = existing.DateRecorded
		rep.CreatedAt = existing.CreatedAt
		rep.UpdatedAt = existing.UpdatedAt
		return false, nil
	}

	s.db.stamp(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if rep.DateRecorded.IsZero() {
		y, m, d := rep.CreatedAt.Date()
		rep.DateRecorded = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	s.db.reports[rep.ID] = bare(rep)
	return true, nil
}

func (s *ReportStore) GetByID(_ context.Context, id uuid.UUID) (*models.Report, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	r, ok := s.db.reports[id]
	if !ok {
		return nil, apperrors.ErrReportNotFound
	}
	return s.load(r), nil
}

func (s *ReportStore) FindByTriple(_ context.Context, studentID, moduleID, academicDataID uuid.UUID) (*models.Report, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	r := s.findTriple(studentID, moduleID, academicDataID)
	if r == nil {
		return nil, apperrors.ErrReportNotFound
	}
	return s.load(r), nil
}

// Find returns the matching reports ordered by period then module display order
func (s *ReportStore) Find(_ context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*models.Report{}
	for _, r := range s.db.reports {
		loaded := s.load(r)
		if filter.Matches(loaded) {
			out = append(out, loaded)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AcademicData != nil && b.AcademicData != nil && !a.AcademicData.SameSlot(b.AcademicData) {
			return periodLess(a.AcademicData, b.AcademicData)
		}
		if a.Module != nil && b.Module != nil {
			if a.Module.IndexOrder != b.Module.IndexOrder {
				return a.Module.IndexOrder < b.Module.IndexOrder
			}
			return a.Module.Name < b.Module.Name
		}
		return false
	})
	return out, nil
}

func (s *ReportStore) Update(_ context.Context, rep *models.Report) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.reports[rep.ID]
	if !ok {
		return apperrors.ErrReportNotFound
	}
	existing.Score = rep.Score
	existing.GradeColor = rep.GradeColor
	existing.ClassLevel = rep.ClassLevel
	if rep.TeacherComment != nil {
		v := *rep.TeacherComment
		existing.TeacherComment = &v
	} else {
		existing.TeacherComment = nil
	}
	existing.UpdatedAt = s.db.now()
	rep.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *ReportStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.reports[id]; !ok {
		return apperrors.ErrReportNotFound
	}
	delete(s.db.reports, id)
	return nil
}
