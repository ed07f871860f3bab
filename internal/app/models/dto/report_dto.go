package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
)

// AddMarkRequest records one score. Score is a pointer so that 0 passes the required check.
type AddMarkRequest struct {
	StudentID      uuid.UUID  `json:"studentId" binding:"required"`
	ModuleID       uuid.UUID  `json:"moduleId" binding:"required"`
	AcademicDataID uuid.UUID  `json:"academicDataId" binding:"required"`
	Score          *int       `json:"score" binding:"required" example:"85"`
	ClassLevel     string     `json:"classLevel" example:"NURSERY_1"`
	TeacherComment *string    `json:"teacherComment"`
	TeacherID      *uuid.UUID `json:"teacherId"`
}

// ModuleMark is one item of a bulk submission
type ModuleMark struct {
	ModuleID uuid.UUID `json:"moduleId" binding:"required"`
	Score    *int      `json:"score" binding:"required" example:"72"`
}

// AddBulkMarksRequest records scores for several modules of one student in one period
type AddBulkMarksRequest struct {
	StudentID      uuid.UUID    `json:"studentId" binding:"required"`
	AcademicDataID uuid.UUID    `json:"academicDataId" binding:"required"`
	ClassLevel     string       `json:"classLevel" binding:"required" example:"NURSERY_1"`
	ModuleMarks    []ModuleMark `json:"moduleMarks" binding:"required,min=1,dive"`
	TeacherComment *string      `json:"teacherComment"`
	TeacherID      *uuid.UUID   `json:"teacherId"`
}

// UpdateMarkRequest changes only the supplied fields
type UpdateMarkRequest struct {
	Score          *int    `json:"score"`
	TeacherComment *string `json:"teacherComment"`
	ClassLevel     *string `json:"classLevel"`
}

// StudentSummary is the student as embedded in a report
type StudentSummary struct {
	ID          uuid.UUID `json:"id"`
	StudentCode string    `json:"studentCode"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	FullName    string    `json:"fullName"`
}

// AcademicDataSummary is the period as embedded in a report
type AcademicDataSummary struct {
	ID           uuid.UUID `json:"id"`
	Trimester    string    `json:"trimester" example:"First Trimester"`
	AcademicYear int       `json:"academicYear"`
	Period       string    `json:"period" example:"Period 1"`
	Published    bool      `json:"published"`
}

// UserSummary is a teacher or approver as embedded in a report
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email,omitempty"`
}

// ReportResponse is the flat API view of one report
type ReportResponse struct {
	ID             uuid.UUID            `json:"id"`
	Student        *StudentSummary      `json:"student,omitempty"`
	Module         *ModuleInfo          `json:"module,omitempty"`
	AcademicData   *AcademicDataSummary `json:"academicData,omitempty"`
	ClassLevel     string               `json:"classLevel,omitempty"`
	Score          int                  `json:"score"`
	GradeColor     string               `json:"gradeColor" example:"green"`
	TeacherComment string               `json:"teacherComment,omitempty"`
	Teacher        *UserSummary         `json:"teacher,omitempty"`
	ApprovedBy     *UserSummary         `json:"approvedBy,omitempty"`
	DateRecorded   string               `json:"dateRecorded" example:"2025-02-14"`
}

// ModuleScore is one module line inside a grouped report
type ModuleScore struct {
	ReportID   uuid.UUID  `json:"reportId"`
	Module     ModuleInfo `json:"module"`
	Score      int        `json:"score"`
	GradeColor string     `json:"gradeColor"`
}

// GroupedReportResponse collects the reports of one student in one academic period
type GroupedReportResponse struct {
	AcademicYear   int                  `json:"academicYear"`
	Student        *StudentSummary      `json:"student,omitempty"`
	AcademicData   *AcademicDataSummary `json:"academicData,omitempty"`
	ClassLevel     string               `json:"classLevel,omitempty"`
	TeacherComment string               `json:"teacherComment,omitempty"`
	Teacher        *UserSummary         `json:"teacher,omitempty"`
	DateRecorded   string               `json:"dateRecorded"`
	Modules        []ModuleScore        `json:"modules"`
}

// BulkMarksResponse is returned by a bulk submission that saved at least one mark
type BulkMarksResponse struct {
	Reports []ReportResponse `json:"reports"`
	Errors  []string         `json:"errors,omitempty"`
	Partial bool             `json:"partial"`
}

func newUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	s := &UserSummary{ID: u.ID, FullName: u.FullName}
	if u.Email != nil {
		s.Email = *u.Email
	}
	return s
}

func newStudentSummary(s *models.Student) *StudentSummary {
	if s == nil {
		return nil
	}
	return &StudentSummary{
		ID:          s.ID,
		StudentCode: s.StudentCode,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		FullName:    s.FullName(),
	}
}

func newAcademicDataSummary(a *models.AcademicData) *AcademicDataSummary {
	if a == nil {
		return nil
	}
	return &AcademicDataSummary{
		ID:           a.ID,
		Trimester:    a.Trimester.DisplayName(),
		AcademicYear: a.AcademicYear,
		Period:       a.Period.DisplayName(),
		Published:    a.Published,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// NewReportResponse maps a report and whatever relations were loaded with it
func NewReportResponse(r *models.Report) ReportResponse {
	resp := ReportResponse{
		ID:           r.ID,
		Student:      newStudentSummary(r.Student),
		AcademicData: newAcademicDataSummary(r.AcademicData),
		ClassLevel:   r.ClassLevel.DisplayName(),
		Score:        r.Score,
		GradeColor:   string(r.GradeColor),
		Teacher:      newUserSummary(r.Teacher),
		ApprovedBy:   newUserSummary(r.ApprovedBy),
		DateRecorded: formatDate(r.DateRecorded),
	}
	if r.Module != nil {
		resp.Module = &ModuleInfo{ID: r.Module.ID, Name: r.Module.Name, Category: r.Module.Category}
	}
	if r.TeacherComment != nil {
		resp.TeacherComment = *r.TeacherComment
	}
	return resp
}

// NewReportResponses maps a report list
func NewReportResponses(reports []*models.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, NewReportResponse(r))
	}
	return out
}

// GroupReports groups reports per (student, academic data) keeping first-seen order.
// Header fields come from the first report of each group.
func GroupReports(reports []*models.Report) []GroupedReportResponse {
	type key struct{ student, period uuid.UUID }
	index := make(map[key]int)
	groups := make([]GroupedReportResponse, 0)

	for _, r := range reports {
		k := key{r.StudentID, r.AcademicDataID}
		i, ok := index[k]
		if !ok {
			g := GroupedReportResponse{
				Student:      newStudentSummary(r.Student),
				AcademicData: newAcademicDataSummary(r.AcademicData),
				ClassLevel:   r.ClassLevel.DisplayName(),
				Teacher:      newUserSummary(r.Teacher),
				DateRecorded: formatDate(r.DateRecorded),
				Modules:      make([]ModuleScore, 0),
			}
			if r.AcademicData != nil {
				g.AcademicYear = r.AcademicData.AcademicYear
			}
			if r.TeacherComment != nil {
				g.TeacherComment = *r.TeacherComment
			}
			groups = append(groups, g)
			i = len(groups) - 1
			index[k] = i
		}

		line := ModuleScore{ReportID: r.ID, Score: r.Score, GradeColor: string(r.GradeColor)}
		if r.Module != nil {
			line.Module = ModuleInfo{ID: r.Module.ID, Name: r.Module.Name, Category: r.Module.Category}
		} else {
			line.Module = ModuleInfo{ID: r.ModuleID}
		}
		groups[i].Modules = append(groups[i].Modules, line)
	}
	return groups
}
