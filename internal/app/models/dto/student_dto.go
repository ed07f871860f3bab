package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
)

// CreateStudentRequest is the JSON (or multipart "student" field) body for creating a student
type CreateStudentRequest struct {
	FirstName    string      `json:"firstName" form:"firstName" binding:"required" example:"Aline"`
	LastName     string      `json:"lastName" form:"lastName" binding:"required" example:"Uwase"`
	DateOfBirth  string      `json:"dateOfBirth" form:"dateOfBirth" binding:"required" example:"2020-03-14"`
	Gender       string      `json:"gender" form:"gender" binding:"required" example:"FEMALE"`
	ClassLevel   string      `json:"classLevel" form:"classLevel" binding:"required" example:"NURSERY_2"`
	AcademicYear string      `json:"academicYear" form:"academicYear" binding:"required" example:"2024-2025"`
	Status       string      `json:"status" form:"status" example:"ACTIVE"`
	ParentIDs    []uuid.UUID `json:"parentIds" form:"parentIds"`
	ModuleIDs    []uuid.UUID `json:"moduleIds" form:"moduleIds"`
}

// ParentInfo is a parent as embedded in a student response
type ParentInfo struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email,omitempty"`
	Address  string    `json:"address,omitempty"`
	Gender   string    `json:"gender,omitempty"`
	Status   string    `json:"status" example:"enabled"`
}

// ModuleInfo is a module as embedded in a student response
type ModuleInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// StudentResponse is the API view of a student
type StudentResponse struct {
	ID           uuid.UUID    `json:"id"`
	StudentCode  string       `json:"studentCode"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	FullName     string       `json:"fullName"`
	DateOfBirth  string       `json:"dateOfBirth"`
	Gender       string       `json:"gender"`
	ClassLevel   string       `json:"classLevel"`
	AcademicYear string       `json:"academicYear"`
	Status       string       `json:"status"`
	ProfilePhoto string       `json:"profilePhoto,omitempty"`
	Parents      []ParentInfo `json:"parents"`
	Modules      []ModuleInfo `json:"modules"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NewParentInfo maps a parent user
func NewParentInfo(u *models.User) ParentInfo {
	info := ParentInfo{
		ID:       u.ID,
		FullName: u.FullName,
		Phone:    u.Phone,
		Address:  u.Address,
		Gender:   u.Gender,
		Status:   "disabled",
	}
	if u.Email != nil {
		info.Email = *u.Email
	}
	if u.Enabled {
		info.Status = "enabled"
	}
	return info
}

// NewStudentResponse maps a student together with its resolved parents and modules
func NewStudentResponse(s *models.Student, parents []*models.User, modules []*models.Module) StudentResponse {
	resp := StudentResponse{
		ID:           s.ID,
		StudentCode:  s.StudentCode,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		FullName:     s.FullName(),
		DateOfBirth:  s.DateOfBirth.Format("2006-01-02"),
		Gender:       string(s.Gender),
		ClassLevel:   string(s.ClassLevel),
		AcademicYear: s.AcademicYear,
		Status:       string(s.Status),
		Parents:      make([]ParentInfo, 0, len(parents)),
		Modules:      make([]ModuleInfo, 0, len(modules)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.ProfilePhoto != nil {
		resp.ProfilePhoto = *s.ProfilePhoto
	}
	for _, p := range parents {
		resp.Parents = append(resp.Parents, NewParentInfo(p))
	}
	for _, m := range modules {
		resp.Modules = append(resp.Modules, ModuleInfo{ID: m.ID, Name: m.Name, Category: m.Category})
	}
	return resp
}
