package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/uruhongore/academy/internal/app/auth"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/middleware"
)

const maxPhotoBytes = 10 << 20

// StudentController manages students, their parents, enrollments and photos
type StudentController struct {
	studentService services.StudentService
	policy         *appauth.Policy
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, policy *appauth.Policy, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		policy:         policy,
		logger:         logger,
	}
}

// authorizeStudent loads the student and checks that the caller may perform action on it
func (c *StudentController) authorizeStudent(ctx *gin.Context, id uuid.UUID, action appauth.Action) bool {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return false
	}
	student, err := c.studentService.FindStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}
	if err := c.policy.Authorize(caller, action, appauth.Resource{Kind: appauth.ResourceStudent, Student: student}); err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}
	return true
}

// CreateStudent creates a student from JSON or from a multipart form with an optional photo
// @Summary Create student
// @Description Accepts application/json, or multipart/form-data carrying either a "student" JSON field or plain form fields, plus an optional "photo" file
// @Tags students
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest false "Student (JSON requests)"
// @Param photo formData file false "Profile photo"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Parent or module not found"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var (
		req   dto.CreateStudentRequest
		photo []byte
	)

	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		if err := bindStudentForm(ctx, &req); err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}
		data, err := readFormFile(ctx, "photo")
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid photo").WithField("photo").WithDetails(err.Error())
			ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		photo = data
	} else if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, student, "Student created successfully")
}

// bindStudentForm fills req from a "student" JSON field when present, else from plain form fields
func bindStudentForm(ctx *gin.Context, req *dto.CreateStudentRequest) error {
	if raw := ctx.PostForm("student"); raw != "" {
		if err := json.Unmarshal([]byte(raw), req); err != nil {
			return fmt.Errorf("invalid student field: %w", err)
		}
		return binding.Validator.ValidateStruct(req)
	}

	req.FirstName = ctx.PostForm("firstName")
	req.LastName = ctx.PostForm("lastName")
	req.DateOfBirth = ctx.PostForm("dateOfBirth")
	req.Gender = ctx.PostForm("gender")
	req.ClassLevel = ctx.PostForm("classLevel")
	req.AcademicYear = ctx.PostForm("academicYear")
	req.Status = ctx.PostForm("status")

	var err error
	if req.ParentIDs, err = formUUIDs(ctx, "parentIds"); err != nil {
		return err
	}
	if req.ModuleIDs, err = formUUIDs(ctx, "moduleIds"); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(req)
}

// formUUIDs accepts repeated fields as well as one comma separated value
func formUUIDs(ctx *gin.Context, name string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, v := range ctx.PostFormArray(name) {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, fmt.Errorf("invalid %s value %q", name, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// readFormFile returns nil without error when the file is absent
func readFormFile(ctx *gin.Context, name string) ([]byte, error) {
	header, err := ctx.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header.Size > maxPhotoBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxPhotoBytes)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxPhotoBytes))
}

// ListStudents returns every student
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, students, "")
}

// GetStudent returns one student. Parents may only read their own children.
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 403 {object} dto.ErrorResponse "Not your child"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok || !c.authorizeStudent(ctx, id, appauth.ActionRead) {
		return
	}
	student, err := c.studentService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "")
}

// GetStudentParents lists the parents linked to a student
// @Summary Get student parents
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ParentInfo}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/parents [get]
func (c *StudentController) GetStudentParents(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok || !c.authorizeStudent(ctx, id, appauth.ActionRead) {
		return
	}
	parents, err := c.studentService.GetStudentParents(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, parents, "")
}

// GetStudentsByParent lists the children of a parent. A parent may only list their own.
// @Summary Get students of a parent
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param parentId path string true "Parent user ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "User is not a parent"
// @Failure 403 {object} dto.ErrorResponse "Another parent's children"
// @Router /students/parent/{parentId} [get]
func (c *StudentController) GetStudentsByParent(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}
	parentID, ok := parseUUIDParam(ctx, "parentId")
	if !ok {
		return
	}
	if !caller.IsStaff() && caller.UserID != parentID {
		err := c.policy.Authorize(caller, appauth.ActionRead, appauth.Resource{Kind: appauth.ResourceStudent})
		middleware.HandleAPIError(ctx, err)
		return
	}
	students, err := c.studentService.GetStudentsByParent(ctx.Request.Context(), parentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, students, "")
}

// GetStudentsByClassLevel lists the students of a class level
// @Summary Get students by class level
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param classLevel path string true "Class level, e.g. NURSERY_1 or Nursery-1"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown class level"
// @Router /students/class/{classLevel} [get]
func (c *StudentController) GetStudentsByClassLevel(ctx *gin.Context) {
	students, err := c.studentService.GetStudentsByClassLevel(ctx.Request.Context(), ctx.Param("classLevel"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, students, "")
}

// AssignParent links a parent to a student
// @Summary Assign parent
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param parentId path string true "Parent user ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "User is not a parent"
// @Failure 404 {object} dto.ErrorResponse "Student or user not found"
// @Router /students/{id}/parents/{parentId} [post]
func (c *StudentController) AssignParent(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	parentID, ok := parseUUIDParam(ctx, "parentId")
	if !ok {
		return
	}
	student, err := c.studentService.AssignParent(ctx.Request.Context(), id, parentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Parent assigned successfully")
}

// EnrollModule enrolls a student in an active module
// @Summary Enroll module
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param moduleId path string true "Module ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Module is inactive"
// @Failure 404 {object} dto.ErrorResponse "Student or module not found"
// @Router /students/{id}/modules/{moduleId} [post]
func (c *StudentController) EnrollModule(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	moduleID, ok := parseUUIDParam(ctx, "moduleId")
	if !ok {
		return
	}
	student, err := c.studentService.EnrollModule(ctx.Request.Context(), id, moduleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Module enrolled successfully")
}

// UploadProfilePhoto replaces the student's photo
// @Summary Upload profile photo
// @Tags students
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param photo formData file true "Photo"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid or missing file"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 502 {object} dto.ErrorResponse "Photo storage unavailable"
// @Router /students/{id}/profile-photo [post]
func (c *StudentController) UploadProfilePhoto(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	data, err := readFormFile(ctx, "photo")
	if err == nil && len(data) == 0 {
		err = errors.New("photo file is required")
	}
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file").WithField("photo").WithDetails(err.Error())
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	student, err := c.studentService.UploadProfilePhoto(ctx.Request.Context(), id, data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Profile photo updated successfully")
}

// DeleteProfilePhoto removes the student's photo
// @Summary Delete profile photo
// @Tags students
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/profile-photo [delete]
func (c *StudentController) DeleteProfilePhoto(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.studentService.DeleteProfilePhoto(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
