package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appauth "github.com/uruhongore/academy/internal/app/auth"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/middleware"
)

// ReportController records marks, reads them back and renders stored bulletins
type ReportController struct {
	reportService   services.ReportService
	studentService  services.StudentService
	documentService services.DocumentService
	policy          *appauth.Policy
	logger          zerolog.Logger
}

// NewReportController creates a new ReportController
func NewReportController(
	reportService services.ReportService,
	studentService services.StudentService,
	documentService services.DocumentService,
	policy *appauth.Policy,
	logger zerolog.Logger,
) *ReportController {
	return &ReportController{
		reportService:   reportService,
		studentService:  studentService,
		documentService: documentService,
		policy:          policy,
		logger:          logger,
	}
}

// AddMark records one mark, updating the existing one for the same student, module and period
// @Summary Add or update a mark
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddMarkRequest true "Mark"
// @Success 200 {object} dto.APIResponse{data=dto.ReportResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed or student not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Student, module or academic data not found"
// @Router /reports/marks [post]
func (c *ReportController) AddMark(ctx *gin.Context) {
	var req dto.AddMarkRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	report, err := c.reportService.AddOrUpdateMark(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewReportResponse(report), "Mark saved successfully")
}

// AddBulkMarks records the marks of one student for several modules. Valid items are saved
// even when others are rejected.
// @Summary Add or update marks in bulk
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddBulkMarksRequest true "Marks"
// @Success 200 {object} dto.APIResponse{data=dto.BulkMarksResponse}
// @Failure 400 {object} dto.ErrorResponse "Every item was rejected"
// @Failure 404 {object} dto.ErrorResponse "Student or academic data not found"
// @Router /reports/marks/bulk [post]
func (c *ReportController) AddBulkMarks(ctx *gin.Context) {
	var req dto.AddBulkMarksRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	result, err := c.reportService.AddOrUpdateBulkMarks(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	message := "Marks saved successfully"
	if result.Partial() {
		message = "Some marks were rejected"
	}
	respond(ctx, http.StatusOK, dto.BulkMarksResponse{
		Reports: dto.NewReportResponses(result.Reports),
		Errors:  result.Errors,
		Partial: result.Partial(),
	}, message)
}

// UpdateMark changes a stored mark
// @Summary Update a mark
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body dto.UpdateMarkRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ReportResponse}
// @Failure 404 {object} dto.ErrorResponse "Report not found"
// @Router /reports/{id} [put]
func (c *ReportController) UpdateMark(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateMarkRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	report, err := c.reportService.UpdateMark(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewReportResponse(report), "Mark updated successfully")
}

// DeleteMark removes a stored mark
// @Summary Delete a mark
// @Tags reports
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Report not found"
// @Router /reports/{id} [delete]
func (c *ReportController) DeleteMark(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.reportService.DeleteMark(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// studentForRead loads the student named by param and checks the caller may read its reports
// or documents. The returned filter only shows unpublished periods to staff.
func (c *ReportController) studentForRead(ctx *gin.Context, param string, kind appauth.ResourceKind) (models.ReportFilter, bool) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return models.ReportFilter{}, false
	}
	studentID, ok := parseUUIDParam(ctx, param)
	if !ok {
		return models.ReportFilter{}, false
	}
	student, err := c.studentService.FindStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return models.ReportFilter{}, false
	}
	res := appauth.Resource{Kind: kind, Student: student, Published: true}
	if err := c.policy.Authorize(caller, appauth.ActionRead, res); err != nil {
		middleware.HandleAPIError(ctx, err)
		return models.ReportFilter{}, false
	}
	return models.ReportFilter{
		StudentID:     &studentID,
		PublishedOnly: !c.policy.CanSeeUnpublished(caller),
	}, true
}

func (c *ReportController) writeReports(ctx *gin.Context, filter models.ReportFilter) {
	reports, err := c.reportService.FindReports(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if grouped, _ := strconv.ParseBool(ctx.Query("grouped")); grouped {
		respond(ctx, http.StatusOK, dto.GroupReports(reports), "")
		return
	}
	respond(ctx, http.StatusOK, dto.NewReportResponses(reports), "")
}

// GetStudentReports lists every visible report of a student
// @Summary Get reports of a student
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param grouped query bool false "Group per academic period"
// @Success 200 {object} dto.APIResponse{data=[]dto.ReportResponse}
// @Failure 403 {object} dto.ErrorResponse "Not your child"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /reports/student/{id} [get]
func (c *ReportController) GetStudentReports(ctx *gin.Context) {
	filter, ok := c.studentForRead(ctx, "id", appauth.ResourceReport)
	if !ok {
		return
	}
	c.writeReports(ctx, filter)
}

// GetStudentReportsByAcademicData lists the reports of a student for one period
// @Summary Get reports of a student for an academic period
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param academicDataId path string true "Academic data ID"
// @Param grouped query bool false "Group per academic period"
// @Success 200 {object} dto.APIResponse{data=[]dto.ReportResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /reports/student/{id}/academic-data/{academicDataId} [get]
func (c *ReportController) GetStudentReportsByAcademicData(ctx *gin.Context) {
	filter, ok := c.studentForRead(ctx, "id", appauth.ResourceReport)
	if !ok {
		return
	}
	academicDataID, ok := parseUUIDParam(ctx, "academicDataId")
	if !ok {
		return
	}
	filter.AcademicDataID = &academicDataID
	c.writeReports(ctx, filter)
}

// GetStudentReportsByTrimester lists the reports of a student for a trimester of a year
// @Summary Get reports of a student for a trimester
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param trimester path string true "FIRST, SECOND, THIRD, 1-3 or I-III"
// @Param year path int true "Academic year"
// @Param grouped query bool false "Group per academic period"
// @Success 200 {object} dto.APIResponse{data=[]dto.ReportResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /reports/student/{id}/trimester/{trimester}/year/{year} [get]
func (c *ReportController) GetStudentReportsByTrimester(ctx *gin.Context) {
	filter, ok := c.studentForRead(ctx, "id", appauth.ResourceReport)
	if !ok {
		return
	}
	t, ok := parseTrimesterParam(ctx, "trimester")
	if !ok {
		return
	}
	year, ok := parseIntParam(ctx, "year")
	if !ok {
		return
	}
	filter.Trimester = &t
	filter.AcademicYear = &year
	c.writeReports(ctx, filter)
}

// GetStudentReportsByYear lists the reports of a student for a whole year
// @Summary Get reports of a student for a year
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param year path int true "Academic year"
// @Param grouped query bool false "Group per academic period"
// @Success 200 {object} dto.APIResponse{data=[]dto.ReportResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /reports/student/{id}/year/{year} [get]
func (c *ReportController) GetStudentReportsByYear(ctx *gin.Context) {
	filter, ok := c.studentForRead(ctx, "id", appauth.ResourceReport)
	if !ok {
		return
	}
	year, ok := parseIntParam(ctx, "year")
	if !ok {
		return
	}
	filter.AcademicYear = &year
	c.writeReports(ctx, filter)
}

// BulletinByTrimester renders the published marks of a trimester
// @Summary Download bulletin for a trimester
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param trimester path string true "FIRST, SECOND, THIRD, 1-3 or I-III"
// @Param year path int true "Academic year"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "No published reports"
// @Failure 500 {object} dto.ErrorResponse "Rendering failed"
// @Router /reports/bulletin/{studentId}/trimester/{trimester}/year/{year} [get]
func (c *ReportController) BulletinByTrimester(ctx *gin.Context) {
	filter, ok := c.studentForRead(ctx, "studentId", appauth.ResourceDocument)
	if !ok {
		return
	}
	t, ok := parseTrimesterParam(ctx, "trimester")
	if !ok {
		return
	}
	year, ok := parseIntParam(ctx, "year")
	if !ok {
		return
	}
	data, err := c.documentService.BulletinForTrimester(ctx.Request.Context(), *filter.StudentID, t, year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, data, "bulletin_"+filter.StudentID.String()+".pdf", false)
}

// BulletinByAcademicData renders the published marks of one period
// @Summary Download bulletin for an academic period
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param academicDataId path string true "Academic data ID"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "No published reports"
// @Router /reports/bulletin/{studentId}/academic-data/{academicDataId} [get]
func (c *ReportController) BulletinByAcademicData(ctx *gin.Context) {
	filter, ok := c.studentForRead(ctx, "studentId", appauth.ResourceDocument)
	if !ok {
		return
	}
	academicDataID, ok := parseUUIDParam(ctx, "academicDataId")
	if !ok {
		return
	}
	data, err := c.documentService.BulletinForAcademicData(ctx.Request.Context(), *filter.StudentID, academicDataID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, data, "bulletin_"+filter.StudentID.String()+".pdf", false)
}

// Template renders an empty bulletin listing the active modules
// @Summary Download bulletin template
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param trimester path string true "FIRST, SECOND, THIRD, 1-3 or I-III"
// @Param year path int true "Academic year"
// @Param classe query string false "Class label printed in the header"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /reports/template/{studentId}/trimester/{trimester}/year/{year} [get]
func (c *ReportController) Template(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}
	if err := c.policy.Authorize(caller, appauth.ActionRender, appauth.Resource{Kind: appauth.ResourceDocument}); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	studentID, ok := parseUUIDParam(ctx, "studentId")
	if !ok {
		return
	}
	t, ok := parseTrimesterParam(ctx, "trimester")
	if !ok {
		return
	}
	year, ok := parseIntParam(ctx, "year")
	if !ok {
		return
	}
	data, err := c.documentService.Template(ctx.Request.Context(), studentID, t, year, ctx.Query("classe"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, data, "bulletin_template_"+studentID.String()+".pdf", false)
}

// Grid renders the whole-year grid of published marks
// @Summary Download yearly bulletin grid
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param year path int true "Academic year"
// @Param classe query string false "Class label printed in the header"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /reports/grid/{studentId}/year/{year} [get]
func (c *ReportController) Grid(ctx *gin.Context) {
	filter, ok := c.studentForRead(ctx, "studentId", appauth.ResourceDocument)
	if !ok {
		return
	}
	year, ok := parseIntParam(ctx, "year")
	if !ok {
		return
	}
	studentID := *filter.StudentID
	data, err := c.documentService.Grid(ctx.Request.Context(), studentID, year, ctx.Query("classe"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, data, "bulletin_grid_"+studentID.String()+".pdf", false)
}

