package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appauth "github.com/uruhongore/academy/internal/app/auth"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/middleware"
)

// AcademicDataController manages academic periods and their publication
type AcademicDataController struct {
	academicDataService services.AcademicDataService
	policy              *appauth.Policy
	logger              zerolog.Logger
}

// NewAcademicDataController creates a new AcademicDataController
func NewAcademicDataController(academicDataService services.AcademicDataService, policy *appauth.Policy, logger zerolog.Logger) *AcademicDataController {
	return &AcademicDataController{
		academicDataService: academicDataService,
		policy:              policy,
		logger:              logger,
	}
}

// GetAllPublished lists published periods
// @Summary List published academic periods
// @Tags academic-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AcademicData}
// @Router /academic-data/published [get]
func (c *AcademicDataController) GetAllPublished(ctx *gin.Context) {
	list, err := c.academicDataService.GetAllPublished(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list, "")
}

// GetAll lists every period, newest first
// @Summary List academic periods
// @Tags academic-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AcademicData}
// @Router /academic-data [get]
func (c *AcademicDataController) GetAll(ctx *gin.Context) {
	list, err := c.academicDataService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list, "")
}

// Get returns one period. Callers outside the staff only see published periods.
// @Summary Get academic period
// @Tags academic-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Academic data ID"
// @Success 200 {object} dto.APIResponse{data=models.AcademicData}
// @Failure 403 {object} dto.ErrorResponse "Period not published"
// @Failure 404 {object} dto.ErrorResponse "Academic data not found"
// @Router /academic-data/{id} [get]
func (c *AcademicDataController) Get(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	a, err := c.academicDataService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := c.policy.Authorize(caller, appauth.ActionRead, appauth.Resource{Kind: appauth.ResourceAcademicData, Published: a.Published}); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, a, "")
}

// Create adds a period
// @Summary Create academic period
// @Tags academic-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AcademicDataRequest true "Academic period"
// @Success 201 {object} dto.APIResponse{data=models.AcademicData}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Period already exists"
// @Router /academic-data [post]
func (c *AcademicDataController) Create(ctx *gin.Context) {
	var req dto.AcademicDataRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	a, err := c.academicDataService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, a, "Academic data created successfully")
}

// GetOrCreate returns the period for the triple, creating it unpublished if needed
// @Summary Get or create academic period
// @Tags academic-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AcademicDataRequest true "Academic period"
// @Success 200 {object} dto.APIResponse{data=models.AcademicData}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /academic-data/get-or-create [post]
func (c *AcademicDataController) GetOrCreate(ctx *gin.Context) {
	var req dto.AcademicDataRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	parsed, err := services.ParseAcademicDataRequest(&req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	a, err := c.academicDataService.GetOrCreate(ctx.Request.Context(), parsed.Trimester, parsed.AcademicYear, parsed.Period)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, a, "")
}

// Update changes a period
// @Summary Update academic period
// @Tags academic-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Academic data ID"
// @Param request body dto.AcademicDataRequest true "Academic period"
// @Success 200 {object} dto.APIResponse{data=models.AcademicData}
// @Failure 404 {object} dto.ErrorResponse "Academic data not found"
// @Failure 409 {object} dto.ErrorResponse "Another period has this triple"
// @Router /academic-data/{id} [put]
func (c *AcademicDataController) Update(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AcademicDataRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	a, err := c.academicDataService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, a, "Academic data updated successfully")
}

// Delete removes a period and its marks
// @Summary Delete academic period
// @Tags academic-data
// @Security BearerAuth
// @Param id path string true "Academic data ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Academic data not found"
// @Router /academic-data/{id} [delete]
func (c *AcademicDataController) Delete(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.academicDataService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Publish makes the period's marks visible to parents
// @Summary Publish academic period
// @Tags academic-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Academic data ID"
// @Success 200 {object} dto.APIResponse{data=models.AcademicData}
// @Failure 404 {object} dto.ErrorResponse "Academic data not found"
// @Router /academic-data/{id}/publish [put]
func (c *AcademicDataController) Publish(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	a, err := c.academicDataService.Publish(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, a, "Academic data published successfully")
}

// Unpublish hides the period's marks again
// @Summary Unpublish academic period
// @Tags academic-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Academic data ID"
// @Success 200 {object} dto.APIResponse{data=models.AcademicData}
// @Failure 404 {object} dto.ErrorResponse "Academic data not found"
// @Router /academic-data/{id}/unpublish [put]
func (c *AcademicDataController) Unpublish(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	a, err := c.academicDataService.Unpublish(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, a, "Academic data unpublished successfully")
}
