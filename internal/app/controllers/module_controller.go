package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/middleware"
)

// ModuleController exposes the subject catalogue
type ModuleController struct {
	moduleService services.ModuleService
	logger        zerolog.Logger
}

// NewModuleController creates a new ModuleController
func NewModuleController(moduleService services.ModuleService, logger zerolog.Logger) *ModuleController {
	return &ModuleController{moduleService: moduleService, logger: logger}
}

// CreateModule creates one module
// @Summary Create module
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ModuleRequest true "Module"
// @Success 201 {object} dto.APIResponse{data=models.Module}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Module name already exists"
// @Router /modules [post]
func (c *ModuleController) CreateModule(ctx *gin.Context) {
	var req dto.ModuleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	module, err := c.moduleService.CreateModule(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, module, "Module created successfully")
}

// CreateModules creates several modules, all or none
// @Summary Create modules in bulk
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkModuleRequest true "Modules"
// @Success 201 {object} dto.APIResponse{data=[]models.Module}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Module name already exists"
// @Router /modules/bulk [post]
func (c *ModuleController) CreateModules(ctx *gin.Context) {
	var req dto.BulkModuleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	modules, err := c.moduleService.CreateModules(ctx.Request.Context(), req.Modules)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, modules, "Modules created successfully")
}

// ListActiveModules returns active modules in display order
// @Summary List active modules
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Module}
// @Router /modules [get]
func (c *ModuleController) ListActiveModules(ctx *gin.Context) {
	modules, err := c.moduleService.ListActiveModules(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, modules, "")
}

// ListAllModules includes inactive modules
// @Summary List all modules
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Module}
// @Router /modules/all [get]
func (c *ModuleController) ListAllModules(ctx *gin.Context) {
	modules, err := c.moduleService.ListAllModules(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, modules, "")
}

// GetModule returns one module
// @Summary Get module
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 200 {object} dto.APIResponse{data=models.Module}
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/{id} [get]
func (c *ModuleController) GetModule(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	module, err := c.moduleService.GetModule(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, module, "")
}

// GetModuleByName looks a module up by its unique name
// @Summary Get module by name
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param name path string true "Module name"
// @Success 200 {object} dto.APIResponse{data=models.Module}
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/by-name/{name} [get]
func (c *ModuleController) GetModuleByName(ctx *gin.Context) {
	module, err := c.moduleService.GetModuleByName(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, module, "")
}

// UpdateModule changes the supplied fields
// @Summary Update module
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param request body dto.UpdateModuleRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Module}
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Failure 409 {object} dto.ErrorResponse "Module name already exists"
// @Router /modules/{id} [put]
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateModuleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	module, err := c.moduleService.UpdateModule(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, module, "Module updated successfully")
}

// DeleteModule removes a module with its marks and enrollments
// @Summary Delete module
// @Tags modules
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/{id} [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.moduleService.DeleteModule(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
