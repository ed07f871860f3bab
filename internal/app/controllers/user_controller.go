package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/middleware"
)

// UserController handles user-related operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListUsers returns every user, optionally filtered by role
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter (HEAD, TEACHER, PARENTS, STUDENT)"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Failure 403 {object} dto.ErrorResponse "Caller is not HEAD"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	var role *models.RoleType
	if raw := ctx.Query("role"); raw != "" {
		r, ok := models.ParseRole(raw)
		if !ok {
			middleware.HandleAPIError(ctx, badRequest("unknown role: "+raw))
			return
		}
		role = &r
	}

	users, err := c.userService.ListUsers(ctx.Request.Context(), role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewUserResponses(users), "")
}

// GetUserByID retrieves user information by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUserByID(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	user, err := c.userService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewUserResponse(user), "")
}
