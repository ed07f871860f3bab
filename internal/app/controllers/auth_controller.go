package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates an enabled account with one role (HEAD, TEACHER, PARENTS or STUDENT) and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "User registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format, weak password or unknown role"
// @Failure 409 {object} dto.ErrorResponse "Phone or email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	req, ok := middleware.ValidatedBody[dto.RegisterRequest](ctx)
	if !ok {
		c.logger.Warn().Msg("Invalid registration request payload")
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Warn().Err(err).Str("phone", req.Phone).Msg("Failed to register user")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, resp, "User registered successfully")
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user with phone and password and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid phone or password"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	req, ok := middleware.ValidatedBody[dto.LoginRequest](ctx)
	if !ok {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Warn().Err(err).Str("phone", req.Phone).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, resp, "Login successful")
}
