package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/auth"
	"github.com/uruhongore/academy/internal/pkg/validation"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo   UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an enabled account with a single role and returns a token for it
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	// Validate input
	fullName := strings.TrimSpace(req.FullName)
	phone := strings.TrimSpace(req.Phone)
	if err := validation.All(
		validation.NewStringValidation("fullName", fullName).WithMaxLength(validation.NameMaxLength),
		validation.NewStringValidation("phone", phone).WithPattern(validation.CompiledPatterns.Phone, "0781234567"),
	); err != nil {
		return nil, err
	}
	if !auth.IsStrongPassword(req.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters and contain a letter and a digit", apperrors.ErrValidationFailed)
	}

	// Exactly one known role
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidationFailed, req.Role)
	}

	// Check if phone already exists
	exists, err := s.userRepo.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("error checking phone: %w", err)
	}
	if exists {
		return nil, apperrors.ErrPhoneAlreadyExists
	}

	var email *string
	// Email is optional but unique when given
	if e := strings.ToLower(strings.TrimSpace(req.Email)); e != "" {
		exists, err := s.userRepo.ExistsByEmail(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		email = &e
	}

	// Hash password
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// Unknown genders are stored empty
	gender := ""
	if g, ok := models.ParseGender(req.Gender); ok {
		gender = string(g)
	}

	// Create user
	user := &models.User{
		FullName: fullName,
		Gender:   gender,
		Email:    email,
		Phone:    phone,
		Address:  strings.TrimSpace(req.Address),
		Password: hash,
		Enabled:  true,
		Active:   true,
		Roles:    []models.RoleType{role},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("userID", user.ID.String()).
		Str("role", string(role)).
		Msg("User registered")
	return s.authResponse(user)
}

// Login checks phone and password. Any mismatch yields the same credentials error.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	// Find user by phone; an unknown phone looks like a wrong password
	user, err := s.userRepo.GetByPhone(ctx, strings.TrimSpace(req.Phone))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	// Verify password
	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Info().Str("userID", user.ID.String()).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	// Check account status
	if !user.Enabled || !user.Active {
		return nil, apperrors.ErrAccountDisabled
	}

	s.logger.Info().Str("userID", user.ID.String()).Msg("User logged in")
	return s.authResponse(user)
}

// authResponse issues an access token for user
func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID.String()).Msg("Failed to generate access token")
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}
