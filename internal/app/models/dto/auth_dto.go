package dto

import (
	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
)

// LoginRequest represents login credentials. Users log in with their phone number.
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required" example:"0781234567"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required" example:"Jane Doe"`
	Gender   string `json:"gender" binding:"required" example:"FEMALE"`
	Email    string `json:"email" binding:"omitempty,email" example:"jane@example.com"`
	Phone    string `json:"phone" binding:"required,min=10,max=15" example:"0781234567"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required" example:"PARENTS"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID       uuid.UUID         `json:"id"`
	FullName string            `json:"fullName"`
	Phone    string            `json:"phone"`
	Email    string            `json:"email,omitempty"`
	Gender   string            `json:"gender,omitempty"`
	Address  string            `json:"address,omitempty"`
	Roles    []models.RoleType `json:"roles"`
	Enabled  bool              `json:"enabled"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse maps a user model
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:       u.ID,
		FullName: u.FullName,
		Phone:    u.Phone,
		Gender:   u.Gender,
		Address:  u.Address,
		Roles:    u.Roles,
		Enabled:  u.Enabled,
	}
	if u.Email != nil {
		resp.Email = *u.Email
	}
	return resp
}

// NewUserResponses maps a user list
func NewUserResponses(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
