package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appauth "github.com/uruhongore/academy/internal/app/auth"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextRoles  = "roles"
	ContextClaims = "claims"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// abortUnauthorized stops the chain with a 401 envelope
func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	detail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

// tokenFromRequest reads the Authorization header, falling back to the token query parameter
// which browsers use for websocket upgrades.
func tokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("token")
	}
	// Some clients quote the header value
	header = strings.Trim(strings.TrimSpace(header), "\"'")
	if header == "" {
		return ""
	}
	token, err := auth.ExtractBearerToken(header)
	if err != nil {
		return ""
	}
	return token
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header or query
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		// Validate token
		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		// Store the caller for the handlers
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRoles, claims.Roles)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireRoles lets the request through when the caller holds at least one of roles
func (m *AuthMiddleware) RequireRoles(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		// JWTAuth must have run first
		caller, ok := CallerFromContext(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User information not found")
			return
		}
		// Any one of the roles is enough
		for _, r := range roles {
			if caller.Has(r) {
				c.Next()
				return
			}
		}

		detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
	}
}

// CallerFromContext returns the identity stored by JWTAuth
func CallerFromContext(c *gin.Context) (appauth.Caller, bool) {
	rawID, ok := c.Get(ContextUserID)
	if !ok {
		return appauth.Caller{}, false
	}
	id, ok := rawID.(uuid.UUID)
	if !ok {
		return appauth.Caller{}, false
	}
	// Roles are optional in the context; no roles means no privileges
	roles, _ := c.Get(ContextRoles)
	rs, _ := roles.([]models.RoleType)
	return appauth.Caller{UserID: id, Roles: rs}, true
}
