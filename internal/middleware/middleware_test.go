package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", AccessTokenExp: exp, TokenIssuer: "academy"})
}

func protectedRouter(jwt *auth.JWTService, roles ...models.RoleType) *gin.Engine {
	m := NewAuthMiddleware(jwt)
	r := gin.New()
	r.GET("/secure", m.JWTAuth(), m.RequireRoles(roles...), func(c *gin.Context) {
		caller, _ := CallerFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": caller.UserID.String()})
	})
	return r
}

func tokenFor(t *testing.T, jwt *auth.JWTService, roles ...models.RoleType) (string, uuid.UUID) {
	t.Helper()
	u := &models.User{ID: uuid.New(), Phone: "0781234567", Roles: roles}
	token, _, err := jwt.GenerateAccessToken(u)
	require.NoError(t, err)
	return token, u.ID
}

func TestJWTAuth(t *testing.T) {
	jwt := newJWT(time.Hour)
	router := protectedRouter(jwt, models.RoleHead, models.RoleTeacher)
	teacherToken, teacherID := tokenFor(t, jwt, models.RoleTeacher)
	parentToken, _ := tokenFor(t, jwt, models.RoleParents)
	expiredToken, _ := tokenFor(t, newJWT(-time.Minute), models.RoleHead)

	tests := []struct {
		name   string
		header string
		query  string
		status int
		code   dto.ErrorCode
	}{
		{"missing token", "", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", "", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"expired token", "Bearer " + expiredToken, "", http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"wrong role", "Bearer " + parentToken, "", http.StatusForbidden, dto.ErrorCodeForbidden},
		{"bearer header", "Bearer " + teacherToken, "", http.StatusOK, ""},
		{"query token", "", teacherToken, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/secure"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), teacherID.String())
				return
			}
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", apperrors.NewResourceNotFoundError("No reports found for the given student and academic data"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"conflict", apperrors.ErrAcademicDataExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"enrollment", fmt.Errorf("%w: Dessin", apperrors.ErrNotEnrolled), http.StatusBadRequest, dto.ErrorCodeEnrollment},
		{"validation", apperrors.ErrScoreRange, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"batch", &apperrors.BatchError{Messages: []string{"a", "b"}}, http.StatusBadRequest, dto.ErrorCodeBatchFailed},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"rendering", apperrors.NewRenderingError(errors.New("font missing")), http.StatusInternalServerError, dto.ErrorCodeRendering},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIErrorKeepsMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewResourceNotFoundError("No active modules found. Please add modules first."))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No active modules found. Please add modules first.", resp.Error.Message)
}

func TestBindJSONReportsFieldErrors(t *testing.T) {
	r := gin.New()
	r.POST("/marks", func(c *gin.Context) {
		var req dto.AddMarkRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	body := `{"studentId":"` + uuid.NewString() + `","moduleId":"` + uuid.NewString() + `","academicDataId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/marks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Score", resp.Error.Field)

	body = `{"studentId":"` + uuid.NewString() + `","moduleId":"` + uuid.NewString() + `","academicDataId":"` + uuid.NewString() + `","score":0}`
	req = httptest.NewRequest(http.MethodPost, "/marks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestValidateRequestStoresBody(t *testing.T) {
	r := gin.New()
	r.POST("/login", ValidateRequest(func() interface{} { return &dto.LoginRequest{} }), func(c *gin.Context) {
		req, ok := ValidatedBody[dto.LoginRequest](c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"phone": req.Phone})
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"phone":"0781234567","password":"secret"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0781234567")

	w = post(`{"phone":"0781234567"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Password", resp.Error.Field)
}
