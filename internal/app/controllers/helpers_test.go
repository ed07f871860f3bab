package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	appauth "github.com/uruhongore/academy/internal/app/auth"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/repositories/inmem"
	"github.com/uruhongore/academy/internal/app/services"
	"github.com/uruhongore/academy/internal/bootstrap"
	"github.com/uruhongore/academy/internal/middleware"
	"github.com/uruhongore/academy/internal/pkg/auth"
	"github.com/uruhongore/academy/internal/pkg/bulletin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiEnv struct {
	db     *inmem.DB
	jwt    *auth.JWTService
	router *gin.Engine
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db := inmem.New()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "api-secret", AccessTokenExp: time.Hour, TokenIssuer: "academy-test"})
	svc := services.NewServices(services.Stores{
		Users:        db.Users(),
		Students:     db.Students(),
		Modules:      db.Modules(),
		AcademicData: db.AcademicData(),
		Reports:      db.Reports(),
	}, jwt, nil, nil, bulletin.School{Name: "Ecole Test"}, zerolog.Nop())

	controllers := bootstrap.NewControllers(svc, appauth.NewPolicy(), nil, zerolog.Nop())
	router := bootstrap.NewRouter(controllers, middleware.NewAuthMiddleware(jwt), nil, zerolog.Nop())
	return &apiEnv{db: db, jwt: jwt, router: router}
}

// login stores a user with the given role and returns it with a valid access token
func (e *apiEnv) login(t *testing.T, phone string, role models.RoleType) (*models.User, string) {
	t.Helper()
	u := &models.User{FullName: "User " + phone, Phone: phone, Roles: []models.RoleType{role}, Enabled: true, Active: true}
	require.NoError(t, e.db.Users().Create(context.Background(), u))
	token, _, err := e.jwt.GenerateAccessToken(u)
	require.NoError(t, err)
	return u, token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

type idOnly struct {
	ID string `json:"id"`
}

// school seeds one module, one student enrolled in it and one draft period through the API
type school struct {
	headToken string
	moduleID  string
	studentID string
	periodID  string
}

func (e *apiEnv) school(t *testing.T) school {
	t.Helper()
	_, head := e.login(t, "0780000001", models.RoleHead)
	s := school{headToken: head}

	var m idOnly
	rec := e.do(t, http.MethodPost, "/api/v1/modules", head, map[string]interface{}{
		"name": "Pré-Mathématiques", "category": "Pré-Mathématiques", "indexOrder": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &m)
	s.moduleID = m.ID

	var st idOnly
	rec = e.do(t, http.MethodPost, "/api/v1/students", head, map[string]interface{}{
		"firstName": "Aline", "lastName": "Uwase", "dateOfBirth": "2020-03-14", "gender": "FEMALE",
		"classLevel": "NURSERY_1", "academicYear": "2025-2026", "moduleIds": []string{m.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &st)
	s.studentID = st.ID

	var p idOnly
	rec = e.do(t, http.MethodPost, "/api/v1/academic-data", head, map[string]interface{}{
		"trimester": "FIRST", "academicYear": 2025, "period": "PERIOD_1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &p)
	s.periodID = p.ID
	return s
}
