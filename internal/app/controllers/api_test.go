package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
)

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleGates(t *testing.T) {
	env := newAPIEnv(t)
	_, parent := env.login(t, "0780000009", models.RoleParents)
	_, teacher := env.login(t, "0780000008", models.RoleTeacher)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"no token", http.MethodGet, "/api/v1/modules", "", nil, http.StatusUnauthorized},
		{"parent reads modules", http.MethodGet, "/api/v1/modules", parent, nil, http.StatusOK},
		{"parent creates module", http.MethodPost, "/api/v1/modules", parent, map[string]string{"name": "X"}, http.StatusForbidden},
		{"teacher creates module", http.MethodPost, "/api/v1/modules", teacher, map[string]string{"name": "X"}, http.StatusForbidden},
		{"teacher lists users", http.MethodGet, "/api/v1/users", teacher, nil, http.StatusForbidden},
		{"parent renders ad-hoc bulletin", http.MethodGet, "/api/v1/documents/preview/bulletin?studentName=A", parent, nil, http.StatusForbidden},
		{"parent lists drafts", http.MethodGet, "/api/v1/academic-data", parent, nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"fullName": "Jeanne Mukamana", "gender": "FEMALE", "phone": "0781112223",
		"password": "Kigali2025", "role": "PARENTS",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"phone": "0781112223", "password": "wrong-pass1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid phone or password")

	var auth dto.AuthResponse
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"phone": "0781112223", "password": "Kigali2025"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &auth)
	require.NotEmpty(t, auth.Token.AccessToken)

	rec = env.do(t, http.MethodGet, "/api/v1/academic-data/published", auth.Token.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"fullName": "Someone Else", "gender": "MALE", "phone": "0781112223",
		"password": "Kigali2025", "role": "PARENTS",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMarksAreHiddenFromParentsUntilPublished(t *testing.T) {
	env := newAPIEnv(t)
	s := env.school(t)
	_, teacher := env.login(t, "0780000002", models.RoleTeacher)
	parent, parentToken := env.login(t, "0780000003", models.RoleParents)
	_, strangerToken := env.login(t, "0780000004", models.RoleParents)

	rec := env.do(t, http.MethodPost, "/api/v1/students/"+s.studentID+"/parents/"+parent.ID.String(), s.headToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/reports/marks", teacher, map[string]interface{}{
		"studentId": s.studentID, "moduleId": s.moduleID, "academicDataId": s.periodID, "score": 84,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved dto.ReportResponse
	decode(t, rec, &saved)
	assert.Equal(t, "green", saved.GradeColor)

	var reports []dto.ReportResponse
	rec = env.do(t, http.MethodGet, "/api/v1/reports/student/"+s.studentID, teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &reports)
	assert.Len(t, reports, 1)

	rec = env.do(t, http.MethodGet, "/api/v1/reports/student/"+s.studentID, parentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &reports)
	assert.Empty(t, reports)

	rec = env.do(t, http.MethodGet, "/api/v1/academic-data/"+s.periodID, parentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/academic-data/"+s.periodID+"/publish", s.headToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/reports/student/"+s.studentID+"/trimester/I/year/2025", parentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, 84, reports[0].Score)

	var grouped []dto.GroupedReportResponse
	rec = env.do(t, http.MethodGet, "/api/v1/reports/student/"+s.studentID+"?grouped=true", parentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &grouped)
	require.Len(t, grouped, 1)
	assert.Len(t, grouped[0].Modules, 1)

	rec = env.do(t, http.MethodGet, "/api/v1/reports/student/"+s.studentID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/students/"+s.studentID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "PARENTS cannot read student")
	rec = env.do(t, http.MethodGet, "/api/v1/students/"+s.studentID, parentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/students/parent/"+parent.ID.String(), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBulkMarksReportPartialSuccess(t *testing.T) {
	env := newAPIEnv(t)
	s := env.school(t)

	var out dto.BulkMarksResponse
	rec := env.do(t, http.MethodPost, "/api/v1/reports/marks/bulk", s.headToken, map[string]interface{}{
		"studentId": s.studentID, "academicDataId": s.periodID, "classLevel": "NURSERY_1",
		"moduleMarks": []map[string]interface{}{
			{"moduleId": s.moduleID, "score": 55},
			{"moduleId": s.moduleID, "score": 101},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &out)
	assert.True(t, out.Partial)
	assert.Len(t, out.Reports, 1)
	assert.Len(t, out.Errors, 1)

	rec = env.do(t, http.MethodPost, "/api/v1/reports/marks/bulk", s.headToken, map[string]interface{}{
		"studentId": s.studentID, "academicDataId": s.periodID, "classLevel": "NURSERY_1",
		"moduleMarks": []map[string]interface{}{{"moduleId": s.moduleID, "score": -1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.assertCode(t, rec, string(dto.ErrorCodeBatchFailed))
}

func (e *apiEnv) assertCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	out := decode(t, rec, nil)
	require.NotNil(t, out.Error, rec.Body.String())
	assert.Equal(t, code, out.Error.Code)
}

func TestBulletinDownload(t *testing.T) {
	env := newAPIEnv(t)
	s := env.school(t)

	rec := env.do(t, http.MethodPost, "/api/v1/reports/marks", s.headToken, map[string]interface{}{
		"studentId": s.studentID, "moduleId": s.moduleID, "academicDataId": s.periodID, "score": 72,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	path := "/api/v1/reports/bulletin/" + s.studentID + "/trimester/FIRST/year/2025"
	rec = env.do(t, http.MethodGet, path, s.headToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "draft marks are not printed")

	rec = env.do(t, http.MethodPut, "/api/v1/academic-data/"+s.periodID+"/publish", s.headToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, path, s.headToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="bulletin_`+s.studentID+`.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = env.do(t, http.MethodGet, "/api/v1/reports/grid/"+s.studentID+"/year/2025?classe=Nursery-1", s.headToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bulletin_grid_"+s.studentID)

	rec = env.do(t, http.MethodGet, "/api/v1/reports/template/"+s.studentID+"/trimester/2/year/2025", s.headToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bulletin_template_"+s.studentID)

	rec = env.do(t, http.MethodGet, "/api/v1/reports/bulletin/"+s.studentID+"/trimester/FOURTH/year/2025", s.headToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdHocDocuments(t *testing.T) {
	env := newAPIEnv(t)
	_, teacher := env.login(t, "0780000005", models.RoleTeacher)

	rec := env.do(t, http.MethodPost, "/api/v1/documents/generate/bulletin", teacher, map[string]interface{}{
		"studentName": "Aline Uwase", "classe": "Nursery-1", "annee": "2025/2026", "trimester": "Trimestre I",
		"grades": map[string]interface{}{"math": map[string]interface{}{"score": 91}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `inline; filename="bulletin_Aline_Uwase.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = env.do(t, http.MethodPost, "/api/v1/documents/download/bulletin", teacher, map[string]interface{}{"classe": "Nursery-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/documents/preview/bulletin?studentName=Aline", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestCreateStudentFromMultipartForm(t *testing.T) {
	env := newAPIEnv(t)
	_, head := env.login(t, "0780000006", models.RoleHead)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"firstName": "Eric", "lastName": "Habimana", "dateOfBirth": "2019-11-02",
		"gender": "MALE", "classLevel": "Pre-Primary", "academicYear": "2024-2025",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+head)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var student dto.StudentResponse
	decode(t, rec, &student)
	assert.Equal(t, "STD20240001", student.StudentCode)
	assert.Equal(t, "PRE_PRIMARY", student.ClassLevel)

	var missing bytes.Buffer
	w = multipart.NewWriter(&missing)
	require.NoError(t, w.WriteField("firstName", "Eric"))
	require.NoError(t, w.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/v1/students", &missing)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+head)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidPathParameters(t *testing.T) {
	env := newAPIEnv(t)
	_, head := env.login(t, "0780000007", models.RoleHead)

	rec := env.do(t, http.MethodGet, "/api/v1/modules/not-a-uuid", head, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/users?role=JANITOR", head, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
