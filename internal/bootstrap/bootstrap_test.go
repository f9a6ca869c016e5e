package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/config"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
)

const (
	adminEmail    = "root@iams.local"
	adminPassword = "rootpass"
)

func init() {
	jwtauth.BcryptCost = 4
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
}

type entity struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type itemEnvelope[T any] struct {
	Message string `json:"message"`
	Item    T      `json:"item"`
}

type itemsEnvelope[T any] struct {
	Items []T `json:"items"`
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  struct {
			Name string `json:"name"`
		} `json:"role"`
	} `json:"user"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", config.DriverMemory)
	t.Setenv("SEED_ADMIN_EMAIL", adminEmail)
	t.Setenv("SEED_ADMIN_PASSWORD", adminPassword)
	t.Setenv("SERVER_MODE", "test")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	router, deps, err := Build(context.Background(), cfg, zerolog.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close(context.Background()) })

	return &testApp{t: t, router: router}
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// create POSTs body and returns the id of the created item
func (a *testApp) create(path, token string, body interface{}) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, path, token, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[itemEnvelope[entity]](a.t, rec).Item.ID
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[authBody](a.t, rec).Token
}

type campus struct {
	admin      string
	teacher    string
	student    string
	programID  string
	offeringID string
}

// setupCampus builds a department, program, semester, course, one teacher,
// one offering taught by that teacher and one student in the program
func (a *testApp) setupCampus() campus {
	a.t.Helper()
	admin := a.login(adminEmail, adminPassword)

	deptID := a.create("/api/v1/departments", admin, gin.H{"name": "Computer Science", "code": "cs"})
	programID := a.create("/api/v1/programs", admin, gin.H{"name": "B.Tech CS", "code": "btcs", "departmentId": deptID})
	semesterID := a.create("/api/v1/semesters", admin, gin.H{"name": "Semester 1", "number": 1, "programId": programID})
	courseID := a.create("/api/v1/courses", admin, gin.H{"code": "cs101", "name": "Programming", "credits": 4, "programId": programID})

	rec := a.do(http.MethodPost, "/api/v1/faculty", admin, gin.H{
		"email": "teacher@iams.local", "fullName": "Grace Hopper", "password": "teachpass",
		"departmentId": deptID, "employeeCode": "EMP-1",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	facultyID := decode[itemEnvelope[struct {
		Faculty entity `json:"faculty"`
	}]](a.t, rec).Item.Faculty.ID

	offeringID := a.create("/api/v1/course-offerings", admin, gin.H{
		"courseId": courseID, "semesterId": semesterID, "facultyId": facultyID, "section": "A", "year": 2025,
		"schedule": []gin.H{{"day": "MON", "startTime": "09:00", "endTime": "10:00", "room": "L1"}},
	})

	rec = a.do(http.MethodPost, "/api/v1/students", admin, gin.H{
		"email": "student@iams.local", "fullName": "Ada Lovelace", "password": "studpass",
		"programId": programID, "currentSemesterId": semesterID, "enrollmentNo": "CS-001",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	return campus{
		admin:      admin,
		teacher:    a.login("teacher@iams.local", "teachpass"),
		student:    a.login("student@iams.local", "studpass"),
		programID:  programID,
		offeringID: offeringID,
	}
}

func TestPingHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")

	rec = app.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = app.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "iams_http_requests_total")
}

func TestSignupLoginLogout(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "New@X.com", "password": "secret", "fullName": "New Person", "roleName": "STUDENT",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	signup := decode[authBody](t, rec)
	assert.Equal(t, "new@x.com", signup.User.Email)
	assert.NotEmpty(t, signup.Token)

	rec = app.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "new@x.com", "password": "secret", "fullName": "Again", "roleName": "STUDENT",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "boss@x.com", "password": "secret", "fullName": "Boss", "roleName": "SUPER_ADMIN",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "norole@x.com", "password": "secret", "fullName": "No Role",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "STUDENT", decode[authBody](t, rec).User.Role.Name)

	rec = app.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "new@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := app.login("new@x.com", "secret")
	rec = app.do(http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, signup.User.ID, decode[itemEnvelope[entity]](t, rec).Item.ID)

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/v1/me", "", nil).Code)

	require.Equal(t, http.StatusOK, app.do(http.MethodPost, "/api/v1/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/v1/me", token, nil).Code)
}

func TestValidationErrorsCarryFields(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(adminEmail, adminPassword)

	rec := app.do(http.MethodPost, "/api/v1/departments", admin, gin.H{"code": "EE"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}](t, rec)
	require.NotEmpty(t, body.Errors)
	assert.Equal(t, "name", body.Errors[0].Field)
}

func TestEnrollmentFlow(t *testing.T) {
	app := newTestApp(t)
	c := app.setupCampus()

	// catalog reads are open to any signed-in user, writes are staff only
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/v1/departments", c.student, nil).Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/api/v1/departments", c.student, gin.H{"name": "X", "code": "X"}).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/v1/programs", "", nil).Code)

	enrollmentID := app.create("/api/v1/enrollments", c.student, gin.H{"offeringId": c.offeringID})
	rec := app.do(http.MethodPost, "/api/v1/enrollments", c.student, gin.H{"offeringId": c.offeringID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/enrollments", c.student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[itemsEnvelope[entity]](t, rec).Items, 1)

	// only teaching staff read rosters
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/v1/enrollments/by-offering?offeringId="+c.offeringID, c.student, nil).Code)
	rec = app.do(http.MethodGet, "/api/v1/enrollments/by-offering?offeringId="+c.offeringID, c.teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[itemsEnvelope[entity]](t, rec).Items, 1)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/api/v1/enrollments/by-offering", c.teacher, nil).Code)

	rec = app.do(http.MethodDelete, "/api/v1/enrollments/"+enrollmentID, c.student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DROPPED", decode[itemEnvelope[entity]](t, rec).Item.Status)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/api/v1/enrollments/"+enrollmentID, c.student, nil).Code)

	// a dropped enrollment frees the offering
	app.create("/api/v1/enrollments", c.student, gin.H{"offeringId": c.offeringID})
}

func TestAttendanceAndExams(t *testing.T) {
	app := newTestApp(t)
	c := app.setupCampus()
	enrollmentID := app.create("/api/v1/enrollments", c.student, gin.H{"offeringId": c.offeringID})

	start := gin.H{"offeringId": c.offeringID, "sessionDate": "2025-03-17T09:30:00+05:30", "startTime": "09:00", "endTime": "10:00"}
	rec := app.do(http.MethodPost, "/api/v1/attendance-sessions", c.teacher, start)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sessionID := decode[itemEnvelope[entity]](t, rec).Item.ID

	rec = app.do(http.MethodPost, "/api/v1/attendance-sessions", c.teacher, start)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, decode[itemEnvelope[entity]](t, rec).Item.ID)

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/api/v1/attendance-sessions", c.student, start).Code)

	mark := func(status string) {
		rec := app.do(http.MethodPost, "/api/v1/attendance-records", c.teacher, gin.H{
			"sessionId": sessionID,
			"records":   []gin.H{{"enrollmentId": enrollmentID, "status": status}},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	mark("ABSENT")
	mark("PRESENT")

	rec = app.do(http.MethodGet, "/api/v1/attendance-records?sessionId="+sessionID, c.teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode[itemsEnvelope[entity]](t, rec).Items
	require.Len(t, records, 1)
	assert.Equal(t, "PRESENT", records[0].Status)

	examDate := time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)
	examID := app.create("/api/v1/exams", c.teacher, gin.H{
		"offeringId": c.offeringID, "title": "Midterm", "type": "MIDTERM", "examDate": examDate, "maxMarks": 50, "weightage": 30,
	})

	rec = app.do(http.MethodPost, "/api/v1/exam-results", c.teacher, gin.H{
		"examId":  examID,
		"results": []gin.H{{"enrollmentId": enrollmentID, "marks": 60}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, "/api/v1/exam-results", c.teacher, gin.H{
		"examId":  examID,
		"results": []gin.H{{"enrollmentId": enrollmentID, "marks": 42, "grade": "A"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/v1/exam-results?examId="+examID, c.student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[itemsEnvelope[entity]](t, rec).Items, 1)

	rec = app.do(http.MethodGet, "/api/v1/me/student", c.student, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dashboard := decode[itemEnvelope[struct {
		AttendanceSummary struct {
			TotalSessions     int `json:"totalSessions"`
			PresentCount      int `json:"presentCount"`
			OverallAttendance int `json:"overallAttendance"`
		} `json:"attendanceSummary"`
	}]](t, rec).Item
	assert.Equal(t, 1, dashboard.AttendanceSummary.TotalSessions)
	assert.Equal(t, 100, dashboard.AttendanceSummary.OverallAttendance)

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/v1/me/faculty", c.student, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/v1/me/faculty", c.teacher, nil).Code)
}

func TestAdmissionToStudent(t *testing.T) {
	app := newTestApp(t)
	c := app.setupCampus()

	appID := app.create("/api/v1/admissions", "", gin.H{
		"fullName": "Alan Turing", "email": "Alan@X.com", "programId": c.programID,
	})

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/v1/admissions", "", nil).Code)

	rec := app.do(http.MethodPost, "/api/v1/admissions/"+appID+"/create-student", c.admin, gin.H{"enrollmentNo": "CS-100"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPatch, "/api/v1/admissions/"+appID, c.admin, gin.H{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "APPROVED", decode[itemEnvelope[entity]](t, rec).Item.Status)

	rec = app.do(http.MethodPost, "/api/v1/admissions/"+appID+"/create-student", c.admin, gin.H{"enrollmentNo": "CS-100"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	converted := decode[itemEnvelope[struct {
		GeneratedPassword *string `json:"generatedPassword"`
	}]](t, rec).Item
	require.NotNil(t, converted.GeneratedPassword)

	rec = app.do(http.MethodPost, "/api/v1/admissions/"+appID+"/create-student", c.admin, gin.H{"enrollmentNo": "CS-100"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// the new account can sign in with the generated password
	token := app.login("alan@x.com", *converted.GeneratedPassword)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/v1/me/student", token, nil).Code)
}

func TestAnalyticsAndAudit(t *testing.T) {
	app := newTestApp(t)
	c := app.setupCampus()

	rec := app.do(http.MethodGet, "/api/v1/analytics/overview", c.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode[itemEnvelope[struct {
		AdmissionsByMonth []struct {
			MonthKey string `json:"monthKey"`
		} `json:"admissionsByMonth"`
	}]](t, rec).Item
	assert.Len(t, overview.AdmissionsByMonth, 6)

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/v1/analytics/overview", c.teacher, nil).Code)

	rec = app.do(http.MethodGet, "/api/v1/audit-logs?limit=5", c.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[itemsEnvelope[json.RawMessage]](t, rec).Items
	assert.NotEmpty(t, entries)
	assert.LessOrEqual(t, len(entries), 5)

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/v1/audit-logs", c.student, nil).Code)
}
