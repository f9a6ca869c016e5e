package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/app/repositories/memory"
	"github.com/yigit/iams/internal/pkg/audit"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
	"github.com/yigit/iams/internal/pkg/logger"
	"github.com/yigit/iams/internal/pkg/revocation"
)

func init() {
	jwtauth.BcryptCost = 4
}

// testNow is the fixed clock of every service test: Saturday 15 March 2025
var testNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

type sentMail struct {
	kind, to, detail string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *fakeNotifier) SendAdmissionDecision(toEmail, _, _, status string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{kind: "decision", to: toEmail, detail: status})
	return nil
}

func (n *fakeNotifier) SendStudentWelcome(toEmail, _, _, password string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{kind: "welcome", to: toEmail, detail: password})
	return nil
}

type env struct {
	svc      *Services
	store    *memory.Store
	repos    *repositories.Repositories
	tokens   *jwtauth.TokenService
	revoked  *revocation.MemoryStore
	recorder *audit.LogRecorder
	mail     *fakeNotifier
	roles    map[models.RoleName]*models.Role
}

func newEnv(t *testing.T) *env {
	return newEnvWith(t, false)
}

func newEnvWith(t *testing.T, enforceCapacity bool) *env {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	store.SetClock(func() time.Time { return testNow })
	repos := store.Repositories()

	roles := make(map[models.RoleName]*models.Role)
	for _, name := range models.AllRoles {
		role := &models.Role{ID: uuid.NewString(), Name: name}
		require.NoError(t, repos.Roles.Create(ctx, role))
		roles[name] = role
	}

	tokens, err := jwtauth.NewTokenService(jwtauth.TokenConfig{SecretKey: "test-secret", Expiry: time.Hour})
	require.NoError(t, err)

	e := &env{
		store:    store,
		repos:    repos,
		tokens:   tokens,
		revoked:  revocation.NewMemoryStore(),
		recorder: audit.NewLogRecorder(logger.With("audit"), 50),
		mail:     &fakeNotifier{},
		roles:    roles,
	}
	e.svc = New(Dependencies{
		Store:           store,
		Tokens:          tokens,
		Revocations:     e.revoked,
		Auditor:         e.recorder,
		Notifier:        e.mail,
		SignupRoles:     []models.RoleName{models.RoleStudent, models.RoleFaculty},
		EnforceCapacity: enforceCapacity,
		Clock:           func() time.Time { return testNow },
	})
	return e
}

// principal creates a user holding role and returns it as a resolved caller
func (e *env) principal(t *testing.T, role models.RoleName) *auth.Principal {
	t.Helper()
	id := uuid.NewString()
	user := &models.User{
		ID:       id,
		Email:    id[:8] + "@example.com",
		FullName: "User " + id[:8],
		RoleID:   e.roles[role].ID,
		Status:   models.UserActive,
	}
	require.NoError(t, e.repos.Users.Create(context.Background(), user))
	user.Role = e.roles[role]
	return &auth.Principal{User: user, Role: role, TokenID: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour)}
}

// campus is a small catalog: one department, program, semester, course,
// teacher and offering
type campus struct {
	department *models.Department
	program    *models.Program
	semester   *models.Semester
	course     *models.Course
	teacher    *auth.Principal
	faculty    *models.Faculty
	offering   *models.CourseOffering
}

func (e *env) campus(t *testing.T) *campus {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()[:4]

	c := &campus{
		department: &models.Department{ID: uuid.NewString(), Name: "Computer Science", Code: "CSE" + suffix},
	}
	require.NoError(t, e.repos.Departments.Create(ctx, c.department))

	c.program = &models.Program{ID: uuid.NewString(), Name: "B.Tech CS", Code: "BTECH-CS" + suffix, DepartmentID: c.department.ID, DurationYears: 4, Level: models.LevelUG, IsActive: true}
	require.NoError(t, e.repos.Programs.Create(ctx, c.program))

	c.semester = &models.Semester{ID: uuid.NewString(), Name: "Semester 1", Number: 1, AcademicYear: "2024-25", ProgramID: c.program.ID, IsActive: true}
	require.NoError(t, e.repos.Semesters.Create(ctx, c.semester))

	c.course = &models.Course{ID: uuid.NewString(), Code: "CS101" + suffix, Name: "Programming", Credits: 4, Type: models.CourseCore, ProgramID: &c.program.ID}
	require.NoError(t, e.repos.Courses.Create(ctx, c.course))

	c.teacher, c.faculty = e.teacher(t, c.department.ID)

	c.offering = &models.CourseOffering{ID: uuid.NewString(), CourseID: c.course.ID, SemesterID: c.semester.ID, FacultyID: c.faculty.ID, Section: "A", Year: 2025, MaxCapacity: 60}
	require.NoError(t, e.repos.Offerings.Create(ctx, c.offering))
	return c
}

func (e *env) teacher(t *testing.T, departmentID string) (*auth.Principal, *models.Faculty) {
	t.Helper()
	p := e.principal(t, models.RoleFaculty)
	f := &models.Faculty{ID: uuid.NewString(), UserID: p.UserID(), DepartmentID: departmentID, EmployeeCode: "FAC-" + p.UserID()[:6]}
	require.NoError(t, e.repos.Faculty.Create(context.Background(), f))
	return p, f
}

// student creates a STUDENT caller with a profile in programID
func (e *env) student(t *testing.T, programID string, semesterID *string) (*auth.Principal, *models.Student) {
	t.Helper()
	p := e.principal(t, models.RoleStudent)
	s := &models.Student{
		ID:                uuid.NewString(),
		UserID:            p.UserID(),
		ProgramID:         programID,
		CurrentSemesterID: semesterID,
		EnrollmentNo:      "EN-" + p.UserID()[:8],
		Status:            models.StudentActive,
	}
	require.NoError(t, e.repos.Students.Create(context.Background(), s))
	return p, s
}

// enrolled creates a student of the campus program enrolled in its offering
func (e *env) enrolled(t *testing.T, c *campus) (*auth.Principal, *models.Enrollment) {
	t.Helper()
	p, _ := e.student(t, c.program.ID, &c.semester.ID)
	enrollment, err := e.svc.Enrollments.Register(context.Background(), p, c.offering.ID)
	require.NoError(t, err)
	return p, enrollment
}
