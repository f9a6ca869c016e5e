package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

func newID() string { return uuid.NewString() }

func seedRole(t *testing.T, repos *repositories.Repositories, name models.RoleName) *models.Role {
	t.Helper()
	role := &models.Role{ID: newID(), Name: name}
	require.NoError(t, repos.Roles.Create(context.Background(), role))
	return role
}

func TestUserEmailIsUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	role := seedRole(t, repos, models.RoleStudent)

	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: newID(), Email: "Ada@Example.com", RoleID: role.ID}))
	err := repos.Users.Create(ctx, &models.User{ID: newID(), Email: "ada@example.com", RoleID: role.ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	u, err := repos.Users.GetByEmail(ctx, " ADA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := New()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		require.NoError(t, repos.Departments.Create(ctx, &models.Department{ID: "d1", Code: "CSE", Name: "CS"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Repositories().Departments.GetByID(ctx, "d1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTxCommits(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		return repos.Departments.Create(ctx, &models.Department{ID: "d1", Code: "CSE", Name: "CS"})
	}))

	d, err := store.Repositories().Departments.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "CSE", d.Code)
}

func TestLiveEnrollmentUniqueness(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	first := &models.Enrollment{ID: newID(), StudentID: "s1", OfferingID: "o1", Status: models.EnrollmentActive}
	require.NoError(t, repos.Enrollments.Create(ctx, first))

	dup := &models.Enrollment{ID: newID(), StudentID: "s1", OfferingID: "o1", Status: models.EnrollmentEnrolled}
	assert.ErrorIs(t, repos.Enrollments.Create(ctx, dup), apperrors.ErrConflict)

	require.NoError(t, repos.Enrollments.Drop(ctx, first.ID, time.Now()))
	assert.ErrorIs(t, repos.Enrollments.Drop(ctx, first.ID, time.Now()), apperrors.ErrNotFound)

	again := &models.Enrollment{ID: newID(), StudentID: "s1", OfferingID: "o1", Status: models.EnrollmentActive}
	require.NoError(t, repos.Enrollments.Create(ctx, again))

	live, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{StudentID: "s1"})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, again.ID, live[0].ID)

	all, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{StudentID: "s1", IncludeDropped: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindOrCreateSessionIsPerDay(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	morning := &models.AttendanceSession{ID: newID(), OfferingID: "o1", SessionDate: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), Mode: models.SessionOffline}
	created, err := repos.Attendance.FindOrCreateSession(ctx, morning)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), morning.SessionDate)

	evening := &models.AttendanceSession{ID: newID(), OfferingID: "o1", SessionDate: time.Date(2025, 3, 4, 18, 30, 0, 0, time.UTC)}
	created, err = repos.Attendance.FindOrCreateSession(ctx, evening)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, morning.ID, evening.ID)
}

func TestUpsertRecordsKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	rec := &models.AttendanceRecord{ID: "r1", SessionID: "s", EnrollmentID: "e", StudentID: "st", Status: models.AttendanceAbsent}
	require.NoError(t, repos.Attendance.UpsertRecords(ctx, []*models.AttendanceRecord{rec}))

	again := &models.AttendanceRecord{ID: "r2", SessionID: "s", EnrollmentID: "e", StudentID: "st", Status: models.AttendancePresent}
	require.NoError(t, repos.Attendance.UpsertRecords(ctx, []*models.AttendanceRecord{again}))
	assert.Equal(t, "r1", again.ID)

	rows, err := repos.Attendance.ListRecords(ctx, repositories.RecordFilter{SessionIDs: []string{"s"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AttendancePresent, rows[0].Status)
}

func TestExamDeleteRemovesResults(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	exam := &models.Exam{ID: "x1", OfferingID: "o1", Title: "Quiz", ExamDate: time.Now(), MaxMarks: 10}
	require.NoError(t, repos.Exams.Create(ctx, exam))
	require.NoError(t, repos.Exams.UpsertResults(ctx, []*models.ExamResult{{ID: "res", ExamID: "x1", EnrollmentID: "e1", Marks: 5}}))

	require.NoError(t, repos.Exams.Delete(ctx, "x1"))
	rows, err := repos.Exams.ListResults(ctx, repositories.ResultFilter{ExamIDs: []string{"x1"}})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.ErrorIs(t, repos.Exams.Delete(ctx, "x1"), apperrors.ErrNotFound)
}

func TestAdmissionLinkOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	app := &models.AdmissionApplication{ID: "a1", FullName: "A", Email: "A@x.com", ProgramID: "p", Status: models.AdmissionApproved}
	require.NoError(t, repos.Admissions.Create(ctx, app))
	assert.Equal(t, "a@x.com", app.Email)

	require.NoError(t, repos.Admissions.Link(ctx, "a1", "s1", "u1", time.Now()))
	err := repos.Admissions.Link(ctx, "a1", "s2", "u2", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, err := repos.Admissions.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "s1", *got.StudentID)
}

func TestAdmissionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new", "mid"} {
		offset := map[int]time.Duration{0: 0, 1: 48 * time.Hour, 2: 24 * time.Hour}[i]
		require.NoError(t, repos.Admissions.Create(ctx, &models.AdmissionApplication{
			ID: id, Email: id + "@x.com", ProgramID: "p", Status: models.AdmissionPending, AppliedAt: base.Add(offset),
		}))
	}

	rows, err := repos.Admissions.List(ctx, repositories.AdmissionFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "new", rows[0].ID)
	assert.Equal(t, "mid", rows[1].ID)

	n, err := repos.Admissions.CountByStatus(ctx, models.AdmissionPending)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
