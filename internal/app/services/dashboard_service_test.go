package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
)

func TestStudentDashboards(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	p, enrollment := e.enrolled(t, c)

	first := e.exam(t, c.teacher, c.offering.ID, 50)
	e.exam(t, c.teacher, c.offering.ID, 100)
	_, err := e.svc.Exams.UpsertResults(ctx, c.teacher, dto.UpsertResultsRequest{
		ExamID:  first.ID,
		Results: []dto.ResultEntry{{EnrollmentID: enrollment.ID, Marks: marks(40), Grade: "A"}},
	})
	require.NoError(t, err)

	for day, state := range []string{"PRESENT", "PRESENT", "ABSENT"} {
		started, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{
			OfferingID:  c.offering.ID,
			SessionDate: time.Date(2025, time.March, 10+day, 9, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		_, err = e.svc.Attendance.UpsertRecords(ctx, c.teacher, dto.UpsertAttendanceRequest{
			SessionID: started.Session.ID,
			Records:   []dto.AttendanceEntry{{EnrollmentID: enrollment.ID, Status: state}},
		})
		require.NoError(t, err)
	}

	home, err := e.svc.Dashboards.Student(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, home.Student.Program)
	assert.Len(t, home.Enrollments, 1)
	assert.Len(t, home.UpcomingExams, 2)
	assert.Equal(t, dto.AttendanceSummary{TotalSessions: 3, PresentCount: 2, OverallAttendance: 67}, home.AttendanceSummary)

	exams, err := e.svc.Dashboards.StudentExams(ctx, p)
	require.NoError(t, err)
	require.Len(t, exams.Courses, 1)
	course := exams.Courses[0]
	assert.Equal(t, c.course.Code, course.Course.Code)
	assert.Equal(t, c.semester.Name, course.Semester.Name)
	require.Len(t, course.Exams, 2)
	assert.Equal(t, 40.0, course.TotalMarks)
	assert.Equal(t, 50.0, course.TotalMax, "exams without a result are left out of the totals")
	require.NotNil(t, course.Percentage)
	assert.Equal(t, 80, *course.Percentage)

	attendance, err := e.svc.Dashboards.StudentAttendance(ctx, p)
	require.NoError(t, err)
	require.Len(t, attendance.Courses, 1)
	assert.Equal(t, 2, attendance.Courses[0].Attendance.PresentCount)
	assert.Equal(t, 3, attendance.Courses[0].Attendance.TotalCount)
	assert.Equal(t, 67, *attendance.Courses[0].Attendance.Percentage)
}

func TestStudentDashboardWithoutEnrollments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	p, _ := e.student(t, c.program.ID, nil)

	home, err := e.svc.Dashboards.Student(ctx, p)
	require.NoError(t, err)
	assert.NotNil(t, home.Enrollments)
	assert.Empty(t, home.Enrollments)
	assert.Empty(t, home.UpcomingExams)
	assert.Zero(t, home.AttendanceSummary.OverallAttendance)

	attendance, err := e.svc.Dashboards.StudentAttendance(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, attendance.Courses)
}

func TestFacultyDashboard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)

	for _, day := range []time.Time{testNow.Add(-24 * time.Hour), testNow} {
		_, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: day})
		require.NoError(t, err)
	}
	e.exam(t, c.teacher, c.offering.ID, 100)

	home, err := e.svc.Dashboards.Faculty(ctx, c.teacher)
	require.NoError(t, err)
	require.NotNil(t, home.Faculty.User)
	assert.Len(t, home.Offerings, 1)
	require.Len(t, home.TodaySessions, 1)
	assert.Equal(t, models.StartOfDay(testNow), home.TodaySessions[0].SessionDate)
	assert.Len(t, home.UpcomingExams, 1)

	idle, _ := e.teacher(t, c.department.ID)
	home, err = e.svc.Dashboards.Faculty(ctx, idle)
	require.NoError(t, err)
	assert.Empty(t, home.Offerings)
	assert.NotNil(t, home.TodaySessions)
}

func TestAdminDashboard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	e.enrolled(t, c)
	e.enrolled(t, c)
	for i := 0; i < 7; i++ {
		e.application(t, c.program.ID, uuid.NewString()[:8]+"@x.com")
	}
	e.approved(t, c.program.ID, "approved@x.com")

	home, err := e.svc.Dashboards.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.AdminStats{PendingApplications: 7, TotalStudents: 2, TotalFaculty: 1}, home.Stats)
	require.Len(t, home.RecentApplications, 5)
	assert.NotNil(t, home.RecentApplications[0].Program)
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)

	applied := []struct {
		at     time.Time
		status models.AdmissionStatus
	}{
		{time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC), models.AdmissionApproved}, // outside the window
		{time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), models.AdmissionApproved},
		{time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC), models.AdmissionRejected},
		{time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), models.AdmissionPending},
		{time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), models.AdmissionApproved},
	}
	for _, a := range applied {
		require.NoError(t, e.repos.Admissions.Create(ctx, &models.AdmissionApplication{
			ID: uuid.NewString(), FullName: "A", Email: uuid.NewString()[:8] + "@x.com",
			ProgramID: c.program.ID, Status: a.status, AppliedAt: a.at,
		}))
	}

	_, pass := e.enrolled(t, c)
	_, fail := e.enrolled(t, c)
	_, absent := e.enrolled(t, c)
	exam := e.exam(t, c.teacher, c.offering.ID, 100)
	_, err := e.svc.Exams.UpsertResults(ctx, c.teacher, dto.UpsertResultsRequest{
		ExamID: exam.ID,
		Results: []dto.ResultEntry{
			{EnrollmentID: pass.ID, Marks: marks(40)},
			{EnrollmentID: fail.ID, Marks: marks(39.5)},
			{EnrollmentID: absent.ID, Status: "ABSENT"},
		},
	})
	require.NoError(t, err)

	started, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: testNow})
	require.NoError(t, err)
	_, err = e.svc.Attendance.UpsertRecords(ctx, c.teacher, dto.UpsertAttendanceRequest{
		SessionID: started.Session.ID,
		Records: []dto.AttendanceEntry{
			{EnrollmentID: pass.ID, Status: "PRESENT"},
			{EnrollmentID: fail.ID, Status: "LATE"},
			{EnrollmentID: absent.ID},
		},
	})
	require.NoError(t, err)

	overview, err := e.svc.Dashboards.Analytics(ctx)
	require.NoError(t, err)

	require.Len(t, overview.AdmissionsByMonth, 6)
	assert.Equal(t, dto.MonthBucket{MonthKey: "2024-10", Label: "Oct 2024", Total: 1, Approved: 1}, overview.AdmissionsByMonth[0])
	assert.Equal(t, "2024-11", overview.AdmissionsByMonth[1].MonthKey)
	assert.Zero(t, overview.AdmissionsByMonth[1].Total)
	assert.Equal(t, 1, overview.AdmissionsByMonth[2].Rejected)
	assert.Equal(t, dto.MonthBucket{MonthKey: "2025-03", Label: "Mar 2025", Total: 2, Approved: 1, Pending: 1}, overview.AdmissionsByMonth[5])

	require.Len(t, overview.PassRateByCourse, 1)
	rate := overview.PassRateByCourse[0]
	assert.Equal(t, 2, rate.PresentCount, "absent results are skipped")
	assert.Equal(t, 1, rate.PassCount)
	assert.Equal(t, 50, *rate.PassRate)

	require.Len(t, overview.AttendanceByCourse, 1)
	att := overview.AttendanceByCourse[0]
	assert.Equal(t, 1, att.PresentCount)
	assert.Equal(t, 3, att.TotalCount)
	assert.Equal(t, 33, *att.AttendanceRate)
}

func TestAnalyticsEmpty(t *testing.T) {
	e := newEnv(t)

	overview, err := e.svc.Dashboards.Analytics(context.Background())
	require.NoError(t, err)
	assert.Len(t, overview.AdmissionsByMonth, 6)
	assert.NotNil(t, overview.PassRateByCourse)
	assert.Empty(t, overview.AttendanceByCourse)
}
