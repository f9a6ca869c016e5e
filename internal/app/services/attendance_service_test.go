package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

func TestStartSessionConvergesPerDay(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)

	morning := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	first, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: morning, Topic: "Intro"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, models.SessionOffline, first.Session.Mode)
	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), first.Session.SessionDate)
	require.NotNil(t, first.Session.Offering)

	second, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: morning.Add(6 * time.Hour)})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Session.ID, second.Session.ID)

	// 23:30 at -05:00 is still the 14th in its own offset
	late := time.Date(2025, time.March, 14, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	third, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: late})
	require.NoError(t, err)
	assert.Equal(t, first.Session.ID, third.Session.ID)

	sessions, err := e.svc.Attendance.ListSessions(ctx, c.teacher, "", nil, nil)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestStartSessionRequiresTeacher(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	outsider, _ := e.teacher(t, c.department.ID)

	_, err := e.svc.Attendance.StartSession(ctx, outsider, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: testNow})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = e.svc.Attendance.StartSession(ctx, e.principal(t, models.RoleAdmin), dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: testNow})
	assert.NoError(t, err)

	_, err = e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: "missing", SessionDate: testNow})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	sessions, err := e.svc.Attendance.ListSessions(ctx, outsider, "", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestUpsertRecordsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	_, a := e.enrolled(t, c)
	_, b := e.enrolled(t, c)

	started, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: testNow})
	require.NoError(t, err)

	roster := dto.UpsertAttendanceRequest{
		SessionID: started.Session.ID,
		Records: []dto.AttendanceEntry{
			{EnrollmentID: a.ID, Status: "PRESENT"},
			{EnrollmentID: b.ID},
		},
	}
	first, err := e.svc.Attendance.UpsertRecords(ctx, c.teacher, roster)
	require.NoError(t, err)
	require.Len(t, first, 2)

	roster.Records = []dto.AttendanceEntry{
		{EnrollmentID: b.ID, Status: "LATE"},
		{EnrollmentID: a.ID, Status: "PRESENT"},
		{EnrollmentID: b.ID, Status: "EXCUSED", Remarks: "medical"},
	}
	second, err := e.svc.Attendance.UpsertRecords(ctx, c.teacher, roster)
	require.NoError(t, err)
	require.Len(t, second, 2)

	byEnrollment := map[string]*models.AttendanceRecord{}
	for _, r := range second {
		byEnrollment[r.EnrollmentID] = r
	}
	assert.Equal(t, models.AttendancePresent, byEnrollment[a.ID].Status)
	assert.Equal(t, models.AttendanceExcused, byEnrollment[b.ID].Status)
	assert.Equal(t, "medical", byEnrollment[b.ID].Remarks)
	assert.Equal(t, a.StudentID, byEnrollment[a.ID].StudentID)
	require.NotNil(t, byEnrollment[a.ID].Enrollment)
	require.NotNil(t, byEnrollment[a.ID].Enrollment.Student)

	for _, r := range first {
		assert.Equal(t, r.ID, byEnrollment[r.EnrollmentID].ID, "records keep their identity")
	}
}

func TestUpsertRecordsDefaultsToAbsent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	_, a := e.enrolled(t, c)

	started, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: testNow})
	require.NoError(t, err)

	records, err := e.svc.Attendance.UpsertRecords(ctx, c.teacher, dto.UpsertAttendanceRequest{
		SessionID: started.Session.ID,
		Records:   []dto.AttendanceEntry{{EnrollmentID: a.ID}},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AttendanceAbsent, records[0].Status)
}

func TestUpsertRecordsRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	other := e.campus(t)
	p, a := e.enrolled(t, c)
	_, foreign := e.enrolled(t, other)

	started, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{OfferingID: c.offering.ID, SessionDate: testNow})
	require.NoError(t, err)

	_, err = e.svc.Attendance.UpsertRecords(ctx, c.teacher, dto.UpsertAttendanceRequest{
		SessionID: started.Session.ID,
		Records:   []dto.AttendanceEntry{{EnrollmentID: a.ID, Status: "SLEEPING"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.svc.Attendance.UpsertRecords(ctx, c.teacher, dto.UpsertAttendanceRequest{
		SessionID: started.Session.ID,
		Records: []dto.AttendanceEntry{
			{EnrollmentID: a.ID, Status: "PRESENT"},
			{EnrollmentID: foreign.ID, Status: "PRESENT"},
			{EnrollmentID: "ghost", Status: "PRESENT"},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	fields := apperrors.Fields(err)
	require.Len(t, fields, 2)
	assert.Equal(t, foreign.ID, fields[0].Message)
	assert.Equal(t, "ghost", fields[1].Message)

	_, err = e.svc.Enrollments.Drop(ctx, p, a.ID)
	require.NoError(t, err)
	_, err = e.svc.Attendance.UpsertRecords(ctx, c.teacher, dto.UpsertAttendanceRequest{
		SessionID: started.Session.ID,
		Records:   []dto.AttendanceEntry{{EnrollmentID: a.ID, Status: "PRESENT"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation, "dropped enrollments are off the roster")

	records, err := e.svc.Attendance.ListRecords(ctx, c.teacher, started.Session.ID)
	require.NoError(t, err)
	assert.Empty(t, records, "a rejected roster writes nothing")

	_, err = e.svc.Attendance.UpsertRecords(ctx, c.teacher, dto.UpsertAttendanceRequest{
		SessionID: "missing",
		Records:   []dto.AttendanceEntry{{EnrollmentID: a.ID}},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListSessionsByRange(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)

	for day := 10; day <= 14; day++ {
		_, err := e.svc.Attendance.StartSession(ctx, c.teacher, dto.StartSessionRequest{
			OfferingID:  c.offering.ID,
			SessionDate: time.Date(2025, time.March, day, 9, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	from := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC)
	sessions, err := e.svc.Attendance.ListSessions(ctx, c.teacher, c.offering.ID, &from, &to)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, to, sessions[0].SessionDate, "newest first")
}
