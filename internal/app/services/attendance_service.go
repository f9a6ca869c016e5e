package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

// AttendanceService runs class sessions and their rosters
type AttendanceService struct {
	store repositories.Store
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(store repositories.Store) *AttendanceService {
	return &AttendanceService{store: store}
}

// StartSession finds or creates the session of the offering for the calendar
// day of req.SessionDate
func (s *AttendanceService) StartSession(ctx context.Context, p *auth.Principal, req dto.StartSessionRequest) (*dto.SessionResult, error) {
	repos := s.store.Repositories()
	offering, err := getOffering(ctx, repos, req.OfferingID)
	if err != nil {
		return nil, err
	}
	if err := ensureTeaches(ctx, repos, p, offering); err != nil {
		return nil, err
	}

	session := &models.AttendanceSession{
		ID:          uuid.NewString(),
		OfferingID:  offering.ID,
		SessionDate: models.StartOfDay(req.SessionDate),
		Mode:        models.SessionMode(req.Mode),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Topic:       strings.TrimSpace(req.Topic),
	}
	if session.Mode == "" {
		session.Mode = models.SessionOffline
	}

	created, err := repos.Attendance.FindOrCreateSession(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).sessions(ctx, session); err != nil {
		return nil, err
	}
	return &dto.SessionResult{Session: session, Created: created}, nil
}

// ListSessions lists sessions, newest first. Without an offering, FACULTY
// callers only see the offerings they teach.
func (s *AttendanceService) ListSessions(ctx context.Context, p *auth.Principal, offeringID string, from, to *time.Time) ([]*models.AttendanceSession, error) {
	repos := s.store.Repositories()
	filter := repositories.SessionFilter{From: from, To: to}

	switch {
	case offeringID != "":
		offering, err := getOffering(ctx, repos, offeringID)
		if err != nil {
			return nil, err
		}
		if err := ensureTeaches(ctx, repos, p, offering); err != nil {
			return nil, err
		}
		filter.OfferingIDs = []string{offering.ID}
	case p.Is(models.RoleFaculty):
		ids, err := taughtOfferingIDs(ctx, repos, p)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []*models.AttendanceSession{}, nil
		}
		filter.OfferingIDs = ids
	}

	sessions, err := repos.Attendance.ListSessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).sessions(ctx, sessions...); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpsertRecords writes the roster of a session. Entries for the same
// enrollment collapse to the last one.
func (s *AttendanceService) UpsertRecords(ctx context.Context, p *auth.Principal, req dto.UpsertAttendanceRequest) ([]*models.AttendanceRecord, error) {
	repos := s.store.Repositories()
	session, err := repos.Attendance.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, notFoundAs(err, "Attendance session not found")
	}
	offering, err := getOffering(ctx, repos, session.OfferingID)
	if err != nil {
		return nil, err
	}
	if err := ensureTeaches(ctx, repos, p, offering); err != nil {
		return nil, err
	}

	entries := lastWins(req.Records, func(e dto.AttendanceEntry) string { return e.EnrollmentID })

	var fields []apperrors.FieldError
	for i, e := range entries {
		if e.Status != "" && !models.AttendanceStatus(e.Status).Valid() {
			fields = append(fields, apperrors.FieldError{
				Field:   fmt.Sprintf("records[%d].status", i),
				Message: fmt.Sprintf("unknown status %q", e.Status),
			})
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidation("Invalid attendance status").WithFields(fields...)
	}

	roster, err := rosterOf(ctx, repos, offering.ID, entries, func(e dto.AttendanceEntry) string { return e.EnrollmentID })
	if err != nil {
		return nil, err
	}

	records := make([]*models.AttendanceRecord, 0, len(entries))
	for _, e := range entries {
		status := models.AttendanceStatus(e.Status)
		if status == "" {
			status = models.AttendanceAbsent
		}
		records = append(records, &models.AttendanceRecord{
			ID:           uuid.NewString(),
			SessionID:    session.ID,
			EnrollmentID: e.EnrollmentID,
			StudentID:    roster[e.EnrollmentID].StudentID,
			Status:       status,
			Remarks:      strings.TrimSpace(e.Remarks),
		})
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		return tx.Attendance.UpsertRecords(ctx, records)
	})
	if err != nil {
		return nil, err
	}
	return s.records(ctx, repos, session.ID)
}

// ListRecords returns the roster of a session with students composed
func (s *AttendanceService) ListRecords(ctx context.Context, p *auth.Principal, sessionID string) ([]*models.AttendanceRecord, error) {
	repos := s.store.Repositories()
	session, err := repos.Attendance.GetSession(ctx, sessionID)
	if err != nil {
		return nil, notFoundAs(err, "Attendance session not found")
	}
	offering, err := getOffering(ctx, repos, session.OfferingID)
	if err != nil {
		return nil, err
	}
	if err := ensureTeaches(ctx, repos, p, offering); err != nil {
		return nil, err
	}
	return s.records(ctx, repos, session.ID)
}

func (s *AttendanceService) records(ctx context.Context, repos *repositories.Repositories, sessionID string) ([]*models.AttendanceRecord, error) {
	records, err := repos.Attendance.ListRecords(ctx, repositories.RecordFilter{SessionIDs: []string{sessionID}})
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).attendanceRecords(ctx, records...); err != nil {
		return nil, err
	}
	return records, nil
}

// lastWins drops earlier entries that share a key with a later one, keeping
// the order in which keys first appeared
func lastWins[T any](entries []T, key func(T) string) []T {
	index := make(map[string]int, len(entries))
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		k := key(e)
		if i, ok := index[k]; ok {
			out[i] = e
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}

// rosterOf loads the enrollments referenced by entries and fails with a
// validation error naming every id that is not live in offeringID
func rosterOf[T any](ctx context.Context, repos *repositories.Repositories, offeringID string, entries []T, key func(T) string) (map[string]*models.Enrollment, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, key(e))
	}

	enrollments, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{IDs: ids, OfferingID: offeringID})
	if err != nil {
		return nil, err
	}
	roster := make(map[string]*models.Enrollment, len(enrollments))
	for _, e := range enrollments {
		roster[e.ID] = e
	}

	var bad []apperrors.FieldError
	for _, id := range ids {
		if _, ok := roster[id]; !ok {
			bad = append(bad, apperrors.FieldError{Field: "enrollmentId", Message: id})
		}
	}
	if len(bad) > 0 {
		return nil, apperrors.NewValidation("Some enrollments do not belong to this offering").WithFields(bad...)
	}
	return roster, nil
}
