package memory

import (
	"context"
	"time"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

type (
	sessionRow = models.AttendanceSession
	recordRow  = models.AttendanceRecord
)

type attendanceRepo struct{ s *session }

func (r *attendanceRepo) FindOrCreateSession(_ context.Context, sess *models.AttendanceSession) (bool, error) {
	created := false
	err := r.s.run(func(d *dataset) error {
		day := models.StartOfDay(sess.SessionDate)
		if existing, ok := d.sessions.find(func(v sessionRow) bool {
			return v.OfferingID == sess.OfferingID && v.SessionDate.Equal(day)
		}); ok {
			*sess = existing
			return nil
		}
		now := r.s.now()
		sess.SessionDate = day
		sess.CreatedAt, sess.UpdatedAt = now, now
		row := *sess
		row.Offering = nil
		d.sessions.put(row.ID, row)
		created = true
		return nil
	})
	return created, err
}

func (r *attendanceRepo) GetSession(_ context.Context, id string) (*models.AttendanceSession, error) {
	var out *models.AttendanceSession
	err := r.s.run(func(d *dataset) error {
		v, ok := d.sessions.get(id)
		if !ok {
			return apperrors.NewNotFound("attendance session not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *attendanceRepo) ListSessions(_ context.Context, f repositories.SessionFilter) ([]*models.AttendanceSession, error) {
	var out []*models.AttendanceSession
	err := r.s.run(func(d *dataset) error {
		rows := d.sessions.filter(func(v sessionRow) bool {
			if len(f.OfferingIDs) > 0 && !contains(f.OfferingIDs, v.OfferingID) {
				return false
			}
			if f.From != nil && v.SessionDate.Before(*f.From) {
				return false
			}
			if f.To != nil && v.SessionDate.After(*f.To) {
				return false
			}
			return true
		})
		sortByTimeDesc(rows, func(v sessionRow) time.Time { return v.SessionDate })
		for i := range rows {
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}

func (r *attendanceRepo) UpsertRecords(_ context.Context, records []*models.AttendanceRecord) error {
	return r.s.run(func(d *dataset) error {
		now := r.s.now()
		for _, rec := range records {
			if existing, ok := d.records.find(func(v recordRow) bool {
				return v.SessionID == rec.SessionID && v.EnrollmentID == rec.EnrollmentID
			}); ok {
				rec.ID = existing.ID
				rec.CreatedAt = existing.CreatedAt
			} else {
				rec.CreatedAt = now
			}
			rec.UpdatedAt = now
			row := *rec
			row.Enrollment = nil
			d.records.put(row.ID, row)
		}
		return nil
	})
}

func (r *attendanceRepo) ListRecords(_ context.Context, f repositories.RecordFilter) ([]*models.AttendanceRecord, error) {
	var out []*models.AttendanceRecord
	err := r.s.run(func(d *dataset) error {
		rows := d.records.filter(func(v recordRow) bool {
			if len(f.SessionIDs) > 0 && !contains(f.SessionIDs, v.SessionID) {
				return false
			}
			if len(f.EnrollmentIDs) > 0 && !contains(f.EnrollmentIDs, v.EnrollmentID) {
				return false
			}
			return true
		})
		for i := range rows {
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}
