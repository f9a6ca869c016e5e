package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/dberrors"
)

type attendanceRepo struct{ db DBTX }

const sessionColumns = `id, offering_id, session_date, mode, start_time, end_time, topic, created_at, updated_at`

func scanSession(row pgx.Row, s *models.AttendanceSession) error {
	return row.Scan(
		&s.ID,
		&s.OfferingID,
		&s.SessionDate,
		&s.Mode,
		&s.StartTime,
		&s.EndTime,
		&s.Topic,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

const recordColumns = `id, session_id, enrollment_id, student_id, status, remarks, created_at, updated_at`

func scanRecord(row pgx.Row, r *models.AttendanceRecord) error {
	return row.Scan(&r.ID, &r.SessionID, &r.EnrollmentID, &r.StudentID, &r.Status, &r.Remarks, &r.CreatedAt, &r.UpdatedAt)
}

func (r *attendanceRepo) FindOrCreateSession(ctx context.Context, session *models.AttendanceSession) (bool, error) {
	// The no-op update makes RETURNING yield the existing row; xmax is 0 only
	// for a freshly inserted tuple.
	query := `
		INSERT INTO attendance_sessions (id, offering_id, session_date, mode, start_time, end_time, topic)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT attendance_sessions_day_key
		DO UPDATE SET offering_id = EXCLUDED.offering_id
		RETURNING ` + sessionColumns + `, (xmax = 0) AS inserted
	`
	var created bool
	err := r.db.QueryRow(ctx, query,
		session.ID, session.OfferingID, models.StartOfDay(session.SessionDate),
		session.Mode, session.StartTime, session.EndTime, session.Topic,
	).Scan(
		&session.ID,
		&session.OfferingID,
		&session.SessionDate,
		&session.Mode,
		&session.StartTime,
		&session.EndTime,
		&session.Topic,
		&session.CreatedAt,
		&session.UpdatedAt,
		&created,
	)
	if err != nil {
		return false, dberrors.Translate(err, "attendance session")
	}
	return created, nil
}

func (r *attendanceRepo) GetSession(ctx context.Context, id string) (*models.AttendanceSession, error) {
	var s models.AttendanceSession
	if err := scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM attendance_sessions WHERE id = $1`, id), &s); err != nil {
		return nil, dberrors.Translate(err, "attendance session")
	}
	return &s, nil
}

func (r *attendanceRepo) ListSessions(ctx context.Context, f repositories.SessionFilter) ([]*models.AttendanceSession, error) {
	b := psql.Select(sessionColumns).From("attendance_sessions").OrderBy("session_date DESC")
	if len(f.OfferingIDs) > 0 {
		b = b.Where(sq.Eq{"offering_id": f.OfferingIDs})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"session_date": models.StartOfDay(*f.From)})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"session_date": models.StartOfDay(*f.To)})
	}
	out, err := selectAll(ctx, r.db, b, scanSession)
	return out, dberrors.Translate(err, "attendance session")
}

func (r *attendanceRepo) UpsertRecords(ctx context.Context, records []*models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	query := `
		INSERT INTO attendance_records (id, session_id, enrollment_id, student_id, status, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT attendance_records_key
		DO UPDATE SET status = EXCLUDED.status, remarks = EXCLUDED.remarks, updated_at = now()
		RETURNING id, created_at, updated_at
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.ID, rec.SessionID, rec.EnrollmentID, rec.StudentID, rec.Status, rec.Remarks).
			QueryRow(func(row pgx.Row) error {
				return row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
			})
	}
	return dberrors.Translate(r.db.SendBatch(ctx, batch).Close(), "attendance record")
}

func (r *attendanceRepo) ListRecords(ctx context.Context, f repositories.RecordFilter) ([]*models.AttendanceRecord, error) {
	b := psql.Select(recordColumns).From("attendance_records").OrderBy("created_at")
	if len(f.SessionIDs) > 0 {
		b = b.Where(sq.Eq{"session_id": f.SessionIDs})
	}
	if len(f.EnrollmentIDs) > 0 {
		b = b.Where(sq.Eq{"enrollment_id": f.EnrollmentIDs})
	}
	out, err := selectAll(ctx, r.db, b, scanRecord)
	return out, dberrors.Translate(err, "attendance record")
}
