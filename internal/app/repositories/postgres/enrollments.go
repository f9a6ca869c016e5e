package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
	"github.com/yigit/iams/internal/pkg/dberrors"
)

type enrollmentRepo struct{ db DBTX }

const enrollmentColumns = `id, student_id, offering_id, status, enrolled_at, dropped_at, updated_at`

func scanEnrollment(row pgx.Row, e *models.Enrollment) error {
	return row.Scan(&e.ID, &e.StudentID, &e.OfferingID, &e.Status, &e.EnrolledAt, &e.DroppedAt, &e.UpdatedAt)
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, student_id, offering_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING enrolled_at, updated_at
	`
	var enrolledAt *time.Time
	if !enrollment.EnrolledAt.IsZero() {
		enrolledAt = &enrollment.EnrolledAt
	}
	err := r.db.QueryRow(ctx, query,
		enrollment.ID, enrollment.StudentID, enrollment.OfferingID, enrollment.Status, enrolledAt,
	).Scan(&enrollment.EnrolledAt, &enrollment.UpdatedAt)
	if dberrors.IsDuplicateConstraintError(err, "enrollments_live_key") {
		return apperrors.NewConflict("enrollment already exists")
	}
	return dberrors.Translate(err, "enrollment")
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := scanEnrollment(r.db.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id), &e); err != nil {
		return nil, dberrors.Translate(err, "enrollment")
	}
	return &e, nil
}

func (r *enrollmentRepo) FindLive(ctx context.Context, studentID, offeringID string) (*models.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE student_id = $1 AND offering_id = $2 AND status <> 'DROPPED'
	`
	var e models.Enrollment
	if err := scanEnrollment(r.db.QueryRow(ctx, query, studentID, offeringID), &e); err != nil {
		return nil, dberrors.Translate(err, "enrollment")
	}
	return &e, nil
}

func (r *enrollmentRepo) List(ctx context.Context, f repositories.EnrollmentFilter) ([]*models.Enrollment, error) {
	out, err := selectAll(ctx, r.db, enrollmentSelect(f), scanEnrollment)
	return out, dberrors.Translate(err, "enrollment")
}

func enrollmentSelect(f repositories.EnrollmentFilter) sq.SelectBuilder {
	b := psql.Select(enrollmentColumns).From("enrollments").OrderBy("enrolled_at")
	if len(f.IDs) > 0 {
		b = b.Where(sq.Eq{"id": f.IDs})
	}
	if f.StudentID != "" {
		b = b.Where(sq.Eq{"student_id": f.StudentID})
	}
	if f.OfferingID != "" {
		b = b.Where(sq.Eq{"offering_id": f.OfferingID})
	}
	if !f.IncludeDropped {
		b = b.Where(sq.NotEq{"status": models.EnrollmentDropped})
	}
	return b
}

func (r *enrollmentRepo) CountLive(ctx context.Context, offeringID string) (int, error) {
	return count(ctx, r.db, "enrollments",
		`SELECT COUNT(*) FROM enrollments WHERE offering_id = $1 AND status <> 'DROPPED'`, offeringID)
}

func (r *enrollmentRepo) Drop(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE enrollments SET status = 'DROPPED', dropped_at = $2, updated_at = now()
		WHERE id = $1 AND status <> 'DROPPED'
	`
	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return dberrors.Translate(err, "enrollment")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("enrollment not found")
	}
	return nil
}
