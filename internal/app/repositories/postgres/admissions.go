package postgres

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
	"github.com/yigit/iams/internal/pkg/dberrors"
)

type admissionRepo struct{ db DBTX }

const admissionColumns = `id, full_name, email, phone, date_of_birth, program_id, previous_qualification, status,
	applied_at, decision_at, remarks, student_id, user_id, created_at, updated_at`

func scanAdmission(row pgx.Row, a *models.AdmissionApplication) error {
	return row.Scan(
		&a.ID,
		&a.FullName,
		&a.Email,
		&a.Phone,
		&a.DateOfBirth,
		&a.ProgramID,
		&a.PreviousQualification,
		&a.Status,
		&a.AppliedAt,
		&a.DecisionAt,
		&a.Remarks,
		&a.StudentID,
		&a.UserID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

func (r *admissionRepo) Create(ctx context.Context, application *models.AdmissionApplication) error {
	query := `
		INSERT INTO admission_applications
			(id, full_name, email, phone, date_of_birth, program_id, previous_qualification, status, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING applied_at, created_at, updated_at
	`
	application.Email = strings.ToLower(strings.TrimSpace(application.Email))
	err := r.db.QueryRow(ctx, query,
		application.ID, application.FullName, application.Email, application.Phone, application.DateOfBirth,
		application.ProgramID, application.PreviousQualification, application.Status, application.Remarks,
	).Scan(&application.AppliedAt, &application.CreatedAt, &application.UpdatedAt)
	return dberrors.Translate(err, "admission application")
}

func (r *admissionRepo) GetByID(ctx context.Context, id string) (*models.AdmissionApplication, error) {
	var a models.AdmissionApplication
	query := `SELECT ` + admissionColumns + ` FROM admission_applications WHERE id = $1`
	if err := scanAdmission(r.db.QueryRow(ctx, query, id), &a); err != nil {
		return nil, dberrors.Translate(err, "admission application")
	}
	return &a, nil
}

func (r *admissionRepo) List(ctx context.Context, f repositories.AdmissionFilter) ([]*models.AdmissionApplication, error) {
	b := psql.Select(admissionColumns).From("admission_applications").OrderBy("applied_at DESC")
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.AppliedFrom != nil {
		b = b.Where(sq.GtOrEq{"applied_at": *f.AppliedFrom})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	out, err := selectAll(ctx, r.db, b, scanAdmission)
	return out, dberrors.Translate(err, "admission application")
}

func (r *admissionRepo) UpdateDecision(ctx context.Context, application *models.AdmissionApplication) error {
	query := `
		UPDATE admission_applications
		SET status = $2, remarks = $3, decision_at = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		application.ID, application.Status, application.Remarks, application.DecisionAt,
	).Scan(&application.UpdatedAt)
	return dberrors.Translate(err, "admission application")
}

func (r *admissionRepo) Link(ctx context.Context, id, studentID, userID string, decisionAt time.Time) error {
	query := `
		UPDATE admission_applications
		SET student_id = $2, user_id = $3, decision_at = COALESCE(decision_at, $4), updated_at = now()
		WHERE id = $1 AND student_id IS NULL
	`
	tag, err := r.db.Exec(ctx, query, id, studentID, userID, decisionAt)
	if err != nil {
		return dberrors.Translate(err, "admission application")
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.NewConflict("admission application already converted")
}

func (r *admissionRepo) CountByStatus(ctx context.Context, status models.AdmissionStatus) (int, error) {
	return count(ctx, r.db, "admission applications",
		`SELECT COUNT(*) FROM admission_applications WHERE status = $1`, status)
}
