package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/dberrors"
)

type examRepo struct{ db DBTX }

const examColumns = `id, offering_id, title, type, exam_date, max_marks, weightage, created_at, updated_at`

func scanExam(row pgx.Row, e *models.Exam) error {
	return row.Scan(
		&e.ID,
		&e.OfferingID,
		&e.Title,
		&e.Type,
		&e.ExamDate,
		&e.MaxMarks,
		&e.Weightage,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
}

const resultColumns = `id, exam_id, enrollment_id, student_id, marks, grade, status, created_at, updated_at`

func scanResult(row pgx.Row, r *models.ExamResult) error {
	return row.Scan(
		&r.ID,
		&r.ExamID,
		&r.EnrollmentID,
		&r.StudentID,
		&r.Marks,
		&r.Grade,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}

func (r *examRepo) Create(ctx context.Context, exam *models.Exam) error {
	query := `
		INSERT INTO exams (id, offering_id, title, type, exam_date, max_marks, weightage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		exam.ID, exam.OfferingID, exam.Title, exam.Type, exam.ExamDate, exam.MaxMarks, exam.Weightage,
	).Scan(&exam.CreatedAt, &exam.UpdatedAt)
	return dberrors.Translate(err, "exam")
}

func (r *examRepo) GetByID(ctx context.Context, id string) (*models.Exam, error) {
	var e models.Exam
	if err := scanExam(r.db.QueryRow(ctx, `SELECT `+examColumns+` FROM exams WHERE id = $1`, id), &e); err != nil {
		return nil, dberrors.Translate(err, "exam")
	}
	return &e, nil
}

func (r *examRepo) List(ctx context.Context, f repositories.ExamFilter) ([]*models.Exam, error) {
	b := psql.Select(examColumns).From("exams").OrderBy("exam_date")
	if len(f.OfferingIDs) > 0 {
		b = b.Where(sq.Eq{"offering_id": f.OfferingIDs})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"exam_date": *f.From})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	out, err := selectAll(ctx, r.db, b, scanExam)
	return out, dberrors.Translate(err, "exam")
}

func (r *examRepo) Update(ctx context.Context, exam *models.Exam) error {
	query := `
		UPDATE exams
		SET title = $2, type = $3, exam_date = $4, max_marks = $5, weightage = $6, updated_at = now()
		WHERE id = $1
		RETURNING offering_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		exam.ID, exam.Title, exam.Type, exam.ExamDate, exam.MaxMarks, exam.Weightage,
	).Scan(&exam.OfferingID, &exam.CreatedAt, &exam.UpdatedAt)
	return dberrors.Translate(err, "exam")
}

// Delete relies on exam_results cascading
func (r *examRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "exams", "exam", id)
}

func (r *examRepo) UpsertResults(ctx context.Context, results []*models.ExamResult) error {
	if len(results) == 0 {
		return nil
	}
	query := `
		INSERT INTO exam_results (id, exam_id, enrollment_id, student_id, marks, grade, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT exam_results_key
		DO UPDATE SET marks = EXCLUDED.marks, grade = EXCLUDED.grade, status = EXCLUDED.status, updated_at = now()
		RETURNING id, created_at, updated_at
	`
	batch := &pgx.Batch{}
	for _, res := range results {
		batch.Queue(query, res.ID, res.ExamID, res.EnrollmentID, res.StudentID, res.Marks, res.Grade, res.Status).
			QueryRow(func(row pgx.Row) error {
				return row.Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
			})
	}
	return dberrors.Translate(r.db.SendBatch(ctx, batch).Close(), "exam result")
}

func (r *examRepo) ListResults(ctx context.Context, f repositories.ResultFilter) ([]*models.ExamResult, error) {
	b := psql.Select(resultColumns).From("exam_results").OrderBy("created_at")
	if len(f.ExamIDs) > 0 {
		b = b.Where(sq.Eq{"exam_id": f.ExamIDs})
	}
	if len(f.EnrollmentIDs) > 0 {
		b = b.Where(sq.Eq{"enrollment_id": f.EnrollmentIDs})
	}
	out, err := selectAll(ctx, r.db, b, scanResult)
	return out, dberrors.Translate(err, "exam result")
}
