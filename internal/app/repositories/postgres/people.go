package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/pkg/dberrors"
)

type facultyRepo struct{ db DBTX }

const facultyColumns = `id, user_id, department_id, employee_code, designation, created_at, updated_at`

func scanFaculty(row pgx.Row, f *models.Faculty) error {
	return row.Scan(&f.ID, &f.UserID, &f.DepartmentID, &f.EmployeeCode, &f.Designation, &f.CreatedAt, &f.UpdatedAt)
}

func (r *facultyRepo) Create(ctx context.Context, faculty *models.Faculty) error {
	query := `
		INSERT INTO faculty (id, user_id, department_id, employee_code, designation)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		faculty.ID, faculty.UserID, faculty.DepartmentID, faculty.EmployeeCode, faculty.Designation,
	).Scan(&faculty.CreatedAt, &faculty.UpdatedAt)
	return dberrors.Translate(err, "faculty")
}

func (r *facultyRepo) GetByID(ctx context.Context, id string) (*models.Faculty, error) {
	var f models.Faculty
	if err := scanFaculty(r.db.QueryRow(ctx, `SELECT `+facultyColumns+` FROM faculty WHERE id = $1`, id), &f); err != nil {
		return nil, dberrors.Translate(err, "faculty")
	}
	return &f, nil
}

func (r *facultyRepo) GetByUserID(ctx context.Context, userID string) (*models.Faculty, error) {
	var f models.Faculty
	if err := scanFaculty(r.db.QueryRow(ctx, `SELECT `+facultyColumns+` FROM faculty WHERE user_id = $1`, userID), &f); err != nil {
		return nil, dberrors.Translate(err, "faculty")
	}
	return &f, nil
}

func (r *facultyRepo) List(ctx context.Context, departmentID string) ([]*models.Faculty, error) {
	b := psql.Select(facultyColumns).From("faculty").OrderBy("employee_code")
	if departmentID != "" {
		b = b.Where(sq.Eq{"department_id": departmentID})
	}
	out, err := selectAll(ctx, r.db, b, scanFaculty)
	return out, dberrors.Translate(err, "faculty")
}

func (r *facultyRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "faculty", `SELECT COUNT(*) FROM faculty`)
}

type studentRepo struct{ db DBTX }

const studentColumns = `id, user_id, program_id, current_semester_id, enrollment_no, batch_year, status, created_at, updated_at`

func scanStudent(row pgx.Row, s *models.Student) error {
	return row.Scan(
		&s.ID,
		&s.UserID,
		&s.ProgramID,
		&s.CurrentSemesterID,
		&s.EnrollmentNo,
		&s.BatchYear,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

func (r *studentRepo) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, user_id, program_id, current_semester_id, enrollment_no, batch_year, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		student.ID, student.UserID, student.ProgramID, student.CurrentSemesterID,
		student.EnrollmentNo, student.BatchYear, student.Status,
	).Scan(&student.CreatedAt, &student.UpdatedAt)
	return dberrors.Translate(err, "student")
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var s models.Student
	if err := scanStudent(r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id), &s); err != nil {
		return nil, dberrors.Translate(err, "student")
	}
	return &s, nil
}

func (r *studentRepo) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	var s models.Student
	if err := scanStudent(r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE user_id = $1`, userID), &s); err != nil {
		return nil, dberrors.Translate(err, "student")
	}
	return &s, nil
}

func (r *studentRepo) List(ctx context.Context, programID string) ([]*models.Student, error) {
	b := psql.Select(studentColumns).From("students").OrderBy("enrollment_no")
	if programID != "" {
		b = b.Where(sq.Eq{"program_id": programID})
	}
	out, err := selectAll(ctx, r.db, b, scanStudent)
	return out, dberrors.Translate(err, "student")
}

func (r *studentRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "students", `SELECT COUNT(*) FROM students`)
}
