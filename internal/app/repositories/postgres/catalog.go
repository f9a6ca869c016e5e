package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
	"github.com/yigit/iams/internal/pkg/dberrors"
)

// deleteByID removes one row and reports a missing row as ErrNotFound
func deleteByID(ctx context.Context, q DBTX, table, entity, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return dberrors.Translate(err, entity)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("%s not found", entity)
	}
	return nil
}

type departmentRepo struct{ db DBTX }

const departmentColumns = `id, name, code, description, created_at, updated_at`

func scanDepartment(row pgx.Row, d *models.Department) error {
	return row.Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.CreatedAt, &d.UpdatedAt)
}

func (r *departmentRepo) Create(ctx context.Context, department *models.Department) error {
	query := `
		INSERT INTO departments (id, name, code, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, department.ID, department.Name, department.Code, department.Description).
		Scan(&department.CreatedAt, &department.UpdatedAt)
	return dberrors.Translate(err, "department")
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := scanDepartment(r.db.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id), &d); err != nil {
		return nil, dberrors.Translate(err, "department")
	}
	return &d, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]*models.Department, error) {
	out, err := selectAll(ctx, r.db, psql.Select(departmentColumns).From("departments").OrderBy("name"), scanDepartment)
	return out, dberrors.Translate(err, "department")
}

func (r *departmentRepo) Update(ctx context.Context, department *models.Department) error {
	query := `
		UPDATE departments SET name = $2, code = $3, description = $4, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, department.ID, department.Name, department.Code, department.Description).
		Scan(&department.CreatedAt, &department.UpdatedAt)
	return dberrors.Translate(err, "department")
}

func (r *departmentRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "departments", "department", id)
}

type programRepo struct{ db DBTX }

const programColumns = `id, name, code, department_id, duration_years, level, is_active, created_at, updated_at`

func scanProgram(row pgx.Row, p *models.Program) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Code,
		&p.DepartmentID,
		&p.DurationYears,
		&p.Level,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *programRepo) Create(ctx context.Context, program *models.Program) error {
	query := `
		INSERT INTO programs (id, name, code, department_id, duration_years, level, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		program.ID, program.Name, program.Code, program.DepartmentID, program.DurationYears, program.Level, program.IsActive,
	).Scan(&program.CreatedAt, &program.UpdatedAt)
	return dberrors.Translate(err, "program")
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*models.Program, error) {
	var p models.Program
	if err := scanProgram(r.db.QueryRow(ctx, `SELECT `+programColumns+` FROM programs WHERE id = $1`, id), &p); err != nil {
		return nil, dberrors.Translate(err, "program")
	}
	return &p, nil
}

func (r *programRepo) List(ctx context.Context, departmentID string) ([]*models.Program, error) {
	b := psql.Select(programColumns).From("programs").OrderBy("name")
	if departmentID != "" {
		b = b.Where(sq.Eq{"department_id": departmentID})
	}
	out, err := selectAll(ctx, r.db, b, scanProgram)
	return out, dberrors.Translate(err, "program")
}

func (r *programRepo) Update(ctx context.Context, program *models.Program) error {
	query := `
		UPDATE programs
		SET name = $2, code = $3, department_id = $4, duration_years = $5, level = $6, is_active = $7, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		program.ID, program.Name, program.Code, program.DepartmentID, program.DurationYears, program.Level, program.IsActive,
	).Scan(&program.CreatedAt, &program.UpdatedAt)
	return dberrors.Translate(err, "program")
}

func (r *programRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "programs", "program", id)
}

type semesterRepo struct{ db DBTX }

const semesterColumns = `id, name, number, academic_year, program_id, start_date, end_date, is_active, created_at, updated_at`

func scanSemester(row pgx.Row, s *models.Semester) error {
	return row.Scan(
		&s.ID,
		&s.Name,
		&s.Number,
		&s.AcademicYear,
		&s.ProgramID,
		&s.StartDate,
		&s.EndDate,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

func (r *semesterRepo) Create(ctx context.Context, semester *models.Semester) error {
	query := `
		INSERT INTO semesters (id, name, number, academic_year, program_id, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		semester.ID, semester.Name, semester.Number, semester.AcademicYear, semester.ProgramID,
		semester.StartDate, semester.EndDate, semester.IsActive,
	).Scan(&semester.CreatedAt, &semester.UpdatedAt)
	return dberrors.Translate(err, "semester")
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*models.Semester, error) {
	var s models.Semester
	if err := scanSemester(r.db.QueryRow(ctx, `SELECT `+semesterColumns+` FROM semesters WHERE id = $1`, id), &s); err != nil {
		return nil, dberrors.Translate(err, "semester")
	}
	return &s, nil
}

func (r *semesterRepo) List(ctx context.Context, programID string) ([]*models.Semester, error) {
	b := psql.Select(semesterColumns).From("semesters").OrderBy("program_id", "number")
	if programID != "" {
		b = b.Where(sq.Eq{"program_id": programID})
	}
	out, err := selectAll(ctx, r.db, b, scanSemester)
	return out, dberrors.Translate(err, "semester")
}

func (r *semesterRepo) FirstOfProgram(ctx context.Context, programID string) (*models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM semesters WHERE program_id = $1 ORDER BY number LIMIT 1`
	var s models.Semester
	if err := scanSemester(r.db.QueryRow(ctx, query, programID), &s); err != nil {
		return nil, dberrors.Translate(err, "semester")
	}
	return &s, nil
}

func (r *semesterRepo) Update(ctx context.Context, semester *models.Semester) error {
	query := `
		UPDATE semesters
		SET name = $2, number = $3, academic_year = $4, program_id = $5, start_date = $6, end_date = $7,
			is_active = $8, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		semester.ID, semester.Name, semester.Number, semester.AcademicYear, semester.ProgramID,
		semester.StartDate, semester.EndDate, semester.IsActive,
	).Scan(&semester.CreatedAt, &semester.UpdatedAt)
	return dberrors.Translate(err, "semester")
}

func (r *semesterRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "semesters", "semester", id)
}

type courseRepo struct{ db DBTX }

const courseColumns = `id, code, name, credits, type, program_id, description, created_at, updated_at`

func scanCourse(row pgx.Row, c *models.Course) error {
	return row.Scan(
		&c.ID,
		&c.Code,
		&c.Name,
		&c.Credits,
		&c.Type,
		&c.ProgramID,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *courseRepo) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, code, name, credits, type, program_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		course.ID, course.Code, course.Name, course.Credits, course.Type, course.ProgramID, course.Description,
	).Scan(&course.CreatedAt, &course.UpdatedAt)
	return dberrors.Translate(err, "course")
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	if err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id), &c); err != nil {
		return nil, dberrors.Translate(err, "course")
	}
	return &c, nil
}

func (r *courseRepo) List(ctx context.Context, programID string) ([]*models.Course, error) {
	b := psql.Select(courseColumns).From("courses").OrderBy("code")
	if programID != "" {
		b = b.Where(sq.Eq{"program_id": programID})
	}
	out, err := selectAll(ctx, r.db, b, scanCourse)
	return out, dberrors.Translate(err, "course")
}

func (r *courseRepo) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET code = $2, name = $3, credits = $4, type = $5, program_id = $6, description = $7, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		course.ID, course.Code, course.Name, course.Credits, course.Type, course.ProgramID, course.Description,
	).Scan(&course.CreatedAt, &course.UpdatedAt)
	return dberrors.Translate(err, "course")
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "courses", "course", id)
}

type offeringRepo struct{ db DBTX }

const offeringColumns = `o.id, o.course_id, o.semester_id, o.faculty_id, o.section, o.year, o.max_capacity, o.schedule, o.created_at, o.updated_at`

func scanOffering(row pgx.Row, o *models.CourseOffering) error {
	return row.Scan(
		&o.ID,
		&o.CourseID,
		&o.SemesterID,
		&o.FacultyID,
		&o.Section,
		&o.Year,
		&o.MaxCapacity,
		&o.Schedule,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func schedule(o *models.CourseOffering) []models.ScheduleSlot {
	if o.Schedule == nil {
		return []models.ScheduleSlot{}
	}
	return o.Schedule
}

func (r *offeringRepo) Create(ctx context.Context, offering *models.CourseOffering) error {
	query := `
		INSERT INTO course_offerings (id, course_id, semester_id, faculty_id, section, year, max_capacity, schedule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		offering.ID, offering.CourseID, offering.SemesterID, offering.FacultyID,
		offering.Section, offering.Year, offering.MaxCapacity, schedule(offering),
	).Scan(&offering.CreatedAt, &offering.UpdatedAt)
	return dberrors.Translate(err, "course offering")
}

func (r *offeringRepo) GetByID(ctx context.Context, id string) (*models.CourseOffering, error) {
	var o models.CourseOffering
	query := `SELECT ` + offeringColumns + ` FROM course_offerings o WHERE o.id = $1`
	if err := scanOffering(r.db.QueryRow(ctx, query, id), &o); err != nil {
		return nil, dberrors.Translate(err, "course offering")
	}
	return &o, nil
}

func (r *offeringRepo) List(ctx context.Context, f repositories.OfferingFilter) ([]*models.CourseOffering, error) {
	out, err := selectAll(ctx, r.db, offeringSelect(f), scanOffering)
	return out, dberrors.Translate(err, "course offering")
}

func offeringSelect(f repositories.OfferingFilter) sq.SelectBuilder {
	b := psql.Select(offeringColumns).
		From("course_offerings o").
		Join("courses c ON c.id = o.course_id").
		Join("semesters s ON s.id = o.semester_id").
		OrderBy("o.year DESC", "c.code", "o.section")
	if len(f.IDs) > 0 {
		b = b.Where(sq.Eq{"o.id": f.IDs})
	}
	if f.SemesterID != "" {
		b = b.Where(sq.Eq{"o.semester_id": f.SemesterID})
	}
	if f.FacultyID != "" {
		b = b.Where(sq.Eq{"o.faculty_id": f.FacultyID})
	}
	if f.CourseID != "" {
		b = b.Where(sq.Eq{"o.course_id": f.CourseID})
	}
	if f.ProgramID != "" {
		b = b.Where(sq.Eq{"s.program_id": f.ProgramID})
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + q + "%"
		b = b.Where(sq.Or{sq.ILike{"c.code": pattern}, sq.ILike{"c.name": pattern}, sq.ILike{"o.section": pattern}})
	}
	return b
}

func (r *offeringRepo) Update(ctx context.Context, offering *models.CourseOffering) error {
	query := `
		UPDATE course_offerings
		SET course_id = $2, semester_id = $3, faculty_id = $4, section = $5, year = $6, max_capacity = $7,
			schedule = $8, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		offering.ID, offering.CourseID, offering.SemesterID, offering.FacultyID,
		offering.Section, offering.Year, offering.MaxCapacity, schedule(offering),
	).Scan(&offering.CreatedAt, &offering.UpdatedAt)
	return dberrors.Translate(err, "course offering")
}

func (r *offeringRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "course_offerings", "course offering", id)
}
