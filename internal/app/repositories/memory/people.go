package memory

import (
	"context"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

type (
	facultyRow = models.Faculty
	studentRow = models.Student
)

type facultyRepo struct{ s *session }

func (r *facultyRepo) Create(_ context.Context, faculty *models.Faculty) error {
	return r.s.run(func(d *dataset) error {
		if _, dup := d.faculty.find(func(v facultyRow) bool {
			return v.UserID == faculty.UserID || equalFold(v.EmployeeCode, faculty.EmployeeCode)
		}); dup {
			return apperrors.NewConflict("faculty already exists")
		}
		now := r.s.now()
		faculty.CreatedAt, faculty.UpdatedAt = now, now
		row := *faculty
		row.User, row.Department = nil, nil
		d.faculty.put(row.ID, row)
		return nil
	})
}

func (r *facultyRepo) GetByID(_ context.Context, id string) (*models.Faculty, error) {
	var out *models.Faculty
	err := r.s.run(func(d *dataset) error {
		v, ok := d.faculty.get(id)
		if !ok {
			return apperrors.NewNotFound("faculty not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *facultyRepo) GetByUserID(_ context.Context, userID string) (*models.Faculty, error) {
	var out *models.Faculty
	err := r.s.run(func(d *dataset) error {
		v, ok := d.faculty.find(func(v facultyRow) bool { return v.UserID == userID })
		if !ok {
			return apperrors.NewNotFound("faculty not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *facultyRepo) List(_ context.Context, departmentID string) ([]*models.Faculty, error) {
	var out []*models.Faculty
	err := r.s.run(func(d *dataset) error {
		rows := d.faculty.filter(func(v facultyRow) bool { return departmentID == "" || v.DepartmentID == departmentID })
		for i := range rows {
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}

func (r *facultyRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.s.run(func(d *dataset) error {
		n = len(d.faculty.rows)
		return nil
	})
	return n, err
}

type studentRepo struct{ s *session }

func (r *studentRepo) Create(_ context.Context, student *models.Student) error {
	return r.s.run(func(d *dataset) error {
		if _, dup := d.students.find(func(v studentRow) bool {
			return v.UserID == student.UserID || equalFold(v.EnrollmentNo, student.EnrollmentNo)
		}); dup {
			return apperrors.NewConflict("student already exists")
		}
		now := r.s.now()
		student.CreatedAt, student.UpdatedAt = now, now
		row := *student
		row.User, row.Program, row.CurrentSemester = nil, nil, nil
		d.students.put(row.ID, row)
		return nil
	})
}

func (r *studentRepo) GetByID(_ context.Context, id string) (*models.Student, error) {
	var out *models.Student
	err := r.s.run(func(d *dataset) error {
		v, ok := d.students.get(id)
		if !ok {
			return apperrors.NewNotFound("student not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *studentRepo) GetByUserID(_ context.Context, userID string) (*models.Student, error) {
	var out *models.Student
	err := r.s.run(func(d *dataset) error {
		v, ok := d.students.find(func(v studentRow) bool { return v.UserID == userID })
		if !ok {
			return apperrors.NewNotFound("student not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *studentRepo) List(_ context.Context, programID string) ([]*models.Student, error) {
	var out []*models.Student
	err := r.s.run(func(d *dataset) error {
		rows := d.students.filter(func(v studentRow) bool { return programID == "" || v.ProgramID == programID })
		for i := range rows {
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}

func (r *studentRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.s.run(func(d *dataset) error {
		n = len(d.students.rows)
		return nil
	})
	return n, err
}
