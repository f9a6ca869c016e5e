package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

type (
	departmentRow = models.Department
	programRow    = models.Program
	semesterRow   = models.Semester
	courseRow     = models.Course
	offeringRow   = models.CourseOffering
)

type departmentRepo struct{ s *session }

func (r *departmentRepo) Create(_ context.Context, department *models.Department) error {
	return r.s.run(func(d *dataset) error {
		if _, dup := d.departments.find(func(v departmentRow) bool { return equalFold(v.Code, department.Code) }); dup {
			return apperrors.NewConflict("department already exists")
		}
		now := r.s.now()
		department.CreatedAt, department.UpdatedAt = now, now
		d.departments.put(department.ID, *department)
		return nil
	})
}

func (r *departmentRepo) GetByID(_ context.Context, id string) (*models.Department, error) {
	var out *models.Department
	err := r.s.run(func(d *dataset) error {
		v, ok := d.departments.get(id)
		if !ok {
			return apperrors.NewNotFound("department not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *departmentRepo) List(_ context.Context) ([]*models.Department, error) {
	var out []*models.Department
	err := r.s.run(func(d *dataset) error {
		for _, v := range d.departments.filter(func(departmentRow) bool { return true }) {
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

func (r *departmentRepo) Update(_ context.Context, department *models.Department) error {
	return r.s.run(func(d *dataset) error {
		cur, ok := d.departments.get(department.ID)
		if !ok {
			return apperrors.NewNotFound("department not found")
		}
		if _, dup := d.departments.find(func(v departmentRow) bool {
			return v.ID != department.ID && equalFold(v.Code, department.Code)
		}); dup {
			return apperrors.NewConflict("department already exists")
		}
		department.CreatedAt = cur.CreatedAt
		department.UpdatedAt = r.s.now()
		d.departments.put(department.ID, *department)
		return nil
	})
}

func (r *departmentRepo) Delete(_ context.Context, id string) error {
	return r.s.run(func(d *dataset) error {
		if _, ok := d.departments.get(id); !ok {
			return apperrors.NewNotFound("department not found")
		}
		_, usedByProgram := d.programs.find(func(v programRow) bool { return v.DepartmentID == id })
		_, usedByFaculty := d.faculty.find(func(v facultyRow) bool { return v.DepartmentID == id })
		if usedByProgram || usedByFaculty {
			return apperrors.NewConflict("department is referenced by other records")
		}
		d.departments.del(id)
		return nil
	})
}

type programRepo struct{ s *session }

func (r *programRepo) Create(_ context.Context, program *models.Program) error {
	return r.s.run(func(d *dataset) error {
		if _, dup := d.programs.find(func(v programRow) bool { return equalFold(v.Code, program.Code) }); dup {
			return apperrors.NewConflict("program already exists")
		}
		now := r.s.now()
		program.CreatedAt, program.UpdatedAt = now, now
		row := *program
		row.Department = nil
		d.programs.put(row.ID, row)
		return nil
	})
}

func (r *programRepo) GetByID(_ context.Context, id string) (*models.Program, error) {
	var out *models.Program
	err := r.s.run(func(d *dataset) error {
		v, ok := d.programs.get(id)
		if !ok {
			return apperrors.NewNotFound("program not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *programRepo) List(_ context.Context, departmentID string) ([]*models.Program, error) {
	var out []*models.Program
	err := r.s.run(func(d *dataset) error {
		for _, v := range d.programs.filter(func(v programRow) bool {
			return departmentID == "" || v.DepartmentID == departmentID
		}) {
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

func (r *programRepo) Update(_ context.Context, program *models.Program) error {
	return r.s.run(func(d *dataset) error {
		cur, ok := d.programs.get(program.ID)
		if !ok {
			return apperrors.NewNotFound("program not found")
		}
		if _, dup := d.programs.find(func(v programRow) bool {
			return v.ID != program.ID && equalFold(v.Code, program.Code)
		}); dup {
			return apperrors.NewConflict("program already exists")
		}
		program.CreatedAt = cur.CreatedAt
		program.UpdatedAt = r.s.now()
		row := *program
		row.Department = nil
		d.programs.put(row.ID, row)
		return nil
	})
}

func (r *programRepo) Delete(_ context.Context, id string) error {
	return r.s.run(func(d *dataset) error {
		if _, ok := d.programs.get(id); !ok {
			return apperrors.NewNotFound("program not found")
		}
		_, a := d.semesters.find(func(v semesterRow) bool { return v.ProgramID == id })
		_, b := d.students.find(func(v studentRow) bool { return v.ProgramID == id })
		_, c := d.courses.find(func(v courseRow) bool { return v.ProgramID != nil && *v.ProgramID == id })
		_, e := d.admissions.find(func(v admissionRow) bool { return v.ProgramID == id })
		if a || b || c || e {
			return apperrors.NewConflict("program is referenced by other records")
		}
		d.programs.del(id)
		return nil
	})
}

type semesterRepo struct{ s *session }

func (r *semesterRepo) Create(_ context.Context, semester *models.Semester) error {
	return r.s.run(func(d *dataset) error {
		now := r.s.now()
		semester.CreatedAt, semester.UpdatedAt = now, now
		row := *semester
		row.Program = nil
		d.semesters.put(row.ID, row)
		return nil
	})
}

func (r *semesterRepo) GetByID(_ context.Context, id string) (*models.Semester, error) {
	var out *models.Semester
	err := r.s.run(func(d *dataset) error {
		v, ok := d.semesters.get(id)
		if !ok {
			return apperrors.NewNotFound("semester not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *semesterRepo) list(d *dataset, programID string) []*models.Semester {
	rows := d.semesters.filter(func(v semesterRow) bool { return programID == "" || v.ProgramID == programID })
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ProgramID != rows[j].ProgramID {
			return rows[i].ProgramID < rows[j].ProgramID
		}
		return rows[i].Number < rows[j].Number
	})
	out := make([]*models.Semester, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out
}

func (r *semesterRepo) List(_ context.Context, programID string) ([]*models.Semester, error) {
	var out []*models.Semester
	err := r.s.run(func(d *dataset) error {
		out = r.list(d, programID)
		return nil
	})
	return out, err
}

func (r *semesterRepo) FirstOfProgram(_ context.Context, programID string) (*models.Semester, error) {
	var out *models.Semester
	err := r.s.run(func(d *dataset) error {
		all := r.list(d, programID)
		if len(all) == 0 {
			return apperrors.NewNotFound("semester not found")
		}
		out = all[0]
		return nil
	})
	return out, err
}

func (r *semesterRepo) Update(_ context.Context, semester *models.Semester) error {
	return r.s.run(func(d *dataset) error {
		cur, ok := d.semesters.get(semester.ID)
		if !ok {
			return apperrors.NewNotFound("semester not found")
		}
		semester.CreatedAt = cur.CreatedAt
		semester.UpdatedAt = r.s.now()
		row := *semester
		row.Program = nil
		d.semesters.put(row.ID, row)
		return nil
	})
}

func (r *semesterRepo) Delete(_ context.Context, id string) error {
	return r.s.run(func(d *dataset) error {
		if _, ok := d.semesters.get(id); !ok {
			return apperrors.NewNotFound("semester not found")
		}
		if _, used := d.offerings.find(func(v offeringRow) bool { return v.SemesterID == id }); used {
			return apperrors.NewConflict("semester is referenced by other records")
		}
		for _, st := range d.students.filter(func(v studentRow) bool {
			return v.CurrentSemesterID != nil && *v.CurrentSemesterID == id
		}) {
			st.CurrentSemesterID = nil
			d.students.put(st.ID, st)
		}
		d.semesters.del(id)
		return nil
	})
}

type courseRepo struct{ s *session }

func (r *courseRepo) Create(_ context.Context, course *models.Course) error {
	return r.s.run(func(d *dataset) error {
		if _, dup := d.courses.find(func(v courseRow) bool { return equalFold(v.Code, course.Code) }); dup {
			return apperrors.NewConflict("course already exists")
		}
		now := r.s.now()
		course.CreatedAt, course.UpdatedAt = now, now
		row := *course
		row.Program = nil
		d.courses.put(row.ID, row)
		return nil
	})
}

func (r *courseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	var out *models.Course
	err := r.s.run(func(d *dataset) error {
		v, ok := d.courses.get(id)
		if !ok {
			return apperrors.NewNotFound("course not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *courseRepo) List(_ context.Context, programID string) ([]*models.Course, error) {
	var out []*models.Course
	err := r.s.run(func(d *dataset) error {
		for _, v := range d.courses.filter(func(v courseRow) bool {
			return programID == "" || (v.ProgramID != nil && *v.ProgramID == programID)
		}) {
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

func (r *courseRepo) Update(_ context.Context, course *models.Course) error {
	return r.s.run(func(d *dataset) error {
		cur, ok := d.courses.get(course.ID)
		if !ok {
			return apperrors.NewNotFound("course not found")
		}
		if _, dup := d.courses.find(func(v courseRow) bool {
			return v.ID != course.ID && equalFold(v.Code, course.Code)
		}); dup {
			return apperrors.NewConflict("course already exists")
		}
		course.CreatedAt = cur.CreatedAt
		course.UpdatedAt = r.s.now()
		row := *course
		row.Program = nil
		d.courses.put(row.ID, row)
		return nil
	})
}

func (r *courseRepo) Delete(_ context.Context, id string) error {
	return r.s.run(func(d *dataset) error {
		if _, ok := d.courses.get(id); !ok {
			return apperrors.NewNotFound("course not found")
		}
		if _, used := d.offerings.find(func(v offeringRow) bool { return v.CourseID == id }); used {
			return apperrors.NewConflict("course is referenced by other records")
		}
		d.courses.del(id)
		return nil
	})
}

type offeringRepo struct{ s *session }

func storeOffering(d *dataset, o *models.CourseOffering) {
	row := *o
	row.Course, row.Semester, row.Faculty = nil, nil, nil
	row.Schedule = append([]models.ScheduleSlot(nil), o.Schedule...)
	d.offerings.put(row.ID, row)
}

func (r *offeringRepo) Create(_ context.Context, offering *models.CourseOffering) error {
	return r.s.run(func(d *dataset) error {
		now := r.s.now()
		offering.CreatedAt, offering.UpdatedAt = now, now
		storeOffering(d, offering)
		return nil
	})
}

func (r *offeringRepo) GetByID(_ context.Context, id string) (*models.CourseOffering, error) {
	var out *models.CourseOffering
	err := r.s.run(func(d *dataset) error {
		v, ok := d.offerings.get(id)
		if !ok {
			return apperrors.NewNotFound("course offering not found")
		}
		v.Schedule = append([]models.ScheduleSlot(nil), v.Schedule...)
		out = &v
		return nil
	})
	return out, err
}

func (r *offeringRepo) List(_ context.Context, f repositories.OfferingFilter) ([]*models.CourseOffering, error) {
	var out []*models.CourseOffering
	query := strings.ToLower(strings.TrimSpace(f.Query))
	err := r.s.run(func(d *dataset) error {
		rows := d.offerings.filter(func(v offeringRow) bool {
			if len(f.IDs) > 0 && !contains(f.IDs, v.ID) {
				return false
			}
			if f.SemesterID != "" && v.SemesterID != f.SemesterID {
				return false
			}
			if f.FacultyID != "" && v.FacultyID != f.FacultyID {
				return false
			}
			if f.CourseID != "" && v.CourseID != f.CourseID {
				return false
			}
			if f.ProgramID != "" {
				sem, ok := d.semesters.get(v.SemesterID)
				if !ok || sem.ProgramID != f.ProgramID {
					return false
				}
			}
			if query != "" {
				course, _ := d.courses.get(v.CourseID)
				if !strings.Contains(strings.ToLower(course.Code), query) &&
					!strings.Contains(strings.ToLower(course.Name), query) &&
					!strings.Contains(strings.ToLower(v.Section), query) {
					return false
				}
			}
			return true
		})
		for i := range rows {
			rows[i].Schedule = append([]models.ScheduleSlot(nil), rows[i].Schedule...)
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}

func (r *offeringRepo) Update(_ context.Context, offering *models.CourseOffering) error {
	return r.s.run(func(d *dataset) error {
		cur, ok := d.offerings.get(offering.ID)
		if !ok {
			return apperrors.NewNotFound("course offering not found")
		}
		offering.CreatedAt = cur.CreatedAt
		offering.UpdatedAt = r.s.now()
		storeOffering(d, offering)
		return nil
	})
}

func (r *offeringRepo) Delete(_ context.Context, id string) error {
	return r.s.run(func(d *dataset) error {
		if _, ok := d.offerings.get(id); !ok {
			return apperrors.NewNotFound("course offering not found")
		}
		if _, used := d.enrollments.find(func(v enrollmentRow) bool { return v.OfferingID == id }); used {
			return apperrors.NewConflict("course offering is referenced by other records")
		}
		for _, s := range d.sessions.filter(func(v sessionRow) bool { return v.OfferingID == id }) {
			d.sessions.del(s.ID)
		}
		for _, e := range d.exams.filter(func(v examRow) bool { return v.OfferingID == id }) {
			d.exams.del(e.ID)
		}
		d.offerings.del(id)
		return nil
	})
}
