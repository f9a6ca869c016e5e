package services

import (
	"context"
	"fmt"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

// composer attaches referenced entities to read models. Lookups are memoised
// per composer, so build one per request. A dangling reference leaves the
// relation nil.
type composer struct {
	repos *repositories.Repositories

	roles       map[string]*models.Role
	users       map[string]*models.User
	departments map[string]*models.Department
	programs    map[string]*models.Program
	semesters   map[string]*models.Semester
	courses     map[string]*models.Course
	offerings   map[string]*models.CourseOffering
	faculty     map[string]*models.Faculty
	students    map[string]*models.Student
	enrollments map[string]*models.Enrollment
}

func newComposer(repos *repositories.Repositories) *composer {
	return &composer{
		repos:       repos,
		roles:       make(map[string]*models.Role),
		users:       make(map[string]*models.User),
		departments: make(map[string]*models.Department),
		programs:    make(map[string]*models.Program),
		semesters:   make(map[string]*models.Semester),
		courses:     make(map[string]*models.Course),
		offerings:   make(map[string]*models.CourseOffering),
		faculty:     make(map[string]*models.Faculty),
		students:    make(map[string]*models.Student),
		enrollments: make(map[string]*models.Enrollment),
	}
}

// lookup returns cache[id], loading it with get on a miss. Not found yields nil.
func lookup[T any](ctx context.Context, cache map[string]*T, id string, get func(context.Context, string) (*T, error)) (*T, error) {
	if id == "" {
		return nil, nil
	}
	if v, ok := cache[id]; ok {
		return v, nil
	}
	v, err := get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			cache[id] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %T %s: %w", v, id, err)
	}
	cache[id] = v
	return v, nil
}

func (c *composer) user(ctx context.Context, id string) (*models.User, error) {
	u, err := lookup(ctx, c.users, id, c.repos.Users.GetByID)
	if err != nil || u == nil || u.Role != nil {
		return u, err
	}
	u.Role, err = lookup(ctx, c.roles, u.RoleID, c.repos.Roles.GetByID)
	return u, err
}

// withRoles attaches roles to users loaded elsewhere
func (c *composer) withRoles(ctx context.Context, users ...*models.User) error {
	for _, u := range users {
		if u == nil || u.Role != nil {
			continue
		}
		role, err := lookup(ctx, c.roles, u.RoleID, c.repos.Roles.GetByID)
		if err != nil {
			return err
		}
		u.Role = role
	}
	return nil
}

func (c *composer) program(ctx context.Context, id string) (*models.Program, error) {
	p, err := lookup(ctx, c.programs, id, c.repos.Programs.GetByID)
	if err != nil || p == nil || p.Department != nil {
		return p, err
	}
	p.Department, err = lookup(ctx, c.departments, p.DepartmentID, c.repos.Departments.GetByID)
	return p, err
}

func (c *composer) semester(ctx context.Context, id string) (*models.Semester, error) {
	return lookup(ctx, c.semesters, id, c.repos.Semesters.GetByID)
}

func (c *composer) course(ctx context.Context, id string) (*models.Course, error) {
	return lookup(ctx, c.courses, id, c.repos.Courses.GetByID)
}

// facultyProfile loads a faculty member with user and department
func (c *composer) facultyProfile(ctx context.Context, id string) (*models.Faculty, error) {
	f, err := lookup(ctx, c.faculty, id, c.repos.Faculty.GetByID)
	if err != nil || f == nil {
		return f, err
	}
	return f, c.facultyMembers(ctx, f)
}

func (c *composer) facultyMembers(ctx context.Context, members ...*models.Faculty) error {
	for _, f := range members {
		var err error
		if f.User == nil {
			if f.User, err = c.user(ctx, f.UserID); err != nil {
				return err
			}
		}
		if f.Department == nil {
			if f.Department, err = lookup(ctx, c.departments, f.DepartmentID, c.repos.Departments.GetByID); err != nil {
				return err
			}
		}
	}
	return nil
}

// studentProfiles attaches user, program and current semester
func (c *composer) studentProfiles(ctx context.Context, students ...*models.Student) error {
	for _, s := range students {
		var err error
		if s.User == nil {
			if s.User, err = c.user(ctx, s.UserID); err != nil {
				return err
			}
		}
		if s.Program == nil {
			if s.Program, err = c.program(ctx, s.ProgramID); err != nil {
				return err
			}
		}
		if s.CurrentSemester == nil && s.CurrentSemesterID != nil {
			if s.CurrentSemester, err = c.semester(ctx, *s.CurrentSemesterID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *composer) student(ctx context.Context, id string) (*models.Student, error) {
	s, err := lookup(ctx, c.students, id, c.repos.Students.GetByID)
	if err != nil || s == nil {
		return s, err
	}
	return s, c.studentProfiles(ctx, s)
}

// offeringDetails attaches course, semester and faculty (with its user)
func (c *composer) offeringDetails(ctx context.Context, offerings ...*models.CourseOffering) error {
	for _, o := range offerings {
		var err error
		if o.Course == nil {
			if o.Course, err = c.course(ctx, o.CourseID); err != nil {
				return err
			}
		}
		if o.Semester == nil {
			if o.Semester, err = c.semester(ctx, o.SemesterID); err != nil {
				return err
			}
		}
		if o.Faculty == nil {
			if o.Faculty, err = c.facultyProfile(ctx, o.FacultyID); err != nil {
				return err
			}
		}
		c.offerings[o.ID] = o
	}
	return nil
}

func (c *composer) offering(ctx context.Context, id string) (*models.CourseOffering, error) {
	o, err := lookup(ctx, c.offerings, id, c.repos.Offerings.GetByID)
	if err != nil || o == nil {
		return o, err
	}
	return o, c.offeringDetails(ctx, o)
}

// enrollmentDetails attaches the composed offering and, when withStudent is
// set, the student profile
func (c *composer) enrollmentDetails(ctx context.Context, withStudent bool, enrollments ...*models.Enrollment) error {
	for _, e := range enrollments {
		var err error
		if e.Offering == nil {
			if e.Offering, err = c.offering(ctx, e.OfferingID); err != nil {
				return err
			}
		}
		if withStudent && e.Student == nil {
			if e.Student, err = c.student(ctx, e.StudentID); err != nil {
				return err
			}
		}
	}
	return nil
}

// rosterEnrollment loads an enrollment with its student only
func (c *composer) rosterEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	e, err := lookup(ctx, c.enrollments, id, c.repos.Enrollments.GetByID)
	if err != nil || e == nil {
		return e, err
	}
	if e.Student == nil {
		e.Student, err = c.student(ctx, e.StudentID)
	}
	return e, err
}

func (c *composer) sessions(ctx context.Context, sessions ...*models.AttendanceSession) error {
	for _, s := range sessions {
		if s.Offering != nil {
			continue
		}
		var err error
		if s.Offering, err = c.offering(ctx, s.OfferingID); err != nil {
			return err
		}
	}
	return nil
}

func (c *composer) exams(ctx context.Context, exams ...*models.Exam) error {
	for _, e := range exams {
		if e.Offering != nil {
			continue
		}
		var err error
		if e.Offering, err = c.offering(ctx, e.OfferingID); err != nil {
			return err
		}
	}
	return nil
}

func (c *composer) attendanceRecords(ctx context.Context, records ...*models.AttendanceRecord) error {
	for _, r := range records {
		var err error
		if r.Enrollment, err = c.rosterEnrollment(ctx, r.EnrollmentID); err != nil {
			return err
		}
	}
	return nil
}

func (c *composer) examResults(ctx context.Context, results ...*models.ExamResult) error {
	for _, r := range results {
		var err error
		if r.Enrollment, err = c.rosterEnrollment(ctx, r.EnrollmentID); err != nil {
			return err
		}
	}
	return nil
}

func (c *composer) admissions(ctx context.Context, apps ...*models.AdmissionApplication) error {
	for _, a := range apps {
		var err error
		if a.Program == nil {
			if a.Program, err = c.program(ctx, a.ProgramID); err != nil {
				return err
			}
		}
		if a.StudentID != nil && a.Student == nil {
			if a.Student, err = c.student(ctx, *a.StudentID); err != nil {
				return err
			}
		}
		if a.UserID != nil && a.User == nil {
			if a.User, err = c.user(ctx, *a.UserID); err != nil {
				return err
			}
		}
	}
	return nil
}
