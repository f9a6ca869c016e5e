// Package repositories declares the storage contracts. Implementations live in
// the postgres and memory subpackages; both return apperrors sentinels
// (ErrNotFound, ErrConflict) so services never see driver errors.
package repositories

import (
	"context"
	"time"

	"github.com/yigit/iams/internal/app/models"
)

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id string) (*models.Role, error)
	GetByName(ctx context.Context, name models.RoleName) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail matches the lowercased address
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRole(ctx context.Context, id, roleID string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id string) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
}

type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id string) (*models.Program, error)
	// List filters by department when departmentID is not empty
	List(ctx context.Context, departmentID string) ([]*models.Program, error)
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id string) error
}

type SemesterRepository interface {
	Create(ctx context.Context, semester *models.Semester) error
	GetByID(ctx context.Context, id string) (*models.Semester, error)
	List(ctx context.Context, programID string) ([]*models.Semester, error)
	// FirstOfProgram returns the lowest numbered semester, ErrNotFound if none
	FirstOfProgram(ctx context.Context, programID string) (*models.Semester, error)
	Update(ctx context.Context, semester *models.Semester) error
	Delete(ctx context.Context, id string) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, programID string) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// OfferingFilter narrows offering listings; empty fields do not filter
type OfferingFilter struct {
	IDs        []string
	SemesterID string
	ProgramID  string
	FacultyID  string
	CourseID   string
	// Query matches course code, course name or section, case-insensitively
	Query string
}

type OfferingRepository interface {
	Create(ctx context.Context, offering *models.CourseOffering) error
	GetByID(ctx context.Context, id string) (*models.CourseOffering, error)
	List(ctx context.Context, filter OfferingFilter) ([]*models.CourseOffering, error)
	Update(ctx context.Context, offering *models.CourseOffering) error
	Delete(ctx context.Context, id string) error
}

type FacultyRepository interface {
	Create(ctx context.Context, faculty *models.Faculty) error
	GetByID(ctx context.Context, id string) (*models.Faculty, error)
	GetByUserID(ctx context.Context, userID string) (*models.Faculty, error)
	List(ctx context.Context, departmentID string) ([]*models.Faculty, error)
	Count(ctx context.Context) (int, error)
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByUserID(ctx context.Context, userID string) (*models.Student, error)
	List(ctx context.Context, programID string) ([]*models.Student, error)
	Count(ctx context.Context) (int, error)
}

// EnrollmentFilter narrows enrollment listings; dropped rows are skipped
// unless IncludeDropped is set
type EnrollmentFilter struct {
	IDs            []string
	StudentID      string
	OfferingID     string
	IncludeDropped bool
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id string) (*models.Enrollment, error)
	// FindLive returns the non-dropped enrollment of the pair, ErrNotFound if none
	FindLive(ctx context.Context, studentID, offeringID string) (*models.Enrollment, error)
	List(ctx context.Context, filter EnrollmentFilter) ([]*models.Enrollment, error)
	CountLive(ctx context.Context, offeringID string) (int, error)
	// Drop moves a live enrollment to DROPPED, ErrNotFound when it is not live
	Drop(ctx context.Context, id string, at time.Time) error
}

// SessionFilter narrows attendance sessions; From and To bound SessionDate inclusively
type SessionFilter struct {
	OfferingIDs []string
	From        *time.Time
	To          *time.Time
}

// RecordFilter narrows attendance records
type RecordFilter struct {
	SessionIDs    []string
	EnrollmentIDs []string
}

type AttendanceRepository interface {
	// FindOrCreateSession inserts the session unless one exists for the same
	// offering and day; in that case session is overwritten with the stored row.
	FindOrCreateSession(ctx context.Context, session *models.AttendanceSession) (created bool, err error)
	GetSession(ctx context.Context, id string) (*models.AttendanceSession, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]*models.AttendanceSession, error)
	// UpsertRecords writes every record keyed by (session, enrollment)
	UpsertRecords(ctx context.Context, records []*models.AttendanceRecord) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]*models.AttendanceRecord, error)
}

// ExamFilter narrows exams; From bounds ExamDate inclusively, Limit 0 means all
type ExamFilter struct {
	OfferingIDs []string
	From        *time.Time
	Limit       int
}

// ResultFilter narrows exam results
type ResultFilter struct {
	ExamIDs       []string
	EnrollmentIDs []string
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id string) (*models.Exam, error)
	List(ctx context.Context, filter ExamFilter) ([]*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	// Delete removes the exam and its results
	Delete(ctx context.Context, id string) error
	// UpsertResults writes every result keyed by (exam, enrollment)
	UpsertResults(ctx context.Context, results []*models.ExamResult) error
	ListResults(ctx context.Context, filter ResultFilter) ([]*models.ExamResult, error)
}

// AdmissionFilter narrows applications, newest first; Limit 0 means all
type AdmissionFilter struct {
	Status      models.AdmissionStatus
	AppliedFrom *time.Time
	Limit       int
}

type AdmissionRepository interface {
	Create(ctx context.Context, application *models.AdmissionApplication) error
	GetByID(ctx context.Context, id string) (*models.AdmissionApplication, error)
	List(ctx context.Context, filter AdmissionFilter) ([]*models.AdmissionApplication, error)
	// UpdateDecision writes status, remarks and decisionAt
	UpdateDecision(ctx context.Context, application *models.AdmissionApplication) error
	// Link records the conversion. It fails with ErrConflict when the
	// application is already linked to a student.
	Link(ctx context.Context, id, studentID, userID string, decisionAt time.Time) error
	CountByStatus(ctx context.Context, status models.AdmissionStatus) (int, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Roles       RoleRepository
	Users       UserRepository
	Departments DepartmentRepository
	Programs    ProgramRepository
	Semesters   SemesterRepository
	Courses     CourseRepository
	Offerings   OfferingRepository
	Faculty     FacultyRepository
	Students    StudentRepository
	Enrollments EnrollmentRepository
	Attendance  AttendanceRepository
	Exams       ExamRepository
	Admissions  AdmissionRepository
}

// TxFn runs against repositories bound to one transaction
type TxFn func(ctx context.Context, repos *Repositories) error

// Transactor runs a unit of work atomically
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFn) error
}

// Store is a storage backend: its repositories, atomic units of work and lifecycle
type Store interface {
	Transactor
	Repositories() *Repositories
	Ping(ctx context.Context) error
	Close()
}
