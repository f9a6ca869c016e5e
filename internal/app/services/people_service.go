package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
	"github.com/yigit/iams/internal/pkg/email"
	"github.com/yigit/iams/internal/pkg/logger"
)

// GeneratedPasswordLength is the size of passwords created on behalf of users
const GeneratedPasswordLength = 10

// PeopleService provisions and lists students and faculty members
type PeopleService struct {
	store    repositories.Store
	notifier email.Notifier
	trail    auditTrail
}

// NewPeopleService creates a new people service instance
func NewPeopleService(store repositories.Store, notifier email.Notifier, trail auditTrail) *PeopleService {
	return &PeopleService{store: store, notifier: notifier, trail: trail}
}

// ListStudents returns students with user, program and semester composed
func (s *PeopleService) ListStudents(ctx context.Context, programID string) ([]*models.Student, error) {
	repos := s.store.Repositories()
	students, err := repos.Students.List(ctx, programID)
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).studentProfiles(ctx, students...); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *PeopleService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := newComposer(s.store.Repositories()).student(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.NewNotFound("Student not found")
	}
	return student, nil
}

// CreateStudent creates the STUDENT user and its profile in one transaction
func (s *PeopleService) CreateStudent(ctx context.Context, p *auth.Principal, req dto.CreateStudentRequest) (*dto.AccountResult, error) {
	password, generated, err := passwordOrGenerated(req.Password)
	if err != nil {
		return nil, err
	}
	hash, err := jwtauth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	result := &dto.AccountResult{}
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		program, err := repos.Programs.GetByID(ctx, req.ProgramID)
		if err != nil {
			return notFoundAs(err, "Program not found")
		}

		semesterID, err := pickSemester(ctx, repos, program.ID, req.CurrentSemesterID)
		if err != nil {
			return err
		}

		user, err := createAccount(ctx, repos, models.RoleStudent, req.Email, req.FullName, hash)
		if err != nil {
			return err
		}

		student := &models.Student{
			ID:                uuid.NewString(),
			UserID:            user.ID,
			ProgramID:         program.ID,
			CurrentSemesterID: semesterID,
			EnrollmentNo:      strings.TrimSpace(req.EnrollmentNo),
			BatchYear:         req.BatchYear,
			Status:            models.StudentActive,
		}
		if err := repos.Students.Create(ctx, student); err != nil {
			return err
		}
		student.Program = program

		result.User = user
		result.Student = student
		return nil
	})
	if err != nil {
		return nil, err
	}

	if generated {
		result.GeneratedPassword = &password
	}
	s.trail.record(ctx, p, "student.create", "student", result.Student.ID, map[string]interface{}{"enrollmentNo": result.Student.EnrollmentNo})
	s.welcome(result.User, result.Student.EnrollmentNo, result.GeneratedPassword)
	return result, nil
}

func (s *PeopleService) ListFaculty(ctx context.Context, departmentID string) ([]*models.Faculty, error) {
	repos := s.store.Repositories()
	members, err := repos.Faculty.List(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).facultyMembers(ctx, members...); err != nil {
		return nil, err
	}
	return members, nil
}

// CreateFaculty creates the FACULTY user and its profile in one transaction
func (s *PeopleService) CreateFaculty(ctx context.Context, p *auth.Principal, req dto.CreateFacultyRequest) (*dto.AccountResult, error) {
	password, generated, err := passwordOrGenerated(req.Password)
	if err != nil {
		return nil, err
	}
	hash, err := jwtauth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	result := &dto.AccountResult{}
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		department, err := repos.Departments.GetByID(ctx, req.DepartmentID)
		if err != nil {
			return notFoundAs(err, "Department not found")
		}

		user, err := createAccount(ctx, repos, models.RoleFaculty, req.Email, req.FullName, hash)
		if err != nil {
			return err
		}

		faculty := &models.Faculty{
			ID:           uuid.NewString(),
			UserID:       user.ID,
			DepartmentID: department.ID,
			EmployeeCode: strings.TrimSpace(req.EmployeeCode),
			Designation:  strings.TrimSpace(req.Designation),
		}
		if err := repos.Faculty.Create(ctx, faculty); err != nil {
			return err
		}
		faculty.User = user
		faculty.Department = department

		result.User = user
		result.Faculty = faculty
		return nil
	})
	if err != nil {
		return nil, err
	}

	if generated {
		result.GeneratedPassword = &password
	}
	s.trail.record(ctx, p, "faculty.create", "faculty", result.Faculty.ID, map[string]interface{}{"employeeCode": result.Faculty.EmployeeCode})
	return result, nil
}

func (s *PeopleService) welcome(user *models.User, enrollmentNo string, password *string) {
	plain := ""
	if password != nil {
		plain = *password
	}
	if err := s.notifier.SendStudentWelcome(user.Email, user.FullName, enrollmentNo, plain); err != nil {
		logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to send welcome email")
	}
}

// passwordOrGenerated returns the given password, or a fresh one when empty
func passwordOrGenerated(password string) (string, bool, error) {
	if password != "" {
		return password, false, nil
	}
	generated, err := jwtauth.GeneratePassword(GeneratedPasswordLength)
	if err != nil {
		return "", false, err
	}
	return generated, true, nil
}

// pickSemester validates the requested semester against the program, or falls
// back to the program's first semester
func pickSemester(ctx context.Context, repos *repositories.Repositories, programID string, requested *string) (*string, error) {
	if requested != nil && *requested != "" {
		semester, err := repos.Semesters.GetByID(ctx, *requested)
		if err != nil {
			return nil, notFoundAs(err, "Semester not found")
		}
		if semester.ProgramID != programID {
			return nil, apperrors.NewValidation("Semester does not belong to the program").
				WithFields(apperrors.FieldError{Field: "currentSemesterId", Message: "must belong to programId"})
		}
		return &semester.ID, nil
	}

	first, err := repos.Semesters.FirstOfProgram(ctx, programID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &first.ID, nil
}

// createAccount inserts an ACTIVE user holding role
func createAccount(ctx context.Context, repos *repositories.Repositories, roleName models.RoleName, emailAddr, fullName, hash string) (*models.User, error) {
	role, err := repos.Roles.GetByName(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to load role %s: %w", roleName, err)
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(emailAddr),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		RoleID:       role.ID,
		Status:       models.UserActive,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}
