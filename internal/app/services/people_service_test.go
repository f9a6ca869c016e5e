package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/pkg/apperrors"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
)

func TestCreateStudentGeneratesPasswordAndFirstSemester(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	admin := e.principal(t, models.RoleAdmin)

	res, err := e.svc.People.CreateStudent(ctx, admin, dto.CreateStudentRequest{
		Email: "New@Student.edu", FullName: "New Student", ProgramID: c.program.ID, EnrollmentNo: "2025CS001",
	})
	require.NoError(t, err)
	require.NotNil(t, res.GeneratedPassword)
	assert.Len(t, *res.GeneratedPassword, GeneratedPasswordLength)
	assert.Equal(t, "new@student.edu", res.User.Email)
	assert.Equal(t, models.RoleStudent, res.User.RoleName())
	require.NotNil(t, res.Student.CurrentSemesterID)
	assert.Equal(t, c.semester.ID, *res.Student.CurrentSemesterID)

	stored, err := e.repos.Users.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.True(t, jwtauth.CheckPassword(stored.PasswordHash, *res.GeneratedPassword))

	require.Len(t, e.mail.sent, 1)
	assert.Equal(t, "welcome", e.mail.sent[0].kind)

	student, err := e.svc.People.GetStudent(ctx, res.Student.ID)
	require.NoError(t, err)
	require.NotNil(t, student.User)
	require.NotNil(t, student.Program)
	require.NotNil(t, student.CurrentSemester)
}

func TestCreateStudentRollsBackOnDuplicateEnrollmentNo(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	admin := e.principal(t, models.RoleAdmin)

	_, err := e.svc.People.CreateStudent(ctx, admin, dto.CreateStudentRequest{
		Email: "one@x.com", FullName: "One", Password: "secret1", ProgramID: c.program.ID, EnrollmentNo: "DUP",
	})
	require.NoError(t, err)

	_, err = e.svc.People.CreateStudent(ctx, admin, dto.CreateStudentRequest{
		Email: "two@x.com", FullName: "Two", Password: "secret2", ProgramID: c.program.ID, EnrollmentNo: "DUP",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = e.repos.Users.GetByEmail(ctx, "two@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "user insert must roll back with the student")
}

func TestCreateStudentChecksSemesterProgram(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	other := e.campus(t)
	admin := e.principal(t, models.RoleAdmin)

	_, err := e.svc.People.CreateStudent(ctx, admin, dto.CreateStudentRequest{
		Email: "x@x.com", FullName: "X", ProgramID: c.program.ID, EnrollmentNo: "X1",
		CurrentSemesterID: &other.semester.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.svc.People.CreateStudent(ctx, admin, dto.CreateStudentRequest{
		Email: "x@x.com", FullName: "X", ProgramID: "missing", EnrollmentNo: "X1",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateFaculty(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	admin := e.principal(t, models.RoleAdmin)

	res, err := e.svc.People.CreateFaculty(ctx, admin, dto.CreateFacultyRequest{
		Email: "prof@x.com", FullName: "Prof", Password: "secret1", DepartmentID: c.department.ID, EmployeeCode: "FAC-9",
	})
	require.NoError(t, err)
	assert.Nil(t, res.GeneratedPassword)
	assert.Equal(t, models.RoleFaculty, res.User.RoleName())
	assert.Equal(t, c.department.ID, res.Faculty.Department.ID)

	members, err := e.svc.People.ListFaculty(ctx, c.department.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	for _, m := range members {
		assert.NotNil(t, m.User)
	}

	_, err = e.svc.People.CreateFaculty(ctx, admin, dto.CreateFacultyRequest{
		Email: "prof@x.com", FullName: "Again", DepartmentID: c.department.ID, EmployeeCode: "FAC-10",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
