package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

func TestCatalogBuildsOfferingWithComposedView(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	admin := e.principal(t, models.RoleAdmin)

	dept, err := e.svc.Catalog.CreateDepartment(ctx, admin, dto.CreateDepartmentRequest{Name: "Computer Science", Code: " cse "})
	require.NoError(t, err)
	assert.Equal(t, "CSE", dept.Code)

	program, err := e.svc.Catalog.CreateProgram(ctx, admin, dto.CreateProgramRequest{Name: "B.Tech CS", Code: "BTECH-CS", DepartmentID: dept.ID})
	require.NoError(t, err)
	assert.Equal(t, models.LevelUG, program.Level)
	assert.Equal(t, 4, program.DurationYears)
	assert.True(t, program.IsActive)

	semester, err := e.svc.Catalog.CreateSemester(ctx, admin, dto.CreateSemesterRequest{Name: "Semester 1", Number: 1, ProgramID: program.ID})
	require.NoError(t, err)

	course, err := e.svc.Catalog.CreateCourse(ctx, admin, dto.CreateCourseRequest{Code: "cs101", Name: "Programming", Credits: 4, ProgramID: &program.ID})
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Code)
	assert.Equal(t, models.CourseCore, course.Type)

	_, faculty := e.teacher(t, dept.ID)

	offering, err := e.svc.Catalog.CreateOffering(ctx, admin, dto.CreateOfferingRequest{
		CourseID: course.ID, SemesterID: semester.ID, FacultyID: faculty.ID, Year: 2025,
		Schedule: []dto.ScheduleSlotRequest{{Day: "MON", StartTime: "09:00", EndTime: "10:00"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A", offering.Section)
	assert.Equal(t, 60, offering.MaxCapacity)
	require.NotNil(t, offering.Course)
	require.NotNil(t, offering.Semester)
	require.NotNil(t, offering.Faculty)
	require.NotNil(t, offering.Faculty.User)
	assert.Equal(t, program.ID, offering.ProgramID())
	assert.Len(t, offering.Schedule, 1)

	found, err := e.svc.Catalog.ListOfferings(ctx, repositories.OfferingFilter{Query: "programm"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CS101", found[0].Course.Code)

	entries, err := e.recorder.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "offering.create", entries[0].Action)
	assert.Equal(t, admin.UserID(), entries[0].ActorID)
}

func TestCreateOfferingRequiresReferences(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	admin := e.principal(t, models.RoleAdmin)

	tests := []struct {
		name string
		req  dto.CreateOfferingRequest
		msg  string
	}{
		{"course", dto.CreateOfferingRequest{CourseID: "nope", SemesterID: c.semester.ID, FacultyID: c.faculty.ID, Year: 2025}, "Course not found"},
		{"semester", dto.CreateOfferingRequest{CourseID: c.course.ID, SemesterID: "nope", FacultyID: c.faculty.ID, Year: 2025}, "Semester not found"},
		{"faculty", dto.CreateOfferingRequest{CourseID: c.course.ID, SemesterID: c.semester.ID, FacultyID: "nope", Year: 2025}, "Faculty not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Catalog.CreateOffering(ctx, admin, tt.req)
			assert.ErrorIs(t, err, apperrors.ErrNotFound)
			assert.Equal(t, tt.msg, apperrors.Message(err, ""))
		})
	}
}

func TestDeleteReferencedCatalogEntityConflicts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	admin := e.principal(t, models.RoleAdmin)
	e.enrolled(t, c)

	assert.ErrorIs(t, e.svc.Catalog.DeleteDepartment(ctx, admin, c.department.ID), apperrors.ErrConflict)
	assert.ErrorIs(t, e.svc.Catalog.DeleteProgram(ctx, admin, c.program.ID), apperrors.ErrConflict)
	assert.ErrorIs(t, e.svc.Catalog.DeleteCourse(ctx, admin, c.course.ID), apperrors.ErrConflict)
	assert.ErrorIs(t, e.svc.Catalog.DeleteOffering(ctx, admin, c.offering.ID), apperrors.ErrConflict)
	assert.ErrorIs(t, e.svc.Catalog.DeleteDepartment(ctx, admin, "missing"), apperrors.ErrNotFound)
}

func TestUpdatesKeepUnsetFields(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	admin := e.principal(t, models.RoleAdmin)

	name := "Data Science"
	dept, err := e.svc.Catalog.UpdateDepartment(ctx, admin, c.department.ID, dto.UpdateDepartmentRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Data Science", dept.Name)
	assert.Equal(t, c.department.Code, dept.Code)

	section := "B"
	offering, err := e.svc.Catalog.UpdateOffering(ctx, admin, c.offering.ID, dto.UpdateOfferingRequest{Section: &section})
	require.NoError(t, err)
	assert.Equal(t, "B", offering.Section)
	assert.Equal(t, c.course.ID, offering.CourseID)

	missing := "nope"
	_, err = e.svc.Catalog.UpdateOffering(ctx, admin, c.offering.ID, dto.UpdateOfferingRequest{FacultyID: &missing})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSemesterDatesMustBeOrdered(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)
	admin := e.principal(t, models.RoleAdmin)

	start := testNow
	end := testNow.Add(-24 * time.Hour)
	_, err := e.svc.Catalog.CreateSemester(ctx, admin, dto.CreateSemesterRequest{
		Name: "Semester 2", Number: 2, ProgramID: c.program.ID, StartDate: &start, EndDate: &end,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "endDate", apperrors.Fields(err)[0].Field)
}

func TestGetProgramComposesDepartment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := e.campus(t)

	program, err := e.svc.Catalog.GetProgram(ctx, c.program.ID)
	require.NoError(t, err)
	require.NotNil(t, program.Department)
	assert.Equal(t, c.department.ID, program.Department.ID)

	_, err = e.svc.Catalog.GetProgram(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
