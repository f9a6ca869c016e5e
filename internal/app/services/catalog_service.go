package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

// Default values applied when a create payload leaves them out
const (
	defaultDurationYears = 4
	defaultMaxCapacity   = 60
	defaultSection       = "A"
)

// CatalogService manages departments, programs, semesters, courses and offerings
type CatalogService struct {
	store repositories.Store
	trail auditTrail
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(store repositories.Store, trail auditTrail) *CatalogService {
	return &CatalogService{store: store, trail: trail}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Departments

func (s *CatalogService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.store.Repositories().Departments.List(ctx)
}

func (s *CatalogService) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.store.Repositories().Departments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Department not found")
	}
	return department, nil
}

func (s *CatalogService) CreateDepartment(ctx context.Context, p *auth.Principal, req dto.CreateDepartmentRequest) (*models.Department, error) {
	department := &models.Department{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Code:        normalizeCode(req.Code),
		Description: req.Description,
	}
	if err := s.store.Repositories().Departments.Create(ctx, department); err != nil {
		return nil, err
	}
	s.trail.record(ctx, p, "department.create", "department", department.ID, map[string]interface{}{"code": department.Code})
	return department, nil
}

func (s *CatalogService) UpdateDepartment(ctx context.Context, p *auth.Principal, id string, req dto.UpdateDepartmentRequest) (*models.Department, error) {
	department, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		department.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		department.Code = normalizeCode(*req.Code)
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if err := s.store.Repositories().Departments.Update(ctx, department); err != nil {
		return nil, err
	}
	s.trail.record(ctx, p, "department.update", "department", id, nil)
	return department, nil
}

func (s *CatalogService) DeleteDepartment(ctx context.Context, p *auth.Principal, id string) error {
	if err := s.store.Repositories().Departments.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Department not found")
	}
	s.trail.record(ctx, p, "department.delete", "department", id, nil)
	return nil
}

// Programs

func (s *CatalogService) ListPrograms(ctx context.Context, departmentID string) ([]*models.Program, error) {
	repos := s.store.Repositories()
	programs, err := repos.Programs.List(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	c := newComposer(repos)
	for _, program := range programs {
		if program.Department, err = lookup(ctx, c.departments, program.DepartmentID, repos.Departments.GetByID); err != nil {
			return nil, err
		}
	}
	return programs, nil
}

// GetProgram returns the program with its department
func (s *CatalogService) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	program, err := newComposer(s.store.Repositories()).program(ctx, id)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, apperrors.NewNotFound("Program not found")
	}
	return program, nil
}

func (s *CatalogService) CreateProgram(ctx context.Context, p *auth.Principal, req dto.CreateProgramRequest) (*models.Program, error) {
	repos := s.store.Repositories()
	department, err := repos.Departments.GetByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, notFoundAs(err, "Department not found")
	}

	program := &models.Program{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Code:          normalizeCode(req.Code),
		DepartmentID:  department.ID,
		DurationYears: req.DurationYears,
		Level:         req.Level,
		IsActive:      true,
	}
	if program.DurationYears == 0 {
		program.DurationYears = defaultDurationYears
	}
	if program.Level == "" {
		program.Level = models.LevelUG
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	if err := repos.Programs.Create(ctx, program); err != nil {
		return nil, err
	}
	program.Department = department
	s.trail.record(ctx, p, "program.create", "program", program.ID, map[string]interface{}{"code": program.Code})
	return program, nil
}

func (s *CatalogService) UpdateProgram(ctx context.Context, p *auth.Principal, id string, req dto.UpdateProgramRequest) (*models.Program, error) {
	repos := s.store.Repositories()
	program, err := repos.Programs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Program not found")
	}

	if req.DepartmentID != nil && *req.DepartmentID != program.DepartmentID {
		if _, err := repos.Departments.GetByID(ctx, *req.DepartmentID); err != nil {
			return nil, notFoundAs(err, "Department not found")
		}
		program.DepartmentID = *req.DepartmentID
	}
	if req.Name != nil {
		program.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		program.Code = normalizeCode(*req.Code)
	}
	if req.DurationYears != nil {
		program.DurationYears = *req.DurationYears
	}
	if req.Level != nil {
		program.Level = *req.Level
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	if err := repos.Programs.Update(ctx, program); err != nil {
		return nil, err
	}
	s.trail.record(ctx, p, "program.update", "program", id, nil)
	return program, nil
}

func (s *CatalogService) DeleteProgram(ctx context.Context, p *auth.Principal, id string) error {
	if err := s.store.Repositories().Programs.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Program not found")
	}
	s.trail.record(ctx, p, "program.delete", "program", id, nil)
	return nil
}

// Semesters

func (s *CatalogService) ListSemesters(ctx context.Context, programID string) ([]*models.Semester, error) {
	return s.store.Repositories().Semesters.List(ctx, programID)
}

func (s *CatalogService) CreateSemester(ctx context.Context, p *auth.Principal, req dto.CreateSemesterRequest) (*models.Semester, error) {
	repos := s.store.Repositories()
	program, err := repos.Programs.GetByID(ctx, req.ProgramID)
	if err != nil {
		return nil, notFoundAs(err, "Program not found")
	}

	semester := &models.Semester{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Number:       req.Number,
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		ProgramID:    program.ID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     true,
	}
	if req.IsActive != nil {
		semester.IsActive = *req.IsActive
	}
	if err := checkSemesterDates(semester); err != nil {
		return nil, err
	}

	if err := repos.Semesters.Create(ctx, semester); err != nil {
		return nil, err
	}
	semester.Program = program
	s.trail.record(ctx, p, "semester.create", "semester", semester.ID, nil)
	return semester, nil
}

func (s *CatalogService) UpdateSemester(ctx context.Context, p *auth.Principal, id string, req dto.UpdateSemesterRequest) (*models.Semester, error) {
	repos := s.store.Repositories()
	semester, err := repos.Semesters.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Semester not found")
	}

	if req.Name != nil {
		semester.Name = strings.TrimSpace(*req.Name)
	}
	if req.Number != nil {
		semester.Number = *req.Number
	}
	if req.AcademicYear != nil {
		semester.AcademicYear = strings.TrimSpace(*req.AcademicYear)
	}
	if req.StartDate != nil {
		semester.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		semester.EndDate = req.EndDate
	}
	if req.IsActive != nil {
		semester.IsActive = *req.IsActive
	}
	if err := checkSemesterDates(semester); err != nil {
		return nil, err
	}

	if err := repos.Semesters.Update(ctx, semester); err != nil {
		return nil, err
	}
	s.trail.record(ctx, p, "semester.update", "semester", id, nil)
	return semester, nil
}

func (s *CatalogService) DeleteSemester(ctx context.Context, p *auth.Principal, id string) error {
	if err := s.store.Repositories().Semesters.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Semester not found")
	}
	s.trail.record(ctx, p, "semester.delete", "semester", id, nil)
	return nil
}

func checkSemesterDates(semester *models.Semester) error {
	if semester.StartDate != nil && semester.EndDate != nil && semester.EndDate.Before(*semester.StartDate) {
		return apperrors.NewValidation("Semester cannot end before it starts").
			WithFields(apperrors.FieldError{Field: "endDate", Message: "must not be before startDate"})
	}
	return nil
}

// Courses

func (s *CatalogService) ListCourses(ctx context.Context, programID string) ([]*models.Course, error) {
	return s.store.Repositories().Courses.List(ctx, programID)
}

func (s *CatalogService) CreateCourse(ctx context.Context, p *auth.Principal, req dto.CreateCourseRequest) (*models.Course, error) {
	repos := s.store.Repositories()
	programID, err := s.optionalProgram(ctx, repos, req.ProgramID)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:          uuid.NewString(),
		Code:        normalizeCode(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Credits:     req.Credits,
		Type:        req.Type,
		ProgramID:   programID,
		Description: req.Description,
	}
	if course.Type == "" {
		course.Type = models.CourseCore
	}

	if err := repos.Courses.Create(ctx, course); err != nil {
		return nil, err
	}
	s.trail.record(ctx, p, "course.create", "course", course.ID, map[string]interface{}{"code": course.Code})
	return course, nil
}

func (s *CatalogService) UpdateCourse(ctx context.Context, p *auth.Principal, id string, req dto.UpdateCourseRequest) (*models.Course, error) {
	repos := s.store.Repositories()
	course, err := repos.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Course not found")
	}

	if req.ProgramID != nil {
		if course.ProgramID, err = s.optionalProgram(ctx, repos, req.ProgramID); err != nil {
			return nil, err
		}
	}
	if req.Code != nil {
		course.Code = normalizeCode(*req.Code)
	}
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Type != nil {
		course.Type = *req.Type
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	if err := repos.Courses.Update(ctx, course); err != nil {
		return nil, err
	}
	s.trail.record(ctx, p, "course.update", "course", id, nil)
	return course, nil
}

func (s *CatalogService) DeleteCourse(ctx context.Context, p *auth.Principal, id string) error {
	if err := s.store.Repositories().Courses.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Course not found")
	}
	s.trail.record(ctx, p, "course.delete", "course", id, nil)
	return nil
}

// optionalProgram resolves a nullable program reference; "" clears it
func (s *CatalogService) optionalProgram(ctx context.Context, repos *repositories.Repositories, programID *string) (*string, error) {
	if programID == nil || strings.TrimSpace(*programID) == "" {
		return nil, nil
	}
	program, err := repos.Programs.GetByID(ctx, *programID)
	if err != nil {
		return nil, notFoundAs(err, "Program not found")
	}
	return &program.ID, nil
}

// Offerings

// ListOfferings returns offerings with course, semester and faculty composed
func (s *CatalogService) ListOfferings(ctx context.Context, filter repositories.OfferingFilter) ([]*models.CourseOffering, error) {
	repos := s.store.Repositories()
	offerings, err := repos.Offerings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).offeringDetails(ctx, offerings...); err != nil {
		return nil, err
	}
	return offerings, nil
}

func (s *CatalogService) GetOffering(ctx context.Context, id string) (*models.CourseOffering, error) {
	offering, err := newComposer(s.store.Repositories()).offering(ctx, id)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, apperrors.NewNotFound("Course offering not found")
	}
	return offering, nil
}

func (s *CatalogService) CreateOffering(ctx context.Context, p *auth.Principal, req dto.CreateOfferingRequest) (*models.CourseOffering, error) {
	repos := s.store.Repositories()
	offering := &models.CourseOffering{
		ID:          uuid.NewString(),
		CourseID:    req.CourseID,
		SemesterID:  req.SemesterID,
		FacultyID:   req.FacultyID,
		Section:     strings.TrimSpace(req.Section),
		Year:        req.Year,
		MaxCapacity: req.MaxCapacity,
		Schedule:    dto.Slots(req.Schedule),
	}
	if offering.Section == "" {
		offering.Section = defaultSection
	}
	if offering.MaxCapacity == 0 {
		offering.MaxCapacity = defaultMaxCapacity
	}
	if err := checkOfferingRefs(ctx, repos, offering); err != nil {
		return nil, err
	}

	if err := repos.Offerings.Create(ctx, offering); err != nil {
		return nil, err
	}
	s.trail.record(ctx, p, "offering.create", "course_offering", offering.ID, nil)
	return s.GetOffering(ctx, offering.ID)
}

func (s *CatalogService) UpdateOffering(ctx context.Context, p *auth.Principal, id string, req dto.UpdateOfferingRequest) (*models.CourseOffering, error) {
	repos := s.store.Repositories()
	offering, err := getOffering(ctx, repos, id)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		offering.CourseID = *req.CourseID
	}
	if req.SemesterID != nil {
		offering.SemesterID = *req.SemesterID
	}
	if req.FacultyID != nil {
		offering.FacultyID = *req.FacultyID
	}
	if req.Section != nil {
		offering.Section = strings.TrimSpace(*req.Section)
	}
	if req.Year != nil {
		offering.Year = *req.Year
	}
	if req.MaxCapacity != nil {
		offering.MaxCapacity = *req.MaxCapacity
	}
	if req.Schedule != nil {
		offering.Schedule = dto.Slots(*req.Schedule)
	}
	if err := checkOfferingRefs(ctx, repos, offering); err != nil {
		return nil, err
	}

	if err := repos.Offerings.Update(ctx, offering); err != nil {
		return nil, err
	}
	s.trail.record(ctx, p, "offering.update", "course_offering", id, nil)
	return s.GetOffering(ctx, id)
}

func (s *CatalogService) DeleteOffering(ctx context.Context, p *auth.Principal, id string) error {
	if err := s.store.Repositories().Offerings.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Course offering not found")
	}
	s.trail.record(ctx, p, "offering.delete", "course_offering", id, nil)
	return nil
}

// checkOfferingRefs verifies that course, semester and faculty exist
func checkOfferingRefs(ctx context.Context, repos *repositories.Repositories, offering *models.CourseOffering) error {
	if _, err := repos.Courses.GetByID(ctx, offering.CourseID); err != nil {
		return notFoundAs(err, "Course not found")
	}
	if _, err := repos.Semesters.GetByID(ctx, offering.SemesterID); err != nil {
		return notFoundAs(err, "Semester not found")
	}
	if _, err := repos.Faculty.GetByID(ctx, offering.FacultyID); err != nil {
		return notFoundAs(err, "Faculty not found")
	}
	return nil
}
