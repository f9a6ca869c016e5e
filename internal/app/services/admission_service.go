package services

import (
	"context"
	"errors"
	"strings"
	"time"

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

// admissionTransitions lists the status changes a PATCH may make
var admissionTransitions = map[models.AdmissionStatus][]models.AdmissionStatus{
	models.AdmissionPending:  {models.AdmissionApproved, models.AdmissionRejected},
	models.AdmissionApproved: {models.AdmissionRejected},
}

func canTransition(from, to models.AdmissionStatus) bool {
	for _, next := range admissionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AdmissionService takes public applications through review into student accounts
type AdmissionService struct {
	store    repositories.Store
	notifier email.Notifier
	trail    auditTrail
	now      func() time.Time
}

// NewAdmissionService creates a new admission service instance
func NewAdmissionService(store repositories.Store, notifier email.Notifier, trail auditTrail, now func() time.Time) *AdmissionService {
	return &AdmissionService{store: store, notifier: notifier, trail: trail, now: now}
}

// Submit stores a public application as PENDING
func (s *AdmissionService) Submit(ctx context.Context, req dto.SubmitAdmissionRequest) (*models.AdmissionApplication, error) {
	repos := s.store.Repositories()
	program, err := repos.Programs.GetByID(ctx, req.ProgramID)
	if err != nil {
		return nil, notFoundAs(err, "Program not found")
	}

	app := &models.AdmissionApplication{
		ID:                    uuid.NewString(),
		FullName:              strings.TrimSpace(req.FullName),
		Email:                 normalizeEmail(req.Email),
		Phone:                 strings.TrimSpace(req.Phone),
		DateOfBirth:           req.DateOfBirth,
		ProgramID:             program.ID,
		PreviousQualification: strings.TrimSpace(req.PreviousQualification),
		Status:                models.AdmissionPending,
		AppliedAt:             s.now(),
	}
	if err := repos.Admissions.Create(ctx, app); err != nil {
		return nil, err
	}
	app.Program = program

	s.trail.record(ctx, nil, "admission.submit", "admission_application", app.ID, map[string]interface{}{"programId": program.ID})
	return app, nil
}

// List returns applications newest first, optionally narrowed by status
func (s *AdmissionService) List(ctx context.Context, status string) ([]*models.AdmissionApplication, error) {
	filter := repositories.AdmissionFilter{Status: models.AdmissionStatus(strings.ToUpper(strings.TrimSpace(status)))}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewValidation("Invalid status filter").
			WithFields(apperrors.FieldError{Field: "status", Message: "must be one of PENDING APPROVED REJECTED"})
	}

	repos := s.store.Repositories()
	apps, err := repos.Admissions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	c := newComposer(repos)
	for _, app := range apps {
		if app.Program, err = c.program(ctx, app.ProgramID); err != nil {
			return nil, err
		}
	}
	return apps, nil
}

// Get returns the application with program, student and user composed
func (s *AdmissionService) Get(ctx context.Context, id string) (*models.AdmissionApplication, error) {
	repos := s.store.Repositories()
	app, err := repos.Admissions.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Application not found")
	}
	if err := newComposer(repos).admissions(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Update applies a review decision and/or remarks
func (s *AdmissionService) Update(ctx context.Context, p *auth.Principal, id string, req dto.UpdateAdmissionRequest) (*models.AdmissionApplication, error) {
	repos := s.store.Repositories()
	app, err := repos.Admissions.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Application not found")
	}
	if app.Converted() {
		return nil, apperrors.NewConflict("Application has already been converted to a student")
	}

	previous := app.Status
	if req.Status != nil {
		next := models.AdmissionStatus(*req.Status)
		if next != app.Status {
			if app.Status == models.AdmissionRejected {
				return nil, apperrors.NewValidation("Rejected applications are final")
			}
			if !canTransition(app.Status, next) {
				return nil, apperrors.NewValidation("Cannot move application from %s to %s", app.Status, next)
			}
			now := s.now()
			app.Status = next
			app.DecisionAt = &now
		}
	}
	if req.Remarks != nil {
		app.Remarks = strings.TrimSpace(*req.Remarks)
	}

	if err := repos.Admissions.UpdateDecision(ctx, app); err != nil {
		return nil, err
	}
	if err := newComposer(repos).admissions(ctx, app); err != nil {
		return nil, err
	}

	if app.Status != previous {
		s.trail.record(ctx, p, "admission.decision", "admission_application", app.ID, map[string]interface{}{
			"from": string(previous),
			"to":   string(app.Status),
		})
		programName := ""
		if app.Program != nil {
			programName = app.Program.Name
		}
		if err := s.notifier.SendAdmissionDecision(app.Email, app.FullName, programName, string(app.Status)); err != nil {
			logger.Warn().Err(err).Str("applicationID", app.ID).Msg("Failed to send admission decision email")
		}
	}
	return app, nil
}

// Convert turns an APPROVED application into a student account. Every write
// happens in one transaction; the welcome mail goes out after commit.
func (s *AdmissionService) Convert(ctx context.Context, p *auth.Principal, id, enrollmentNo string) (*dto.ConversionResult, error) {
	enrollmentNo = strings.TrimSpace(enrollmentNo)
	if enrollmentNo == "" {
		return nil, apperrors.NewValidation("Enrollment number is required").
			WithFields(apperrors.FieldError{Field: "enrollmentNo", Message: "is required"})
	}

	result := &dto.ConversionResult{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		app, err := repos.Admissions.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Application not found")
		}
		if app.Status != models.AdmissionApproved {
			return apperrors.NewValidation("Only approved applications can be converted")
		}
		if app.Converted() {
			return apperrors.NewConflict("Application has already been converted to a student")
		}

		studentRole, err := repos.Roles.GetByName(ctx, models.RoleStudent)
		if err != nil {
			return err
		}

		user, err := repos.Users.GetByEmail(ctx, app.Email)
		switch {
		case err == nil:
			if user.RoleID != studentRole.ID {
				if err := repos.Users.UpdateRole(ctx, user.ID, studentRole.ID); err != nil {
					return err
				}
				user.RoleID = studentRole.ID
			}
		case apperrors.IsNotFound(err):
			password, err := jwtauth.GeneratePassword(GeneratedPasswordLength)
			if err != nil {
				return err
			}
			hash, err := jwtauth.HashPassword(password)
			if err != nil {
				return err
			}
			user = &models.User{
				ID:           uuid.NewString(),
				Email:        app.Email,
				PasswordHash: hash,
				FullName:     app.FullName,
				RoleID:       studentRole.ID,
				Status:       models.UserActive,
			}
			if err := repos.Users.Create(ctx, user); err != nil {
				return err
			}
			result.GeneratedPassword = &password
			result.Created = true
		default:
			return err
		}
		user.Role = studentRole

		student, err := repos.Students.GetByUserID(ctx, user.ID)
		switch {
		case err == nil:
		case apperrors.IsNotFound(err):
			semesterID, err := pickSemester(ctx, repos, app.ProgramID, nil)
			if err != nil {
				return err
			}
			student = &models.Student{
				ID:                uuid.NewString(),
				UserID:            user.ID,
				ProgramID:         app.ProgramID,
				CurrentSemesterID: semesterID,
				EnrollmentNo:      enrollmentNo,
				Status:            models.StudentActive,
			}
			if err := repos.Students.Create(ctx, student); err != nil {
				if errors.Is(err, apperrors.ErrConflict) {
					return apperrors.NewConflict("Enrollment number already in use")
				}
				return err
			}
			result.Created = true
		default:
			return err
		}

		decisionAt := s.now()
		if app.DecisionAt != nil {
			decisionAt = *app.DecisionAt
		}
		if err := repos.Admissions.Link(ctx, app.ID, student.ID, user.ID, decisionAt); err != nil {
			return err
		}
		app.StudentID = &student.ID
		app.UserID = &user.ID
		app.DecisionAt = &decisionAt

		c := newComposer(repos)
		if err := c.studentProfiles(ctx, student); err != nil {
			return err
		}
		if app.Program, err = c.program(ctx, app.ProgramID); err != nil {
			return err
		}

		result.Application = app
		result.Student = student
		result.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.trail.record(ctx, p, "admission.convert", "admission_application", result.Application.ID, map[string]interface{}{
		"studentId": result.Student.ID,
		"created":   result.Created,
	})

	password := ""
	if result.GeneratedPassword != nil {
		password = *result.GeneratedPassword
	}
	if err := s.notifier.SendStudentWelcome(result.User.Email, result.User.FullName, result.Student.EnrollmentNo, password); err != nil {
		logger.Warn().Err(err).Str("applicationID", result.Application.ID).Msg("Failed to send welcome email")
	}
	return result, nil
}
