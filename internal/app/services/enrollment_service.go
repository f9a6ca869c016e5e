package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
	"github.com/yigit/iams/internal/pkg/logger"
)

// EnrollmentService registers students into offerings
type EnrollmentService struct {
	store           repositories.Store
	enforceCapacity bool
	now             func() time.Time
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(store repositories.Store, enforceCapacity bool, now func() time.Time) *EnrollmentService {
	return &EnrollmentService{store: store, enforceCapacity: enforceCapacity, now: now}
}

// Register enrolls the calling student into offeringID
func (s *EnrollmentService) Register(ctx context.Context, p *auth.Principal, offeringID string) (*models.Enrollment, error) {
	repos := s.store.Repositories()
	student, err := studentOf(ctx, repos, p)
	if err != nil {
		return nil, err
	}

	c := newComposer(repos)
	offering, err := c.offering(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, apperrors.NewNotFound("Course offering not found")
	}

	if programID := offering.ProgramID(); programID != "" && programID != student.ProgramID {
		return nil, apperrors.NewValidation("Offering does not belong to your program")
	}

	if _, err := repos.Enrollments.FindLive(ctx, student.ID, offering.ID); err == nil {
		return nil, apperrors.NewConflict("Already enrolled in this offering")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	if s.enforceCapacity && offering.MaxCapacity > 0 {
		count, err := repos.Enrollments.CountLive(ctx, offering.ID)
		if err != nil {
			return nil, err
		}
		if count >= offering.MaxCapacity {
			return nil, apperrors.NewConflict("Offering is full")
		}
	}

	enrollment := &models.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  student.ID,
		OfferingID: offering.ID,
		Status:     models.EnrollmentActive,
		EnrolledAt: s.now(),
	}
	if err := repos.Enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflict("Already enrolled in this offering")
		}
		return nil, err
	}
	enrollment.Offering = offering

	logger.Info().Str("studentID", student.ID).Str("offeringID", offering.ID).Msg("Student enrolled")
	return enrollment, nil
}

// ListMine returns the caller's enrollments with offerings composed
func (s *EnrollmentService) ListMine(ctx context.Context, p *auth.Principal, includeDropped bool) ([]*models.Enrollment, error) {
	repos := s.store.Repositories()
	student, err := studentOf(ctx, repos, p)
	if err != nil {
		return nil, err
	}

	enrollments, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{
		StudentID:      student.ID,
		IncludeDropped: includeDropped,
	})
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).enrollmentDetails(ctx, false, enrollments...); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Drop soft-drops one of the caller's live enrollments. Unknown, foreign and
// already dropped enrollments all read as not found.
func (s *EnrollmentService) Drop(ctx context.Context, p *auth.Principal, enrollmentID string) (*models.Enrollment, error) {
	repos := s.store.Repositories()
	student, err := studentOf(ctx, repos, p)
	if err != nil {
		return nil, err
	}

	notFound := apperrors.NewNotFound("Enrollment not found")
	enrollment, err := repos.Enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, notFound
		}
		return nil, err
	}
	if enrollment.StudentID != student.ID || !enrollment.Status.Live() {
		return nil, notFound
	}

	now := s.now()
	if err := repos.Enrollments.Drop(ctx, enrollment.ID, now); err != nil {
		return nil, notFoundAs(err, "Enrollment not found")
	}
	enrollment.Status = models.EnrollmentDropped
	enrollment.DroppedAt = &now
	enrollment.UpdatedAt = now

	if err := newComposer(repos).enrollmentDetails(ctx, false, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// ListByOffering returns the live roster of an offering with students composed
func (s *EnrollmentService) ListByOffering(ctx context.Context, p *auth.Principal, offeringID string) ([]*models.Enrollment, error) {
	repos := s.store.Repositories()
	offering, err := getOffering(ctx, repos, offeringID)
	if err != nil {
		return nil, err
	}
	if err := ensureTeaches(ctx, repos, p, offering); err != nil {
		return nil, err
	}

	enrollments, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{OfferingID: offering.ID})
	if err != nil {
		return nil, err
	}
	c := newComposer(repos)
	for _, e := range enrollments {
		if e.Student, err = c.student(ctx, e.StudentID); err != nil {
			return nil, err
		}
	}
	return enrollments, nil
}
