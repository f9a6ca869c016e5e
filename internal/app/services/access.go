package services

import (
	"context"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

// studentOf returns the caller's student profile
func studentOf(ctx context.Context, repos *repositories.Repositories, p *auth.Principal) (*models.Student, error) {
	student, err := repos.Students.GetByUserID(ctx, p.UserID())
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Student profile not found")
		}
		return nil, err
	}
	return student, nil
}

// facultyOf returns the caller's faculty profile
func facultyOf(ctx context.Context, repos *repositories.Repositories, p *auth.Principal) (*models.Faculty, error) {
	faculty, err := repos.Faculty.GetByUserID(ctx, p.UserID())
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Faculty profile not found")
		}
		return nil, err
	}
	return faculty, nil
}

// ensureTeaches lets FACULTY callers through only for offerings they teach.
// Every other role that reached the service was already admitted by the gate.
func ensureTeaches(ctx context.Context, repos *repositories.Repositories, p *auth.Principal, offering *models.CourseOffering) error {
	if !p.Is(models.RoleFaculty) {
		return nil
	}
	faculty, err := repos.Faculty.GetByUserID(ctx, p.UserID())
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	if faculty == nil || faculty.ID != offering.FacultyID {
		return apperrors.NewForbidden("You do not teach this offering")
	}
	return nil
}

// taughtOfferingIDs lists the offerings of the calling faculty member
func taughtOfferingIDs(ctx context.Context, repos *repositories.Repositories, p *auth.Principal) ([]string, error) {
	faculty, err := facultyOf(ctx, repos, p)
	if err != nil {
		return nil, err
	}
	offerings, err := repos.Offerings.List(ctx, repositories.OfferingFilter{FacultyID: faculty.ID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(offerings))
	for _, o := range offerings {
		ids = append(ids, o.ID)
	}
	return ids, nil
}

// liveEnrollments maps offering id to the student's live enrollment
func liveEnrollments(ctx context.Context, repos *repositories.Repositories, studentID string) (map[string]*models.Enrollment, error) {
	enrollments, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.Enrollment, len(enrollments))
	for _, e := range enrollments {
		out[e.OfferingID] = e
	}
	return out, nil
}

func getOffering(ctx context.Context, repos *repositories.Repositories, id string) (*models.CourseOffering, error) {
	offering, err := repos.Offerings.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Course offering not found")
		}
		return nil, err
	}
	return offering, nil
}

// notFoundAs replaces a not-found error's message
func notFoundAs(err error, message string) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("%s", message)
	}
	return err
}
