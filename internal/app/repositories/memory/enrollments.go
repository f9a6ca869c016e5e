package memory

import (
	"context"
	"time"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

type enrollmentRow = models.Enrollment

type enrollmentRepo struct{ s *session }

func liveEnrollment(d *dataset, studentID, offeringID string) (enrollmentRow, bool) {
	return d.enrollments.find(func(v enrollmentRow) bool {
		return v.StudentID == studentID && v.OfferingID == offeringID && v.Status.Live()
	})
}

func (r *enrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	return r.s.run(func(d *dataset) error {
		if enrollment.Status.Live() {
			if _, dup := liveEnrollment(d, enrollment.StudentID, enrollment.OfferingID); dup {
				return apperrors.NewConflict("enrollment already exists")
			}
		}
		now := r.s.now()
		if enrollment.EnrolledAt.IsZero() {
			enrollment.EnrolledAt = now
		}
		enrollment.UpdatedAt = now
		row := *enrollment
		row.Student, row.Offering = nil, nil
		d.enrollments.put(row.ID, row)
		return nil
	})
}

func (r *enrollmentRepo) GetByID(_ context.Context, id string) (*models.Enrollment, error) {
	var out *models.Enrollment
	err := r.s.run(func(d *dataset) error {
		v, ok := d.enrollments.get(id)
		if !ok {
			return apperrors.NewNotFound("enrollment not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *enrollmentRepo) FindLive(_ context.Context, studentID, offeringID string) (*models.Enrollment, error) {
	var out *models.Enrollment
	err := r.s.run(func(d *dataset) error {
		v, ok := liveEnrollment(d, studentID, offeringID)
		if !ok {
			return apperrors.NewNotFound("enrollment not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *enrollmentRepo) List(_ context.Context, f repositories.EnrollmentFilter) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	err := r.s.run(func(d *dataset) error {
		rows := d.enrollments.filter(func(v enrollmentRow) bool {
			if len(f.IDs) > 0 && !contains(f.IDs, v.ID) {
				return false
			}
			if f.StudentID != "" && v.StudentID != f.StudentID {
				return false
			}
			if f.OfferingID != "" && v.OfferingID != f.OfferingID {
				return false
			}
			return f.IncludeDropped || v.Status.Live()
		})
		for i := range rows {
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}

func (r *enrollmentRepo) CountLive(_ context.Context, offeringID string) (int, error) {
	var n int
	err := r.s.run(func(d *dataset) error {
		n = len(d.enrollments.filter(func(v enrollmentRow) bool {
			return v.OfferingID == offeringID && v.Status.Live()
		}))
		return nil
	})
	return n, err
}

func (r *enrollmentRepo) Drop(_ context.Context, id string, at time.Time) error {
	return r.s.run(func(d *dataset) error {
		v, ok := d.enrollments.get(id)
		if !ok || !v.Status.Live() {
			return apperrors.NewNotFound("enrollment not found")
		}
		v.Status = models.EnrollmentDropped
		v.DroppedAt = &at
		v.UpdatedAt = r.s.now()
		d.enrollments.put(id, v)
		return nil
	})
}
