package memory

import (
	"context"
	"strings"
	"time"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

type admissionRow = models.AdmissionApplication

type admissionRepo struct{ s *session }

func (r *admissionRepo) Create(_ context.Context, application *models.AdmissionApplication) error {
	return r.s.run(func(d *dataset) error {
		now := r.s.now()
		application.Email = strings.ToLower(strings.TrimSpace(application.Email))
		if application.AppliedAt.IsZero() {
			application.AppliedAt = now
		}
		application.CreatedAt, application.UpdatedAt = now, now
		row := *application
		row.Program, row.Student, row.User = nil, nil, nil
		d.admissions.put(row.ID, row)
		return nil
	})
}

func (r *admissionRepo) GetByID(_ context.Context, id string) (*models.AdmissionApplication, error) {
	var out *models.AdmissionApplication
	err := r.s.run(func(d *dataset) error {
		v, ok := d.admissions.get(id)
		if !ok {
			return apperrors.NewNotFound("admission application not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *admissionRepo) List(_ context.Context, f repositories.AdmissionFilter) ([]*models.AdmissionApplication, error) {
	var out []*models.AdmissionApplication
	err := r.s.run(func(d *dataset) error {
		rows := d.admissions.filter(func(v admissionRow) bool {
			if f.Status != "" && v.Status != f.Status {
				return false
			}
			return f.AppliedFrom == nil || !v.AppliedAt.Before(*f.AppliedFrom)
		})
		sortByTimeDesc(rows, func(v admissionRow) time.Time { return v.AppliedAt })
		if f.Limit > 0 && len(rows) > f.Limit {
			rows = rows[:f.Limit]
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}

func (r *admissionRepo) UpdateDecision(_ context.Context, application *models.AdmissionApplication) error {
	return r.s.run(func(d *dataset) error {
		v, ok := d.admissions.get(application.ID)
		if !ok {
			return apperrors.NewNotFound("admission application not found")
		}
		v.Status = application.Status
		v.Remarks = application.Remarks
		v.DecisionAt = application.DecisionAt
		v.UpdatedAt = r.s.now()
		d.admissions.put(v.ID, v)
		application.UpdatedAt = v.UpdatedAt
		return nil
	})
}

func (r *admissionRepo) Link(_ context.Context, id, studentID, userID string, decisionAt time.Time) error {
	return r.s.run(func(d *dataset) error {
		v, ok := d.admissions.get(id)
		if !ok {
			return apperrors.NewNotFound("admission application not found")
		}
		if v.Converted() {
			return apperrors.NewConflict("admission application already converted")
		}
		v.StudentID = &studentID
		v.UserID = &userID
		if v.DecisionAt == nil {
			v.DecisionAt = &decisionAt
		}
		v.UpdatedAt = r.s.now()
		d.admissions.put(id, v)
		return nil
	})
}

func (r *admissionRepo) CountByStatus(_ context.Context, status models.AdmissionStatus) (int, error) {
	var n int
	err := r.s.run(func(d *dataset) error {
		n = len(d.admissions.filter(func(v admissionRow) bool { return v.Status == status }))
		return nil
	})
	return n, err
}
