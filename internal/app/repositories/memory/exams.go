package memory

import (
	"context"
	"sort"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

type (
	examRow   = models.Exam
	resultRow = models.ExamResult
)

type examRepo struct{ s *session }

func (r *examRepo) Create(_ context.Context, exam *models.Exam) error {
	return r.s.run(func(d *dataset) error {
		now := r.s.now()
		exam.CreatedAt, exam.UpdatedAt = now, now
		row := *exam
		row.Offering = nil
		d.exams.put(row.ID, row)
		return nil
	})
}

func (r *examRepo) GetByID(_ context.Context, id string) (*models.Exam, error) {
	var out *models.Exam
	err := r.s.run(func(d *dataset) error {
		v, ok := d.exams.get(id)
		if !ok {
			return apperrors.NewNotFound("exam not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *examRepo) List(_ context.Context, f repositories.ExamFilter) ([]*models.Exam, error) {
	var out []*models.Exam
	err := r.s.run(func(d *dataset) error {
		rows := d.exams.filter(func(v examRow) bool {
			if len(f.OfferingIDs) > 0 && !contains(f.OfferingIDs, v.OfferingID) {
				return false
			}
			return f.From == nil || !v.ExamDate.Before(*f.From)
		})
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].ExamDate.Before(rows[j].ExamDate) })
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

func (r *examRepo) Update(_ context.Context, exam *models.Exam) error {
	return r.s.run(func(d *dataset) error {
		cur, ok := d.exams.get(exam.ID)
		if !ok {
			return apperrors.NewNotFound("exam not found")
		}
		exam.CreatedAt = cur.CreatedAt
		exam.UpdatedAt = r.s.now()
		row := *exam
		row.Offering = nil
		d.exams.put(row.ID, row)
		return nil
	})
}

func (r *examRepo) Delete(_ context.Context, id string) error {
	return r.s.run(func(d *dataset) error {
		if _, ok := d.exams.get(id); !ok {
			return apperrors.NewNotFound("exam not found")
		}
		for _, res := range d.results.filter(func(v resultRow) bool { return v.ExamID == id }) {
			d.results.del(res.ID)
		}
		d.exams.del(id)
		return nil
	})
}

func (r *examRepo) UpsertResults(_ context.Context, results []*models.ExamResult) error {
	return r.s.run(func(d *dataset) error {
		now := r.s.now()
		for _, res := range results {
			if existing, ok := d.results.find(func(v resultRow) bool {
				return v.ExamID == res.ExamID && v.EnrollmentID == res.EnrollmentID
			}); ok {
				res.ID = existing.ID
				res.CreatedAt = existing.CreatedAt
			} else {
				res.CreatedAt = now
			}
			res.UpdatedAt = now
			row := *res
			row.Enrollment = nil
			d.results.put(row.ID, row)
		}
		return nil
	})
}

func (r *examRepo) ListResults(_ context.Context, f repositories.ResultFilter) ([]*models.ExamResult, error) {
	var out []*models.ExamResult
	err := r.s.run(func(d *dataset) error {
		rows := d.results.filter(func(v resultRow) bool {
			if len(f.ExamIDs) > 0 && !contains(f.ExamIDs, v.ExamID) {
				return false
			}
			if len(f.EnrollmentIDs) > 0 && !contains(f.EnrollmentIDs, v.EnrollmentID) {
				return false
			}
			return true
		})
		for i := range rows {
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}
