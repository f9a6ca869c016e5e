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
)

// ExamService manages exams and their marks
type ExamService struct {
	store repositories.Store
}

// NewExamService creates a new exam service instance
func NewExamService(store repositories.Store) *ExamService {
	return &ExamService{store: store}
}

func (s *ExamService) Create(ctx context.Context, p *auth.Principal, req dto.CreateExamRequest) (*models.Exam, error) {
	repos := s.store.Repositories()
	offering, err := getOffering(ctx, repos, req.OfferingID)
	if err != nil {
		return nil, err
	}
	if err := ensureTeaches(ctx, repos, p, offering); err != nil {
		return nil, err
	}

	exam := &models.Exam{
		ID:         uuid.NewString(),
		OfferingID: offering.ID,
		Title:      strings.TrimSpace(req.Title),
		Type:       models.ExamType(req.Type),
		ExamDate:   req.ExamDate.UTC(),
		MaxMarks:   req.MaxMarks,
		Weightage:  req.Weightage,
	}
	if exam.Type == "" {
		exam.Type = models.ExamInternal
	}
	if err := repos.Exams.Create(ctx, exam); err != nil {
		return nil, err
	}
	if err := newComposer(repos).exams(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// Get returns one exam. Students may only read exams of offerings they are
// enrolled in.
func (s *ExamService) Get(ctx context.Context, p *auth.Principal, id string) (*models.Exam, error) {
	repos := s.store.Repositories()
	exam, err := s.readable(ctx, repos, p, id)
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).exams(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// List returns exams by date. Students see their live offerings only,
// faculty their taught offerings.
func (s *ExamService) List(ctx context.Context, p *auth.Principal, offeringID string) ([]*models.Exam, error) {
	repos := s.store.Repositories()
	var scope []string

	switch {
	case p.Is(models.RoleStudent):
		student, err := studentOf(ctx, repos, p)
		if err != nil {
			return nil, err
		}
		live, err := liveEnrollments(ctx, repos, student.ID)
		if err != nil {
			return nil, err
		}
		for id := range live {
			if offeringID == "" || id == offeringID {
				scope = append(scope, id)
			}
		}
		if len(scope) == 0 {
			return []*models.Exam{}, nil
		}
	case offeringID != "":
		offering, err := getOffering(ctx, repos, offeringID)
		if err != nil {
			return nil, err
		}
		if err := ensureTeaches(ctx, repos, p, offering); err != nil {
			return nil, err
		}
		scope = []string{offering.ID}
	case p.Is(models.RoleFaculty):
		ids, err := taughtOfferingIDs(ctx, repos, p)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []*models.Exam{}, nil
		}
		scope = ids
	}

	exams, err := repos.Exams.List(ctx, repositories.ExamFilter{OfferingIDs: scope})
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).exams(ctx, exams...); err != nil {
		return nil, err
	}
	return exams, nil
}

func (s *ExamService) Update(ctx context.Context, p *auth.Principal, id string, req dto.UpdateExamRequest) (*models.Exam, error) {
	repos := s.store.Repositories()
	exam, err := s.managed(ctx, repos, p, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		exam.Title = strings.TrimSpace(*req.Title)
	}
	if req.Type != nil {
		exam.Type = models.ExamType(*req.Type)
	}
	if req.ExamDate != nil {
		exam.ExamDate = req.ExamDate.UTC()
	}
	if req.Weightage != nil {
		exam.Weightage = *req.Weightage
	}
	if req.MaxMarks != nil && *req.MaxMarks != exam.MaxMarks {
		results, err := repos.Exams.ListResults(ctx, repositories.ResultFilter{ExamIDs: []string{exam.ID}})
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			if r.Marks > *req.MaxMarks {
				return nil, apperrors.NewValidation("Existing marks exceed the new maximum").
					WithFields(apperrors.FieldError{Field: "maxMarks", Message: fmt.Sprintf("must be at least %g", r.Marks)})
			}
		}
		exam.MaxMarks = *req.MaxMarks
	}

	if err := repos.Exams.Update(ctx, exam); err != nil {
		return nil, err
	}
	if err := newComposer(repos).exams(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// Delete removes the exam together with its results
func (s *ExamService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	repos := s.store.Repositories()
	if _, err := s.managed(ctx, repos, p, id); err != nil {
		return err
	}
	return notFoundAs(repos.Exams.Delete(ctx, id), "Exam not found")
}

// UpsertResults writes marks keyed by (exam, enrollment); the last entry for
// an enrollment wins
func (s *ExamService) UpsertResults(ctx context.Context, p *auth.Principal, req dto.UpsertResultsRequest) ([]*models.ExamResult, error) {
	repos := s.store.Repositories()
	exam, err := s.managed(ctx, repos, p, req.ExamID)
	if err != nil {
		return nil, err
	}

	entries := lastWins(req.Results, func(e dto.ResultEntry) string { return e.EnrollmentID })

	var fields []apperrors.FieldError
	for i, e := range entries {
		if e.Marks != nil && (*e.Marks < 0 || *e.Marks > exam.MaxMarks) {
			fields = append(fields, apperrors.FieldError{
				Field:   fmt.Sprintf("results[%d].marks", i),
				Message: fmt.Sprintf("must be between 0 and %g", exam.MaxMarks),
			})
		}
		if e.Status != "" && !models.ResultStatus(e.Status).Valid() {
			fields = append(fields, apperrors.FieldError{
				Field:   fmt.Sprintf("results[%d].status", i),
				Message: fmt.Sprintf("unknown status %q", e.Status),
			})
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidation("Invalid exam results").WithFields(fields...)
	}

	roster, err := rosterOf(ctx, repos, exam.OfferingID, entries, func(e dto.ResultEntry) string { return e.EnrollmentID })
	if err != nil {
		return nil, err
	}

	results := make([]*models.ExamResult, 0, len(entries))
	for _, e := range entries {
		result := &models.ExamResult{
			ID:           uuid.NewString(),
			ExamID:       exam.ID,
			EnrollmentID: e.EnrollmentID,
			StudentID:    roster[e.EnrollmentID].StudentID,
			Grade:        strings.TrimSpace(e.Grade),
			Status:       models.ResultStatus(e.Status),
		}
		if result.Status == "" {
			result.Status = models.ResultPresent
		}
		if e.Marks != nil && result.Status != models.ResultAbsent {
			result.Marks = *e.Marks
		}
		results = append(results, result)
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		return tx.Exams.UpsertResults(ctx, results)
	})
	if err != nil {
		return nil, err
	}
	return s.results(ctx, repos, exam.ID, nil)
}

// ListResults returns the marks of an exam; students only get their own
func (s *ExamService) ListResults(ctx context.Context, p *auth.Principal, examID string) ([]*models.ExamResult, error) {
	repos := s.store.Repositories()
	exam, err := s.readable(ctx, repos, p, examID)
	if err != nil {
		return nil, err
	}

	if !p.Is(models.RoleStudent) {
		return s.results(ctx, repos, exam.ID, nil)
	}

	student, err := studentOf(ctx, repos, p)
	if err != nil {
		return nil, err
	}
	own, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{
		StudentID:      student.ID,
		OfferingID:     exam.OfferingID,
		IncludeDropped: true,
	})
	if err != nil {
		return nil, err
	}
	if len(own) == 0 {
		return []*models.ExamResult{}, nil
	}
	ids := make([]string, 0, len(own))
	for _, e := range own {
		ids = append(ids, e.ID)
	}
	return s.results(ctx, repos, exam.ID, ids)
}

func (s *ExamService) results(ctx context.Context, repos *repositories.Repositories, examID string, enrollmentIDs []string) ([]*models.ExamResult, error) {
	results, err := repos.Exams.ListResults(ctx, repositories.ResultFilter{
		ExamIDs:       []string{examID},
		EnrollmentIDs: enrollmentIDs,
	})
	if err != nil {
		return nil, err
	}
	if err := newComposer(repos).examResults(ctx, results...); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *ExamService) get(ctx context.Context, repos *repositories.Repositories, id string) (*models.Exam, *models.CourseOffering, error) {
	exam, err := repos.Exams.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundAs(err, "Exam not found")
	}
	offering, err := getOffering(ctx, repos, exam.OfferingID)
	if err != nil {
		return nil, nil, err
	}
	return exam, offering, nil
}

// managed loads an exam the caller may change
func (s *ExamService) managed(ctx context.Context, repos *repositories.Repositories, p *auth.Principal, id string) (*models.Exam, error) {
	exam, offering, err := s.get(ctx, repos, id)
	if err != nil {
		return nil, err
	}
	if err := ensureTeaches(ctx, repos, p, offering); err != nil {
		return nil, err
	}
	return exam, nil
}

// readable loads an exam the caller may read
func (s *ExamService) readable(ctx context.Context, repos *repositories.Repositories, p *auth.Principal, id string) (*models.Exam, error) {
	exam, offering, err := s.get(ctx, repos, id)
	if err != nil {
		return nil, err
	}
	if !p.Is(models.RoleStudent) {
		if err := ensureTeaches(ctx, repos, p, offering); err != nil {
			return nil, err
		}
		return exam, nil
	}

	student, err := studentOf(ctx, repos, p)
	if err != nil {
		return nil, err
	}
	if _, err := repos.Enrollments.FindLive(ctx, student.ID, offering.ID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewForbidden("You are not enrolled in this offering")
		}
		return nil, err
	}
	return exam, nil
}
