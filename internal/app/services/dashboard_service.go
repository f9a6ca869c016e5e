package services

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/helpers"
)

// Dashboard sizes
const (
	upcomingExamLimit     = 5
	recentApplicationSize = 5
	analyticsMonths       = 6
)

// DashboardService builds the per-role home screens and the analytics overview
type DashboardService struct {
	store repositories.Store
	now   func() time.Time
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(store repositories.Store, now func() time.Time) *DashboardService {
	return &DashboardService{store: store, now: now}
}

// Student returns the caller's profile, every enrollment, the next exams and
// an overall attendance figure
func (s *DashboardService) Student(ctx context.Context, p *auth.Principal) (*dto.StudentDashboard, error) {
	repos := s.store.Repositories()
	student, err := studentOf(ctx, repos, p)
	if err != nil {
		return nil, err
	}
	c := newComposer(repos)
	if err := c.studentProfiles(ctx, student); err != nil {
		return nil, err
	}

	enrollments, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{StudentID: student.ID, IncludeDropped: true})
	if err != nil {
		return nil, err
	}
	if err := c.enrollmentDetails(ctx, false, enrollments...); err != nil {
		return nil, err
	}

	offeringIDs := make([]string, 0, len(enrollments))
	enrollmentIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		offeringIDs = append(offeringIDs, e.OfferingID)
		enrollmentIDs = append(enrollmentIDs, e.ID)
	}

	upcoming := []*models.Exam{}
	summary := dto.AttendanceSummary{}
	if len(enrollments) > 0 {
		now := s.now()
		if upcoming, err = repos.Exams.List(ctx, repositories.ExamFilter{OfferingIDs: offeringIDs, From: &now, Limit: upcomingExamLimit}); err != nil {
			return nil, err
		}
		if err := c.exams(ctx, upcoming...); err != nil {
			return nil, err
		}

		records, err := repos.Attendance.ListRecords(ctx, repositories.RecordFilter{EnrollmentIDs: enrollmentIDs})
		if err != nil {
			return nil, err
		}
		summary.TotalSessions = len(records)
		for _, r := range records {
			if r.Status == models.AttendancePresent {
				summary.PresentCount++
			}
		}
		if pct := helpers.Percent(float64(summary.PresentCount), float64(summary.TotalSessions)); pct != nil {
			summary.OverallAttendance = *pct
		}
	}

	return &dto.StudentDashboard{
		Student:           student,
		Enrollments:       dto.Items(enrollments),
		UpcomingExams:     dto.Items(upcoming),
		AttendanceSummary: summary,
	}, nil
}

// StudentExams breaks the caller's marks down per live course. Totals only
// count exams that have a result.
func (s *DashboardService) StudentExams(ctx context.Context, p *auth.Principal) (*dto.StudentExams, error) {
	repos := s.store.Repositories()
	student, enrollments, err := s.liveCourses(ctx, repos, p)
	if err != nil {
		return nil, err
	}

	out := &dto.StudentExams{Student: student, Courses: []dto.CourseExamSummary{}}
	for _, e := range enrollments {
		exams, err := repos.Exams.List(ctx, repositories.ExamFilter{OfferingIDs: []string{e.OfferingID}})
		if err != nil {
			return nil, err
		}
		results, err := repos.Exams.ListResults(ctx, repositories.ResultFilter{EnrollmentIDs: []string{e.ID}})
		if err != nil {
			return nil, err
		}
		byExam := make(map[string]*models.ExamResult, len(results))
		for _, r := range results {
			byExam[r.ExamID] = r
		}

		summary := dto.CourseExamSummary{
			EnrollmentID: e.ID,
			Course:       courseRef(e.Offering),
			Semester:     semesterRef(e.Offering),
			Exams:        []dto.ExamDetail{},
		}
		for _, exam := range exams {
			detail := dto.ExamDetail{
				ExamID:    exam.ID,
				Title:     exam.Title,
				Type:      exam.Type,
				ExamDate:  exam.ExamDate,
				MaxMarks:  exam.MaxMarks,
				Weightage: exam.Weightage,
			}
			if r, ok := byExam[exam.ID]; ok {
				marks, grade, status := r.Marks, r.Grade, r.Status
				detail.Marks = &marks
				if grade != "" {
					detail.Grade = &grade
				}
				detail.Status = &status
				summary.TotalMarks += marks
				summary.TotalMax += exam.MaxMarks
			}
			summary.Exams = append(summary.Exams, detail)
		}
		summary.Percentage = helpers.Percent(summary.TotalMarks, summary.TotalMax)
		out.Courses = append(out.Courses, summary)
	}
	return out, nil
}

// StudentAttendance counts PRESENT records per live course
func (s *DashboardService) StudentAttendance(ctx context.Context, p *auth.Principal) (*dto.StudentAttendance, error) {
	repos := s.store.Repositories()
	student, enrollments, err := s.liveCourses(ctx, repos, p)
	if err != nil {
		return nil, err
	}

	out := &dto.StudentAttendance{Student: student, Courses: []dto.CourseAttendanceSummary{}}
	for _, e := range enrollments {
		records, err := repos.Attendance.ListRecords(ctx, repositories.RecordFilter{EnrollmentIDs: []string{e.ID}})
		if err != nil {
			return nil, err
		}
		count := dto.AttendanceCount{TotalCount: len(records)}
		for _, r := range records {
			if r.Status == models.AttendancePresent {
				count.PresentCount++
			}
		}
		count.Percentage = helpers.Percent(float64(count.PresentCount), float64(count.TotalCount))
		out.Courses = append(out.Courses, dto.CourseAttendanceSummary{
			EnrollmentID: e.ID,
			Course:       courseRef(e.Offering),
			Attendance:   count,
		})
	}
	return out, nil
}

// Faculty returns the caller's profile, offerings, today's sessions and the
// next exams of those offerings
func (s *DashboardService) Faculty(ctx context.Context, p *auth.Principal) (*dto.FacultyDashboard, error) {
	repos := s.store.Repositories()
	faculty, err := facultyOf(ctx, repos, p)
	if err != nil {
		return nil, err
	}
	c := newComposer(repos)
	if err := c.facultyMembers(ctx, faculty); err != nil {
		return nil, err
	}

	offerings, err := repos.Offerings.List(ctx, repositories.OfferingFilter{FacultyID: faculty.ID})
	if err != nil {
		return nil, err
	}
	if err := c.offeringDetails(ctx, offerings...); err != nil {
		return nil, err
	}

	out := &dto.FacultyDashboard{
		Faculty:       faculty,
		Offerings:     dto.Items(offerings),
		TodaySessions: []*models.AttendanceSession{},
		UpcomingExams: []*models.Exam{},
	}
	if len(offerings) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(offerings))
	for _, o := range offerings {
		ids = append(ids, o.ID)
	}

	now := s.now()
	today := models.StartOfDay(now)
	sessions, err := repos.Attendance.ListSessions(ctx, repositories.SessionFilter{OfferingIDs: ids, From: &today, To: &today})
	if err != nil {
		return nil, err
	}
	if err := c.sessions(ctx, sessions...); err != nil {
		return nil, err
	}
	out.TodaySessions = dto.Items(sessions)

	exams, err := repos.Exams.List(ctx, repositories.ExamFilter{OfferingIDs: ids, From: &now, Limit: upcomingExamLimit})
	if err != nil {
		return nil, err
	}
	if err := c.exams(ctx, exams...); err != nil {
		return nil, err
	}
	out.UpcomingExams = dto.Items(exams)
	return out, nil
}

// Admin returns institute counters and the latest applications
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminDashboard, error) {
	repos := s.store.Repositories()

	pending, err := repos.Admissions.CountByStatus(ctx, models.AdmissionPending)
	if err != nil {
		return nil, err
	}
	students, err := repos.Students.Count(ctx)
	if err != nil {
		return nil, err
	}
	faculty, err := repos.Faculty.Count(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := repos.Admissions.List(ctx, repositories.AdmissionFilter{Limit: recentApplicationSize})
	if err != nil {
		return nil, err
	}
	c := newComposer(repos)
	for _, app := range recent {
		if app.Program, err = c.program(ctx, app.ProgramID); err != nil {
			return nil, err
		}
	}

	return &dto.AdminDashboard{
		Stats: dto.AdminStats{
			PendingApplications: pending,
			TotalStudents:       students,
			TotalFaculty:        faculty,
		},
		RecentApplications: dto.Items(recent),
	}, nil
}

// Analytics returns admissions for the last six months including the current
// one, and pass and attendance rates per course
func (s *DashboardService) Analytics(ctx context.Context) (*dto.AnalyticsOverview, error) {
	repos := s.store.Repositories()

	admissions, err := s.admissionsByMonth(ctx, repos)
	if err != nil {
		return nil, err
	}
	passRates, err := s.passRateByCourse(ctx, repos)
	if err != nil {
		return nil, err
	}
	attendance, err := s.attendanceByCourse(ctx, repos)
	if err != nil {
		return nil, err
	}

	return &dto.AnalyticsOverview{
		AdmissionsByMonth:  admissions,
		PassRateByCourse:   passRates,
		AttendanceByCourse: attendance,
	}, nil
}

func (s *DashboardService) admissionsByMonth(ctx context.Context, repos *repositories.Repositories) ([]dto.MonthBucket, error) {
	start := helpers.MonthStart(s.now(), -(analyticsMonths - 1))

	buckets := make([]dto.MonthBucket, 0, analyticsMonths)
	index := make(map[string]int, analyticsMonths)
	for i := 0; i < analyticsMonths; i++ {
		month := start.AddDate(0, i, 0)
		key := helpers.MonthKey(month)
		index[key] = i
		buckets = append(buckets, dto.MonthBucket{MonthKey: key, Label: month.Format("Jan 2006")})
	}

	apps, err := repos.Admissions.List(ctx, repositories.AdmissionFilter{AppliedFrom: &start})
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		i, ok := index[helpers.MonthKey(app.AppliedAt)]
		if !ok {
			continue
		}
		b := &buckets[i]
		b.Total++
		switch app.Status {
		case models.AdmissionApproved:
			b.Approved++
		case models.AdmissionRejected:
			b.Rejected++
		default:
			b.Pending++
		}
	}
	return buckets, nil
}

func (s *DashboardService) passRateByCourse(ctx context.Context, repos *repositories.Repositories) ([]dto.CoursePassRate, error) {
	exams, err := repos.Exams.List(ctx, repositories.ExamFilter{})
	if err != nil {
		return nil, err
	}
	examByID := make(map[string]*models.Exam, len(exams))
	examIDs := make([]string, 0, len(exams))
	for _, e := range exams {
		examByID[e.ID] = e
		examIDs = append(examIDs, e.ID)
	}
	rows := []dto.CoursePassRate{}
	if len(exams) == 0 {
		return rows, nil
	}

	results, err := repos.Exams.ListResults(ctx, repositories.ResultFilter{ExamIDs: examIDs})
	if err != nil {
		return nil, err
	}

	c := newComposer(repos)
	byCourse := make(map[string]*dto.CoursePassRate)
	for _, r := range results {
		if r.Status == models.ResultAbsent {
			continue
		}
		exam := examByID[r.ExamID]
		course, err := courseOfOffering(ctx, c, exam.OfferingID)
		if err != nil {
			return nil, err
		}
		if course == nil {
			continue
		}
		row, ok := byCourse[course.ID]
		if !ok {
			row = &dto.CoursePassRate{CourseID: course.ID, CourseCode: course.Code, CourseName: course.Name}
			byCourse[course.ID] = row
		}
		row.PresentCount++
		if r.Passed(exam.MaxMarks) {
			row.PassCount++
		}
	}

	for _, row := range byCourse {
		row.PassRate = helpers.Percent(float64(row.PassCount), float64(row.PresentCount))
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CourseCode < rows[j].CourseCode })
	return rows, nil
}

func (s *DashboardService) attendanceByCourse(ctx context.Context, repos *repositories.Repositories) ([]dto.CourseAttendanceRate, error) {
	sessions, err := repos.Attendance.ListSessions(ctx, repositories.SessionFilter{})
	if err != nil {
		return nil, err
	}
	rows := []dto.CourseAttendanceRate{}
	if len(sessions) == 0 {
		return rows, nil
	}
	offeringBySession := make(map[string]string, len(sessions))
	sessionIDs := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		offeringBySession[sess.ID] = sess.OfferingID
		sessionIDs = append(sessionIDs, sess.ID)
	}

	records, err := repos.Attendance.ListRecords(ctx, repositories.RecordFilter{SessionIDs: sessionIDs})
	if err != nil {
		return nil, err
	}

	c := newComposer(repos)
	byCourse := make(map[string]*dto.CourseAttendanceRate)
	for _, r := range records {
		course, err := courseOfOffering(ctx, c, offeringBySession[r.SessionID])
		if err != nil {
			return nil, err
		}
		if course == nil {
			continue
		}
		row, ok := byCourse[course.ID]
		if !ok {
			row = &dto.CourseAttendanceRate{CourseID: course.ID, CourseCode: course.Code, CourseName: course.Name}
			byCourse[course.ID] = row
		}
		row.TotalCount++
		if r.Status == models.AttendancePresent {
			row.PresentCount++
		}
	}

	for _, row := range byCourse {
		row.AttendanceRate = helpers.Percent(float64(row.PresentCount), float64(row.TotalCount))
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CourseCode < rows[j].CourseCode })
	return rows, nil
}

// liveCourses loads the caller's student profile and live enrollments with
// offerings composed
func (s *DashboardService) liveCourses(ctx context.Context, repos *repositories.Repositories, p *auth.Principal) (*models.Student, []*models.Enrollment, error) {
	student, err := studentOf(ctx, repos, p)
	if err != nil {
		return nil, nil, err
	}
	c := newComposer(repos)
	if err := c.studentProfiles(ctx, student); err != nil {
		return nil, nil, err
	}
	enrollments, err := repos.Enrollments.List(ctx, repositories.EnrollmentFilter{StudentID: student.ID})
	if err != nil {
		return nil, nil, err
	}
	if err := c.enrollmentDetails(ctx, false, enrollments...); err != nil {
		return nil, nil, err
	}
	return student, enrollments, nil
}

func courseOfOffering(ctx context.Context, c *composer, offeringID string) (*models.Course, error) {
	offering, err := lookup(ctx, c.offerings, offeringID, c.repos.Offerings.GetByID)
	if err != nil || offering == nil {
		return nil, err
	}
	if offering.Course == nil {
		if offering.Course, err = c.course(ctx, offering.CourseID); err != nil {
			return nil, err
		}
	}
	return offering.Course, nil
}

func courseRef(o *models.CourseOffering) dto.CourseRef {
	if o == nil || o.Course == nil {
		return dto.CourseRef{}
	}
	return dto.CourseRef{ID: o.Course.ID, Code: o.Course.Code, Name: o.Course.Name}
}

func semesterRef(o *models.CourseOffering) dto.SemesterRef {
	if o == nil || o.Semester == nil {
		return dto.SemesterRef{}
	}
	return dto.SemesterRef{ID: o.Semester.ID, Name: o.Semester.Name}
}
