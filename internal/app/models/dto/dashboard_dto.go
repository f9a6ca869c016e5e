package dto

import (
	"time"

	"github.com/yigit/iams/internal/app/models"
)

type CourseRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type SemesterRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AttendanceSummary struct {
	TotalSessions     int `json:"totalSessions"`
	PresentCount      int `json:"presentCount"`
	OverallAttendance int `json:"overallAttendance"`
}

type StudentDashboard struct {
	Student           *models.Student      `json:"student"`
	Enrollments       []*models.Enrollment `json:"enrollments"`
	UpcomingExams     []*models.Exam       `json:"upcomingExams"`
	AttendanceSummary AttendanceSummary    `json:"attendanceSummary"`
}

// ExamDetail is one exam of a course with the caller's result, if any
type ExamDetail struct {
	ExamID    string               `json:"examId"`
	Title     string               `json:"title"`
	Type      models.ExamType      `json:"type"`
	ExamDate  time.Time            `json:"examDate"`
	MaxMarks  float64              `json:"maxMarks"`
	Weightage float64              `json:"weightage"`
	Marks     *float64             `json:"marks"`
	Grade     *string              `json:"grade"`
	Status    *models.ResultStatus `json:"status"`
}

type CourseExamSummary struct {
	EnrollmentID string       `json:"enrollmentId"`
	Course       CourseRef    `json:"course"`
	Semester     SemesterRef  `json:"semester"`
	Exams        []ExamDetail `json:"exams"`
	TotalMarks   float64      `json:"totalMarks"`
	TotalMax     float64      `json:"totalMax"`
	Percentage   *int         `json:"percentage"`
}

type StudentExams struct {
	Student *models.Student     `json:"student"`
	Courses []CourseExamSummary `json:"courses"`
}

type AttendanceCount struct {
	PresentCount int  `json:"presentCount"`
	TotalCount   int  `json:"totalCount"`
	Percentage   *int `json:"percentage"`
}

type CourseAttendanceSummary struct {
	EnrollmentID string          `json:"enrollmentId"`
	Course       CourseRef       `json:"course"`
	Attendance   AttendanceCount `json:"attendance"`
}

type StudentAttendance struct {
	Student *models.Student           `json:"student"`
	Courses []CourseAttendanceSummary `json:"courses"`
}

type FacultyDashboard struct {
	Faculty       *models.Faculty             `json:"faculty"`
	Offerings     []*models.CourseOffering    `json:"offerings"`
	TodaySessions []*models.AttendanceSession `json:"todaySessions"`
	UpcomingExams []*models.Exam              `json:"upcomingExams"`
}

type AdminStats struct {
	PendingApplications int `json:"pendingApplications"`
	TotalStudents       int `json:"totalStudents"`
	TotalFaculty        int `json:"totalFaculty"`
}

type AdminDashboard struct {
	Stats              AdminStats                     `json:"stats"`
	RecentApplications []*models.AdmissionApplication `json:"recentApplications"`
}

// MonthBucket counts the applications submitted in one calendar month
type MonthBucket struct {
	MonthKey string `json:"monthKey" example:"2025-03"`
	Label    string `json:"label" example:"Mar 2025"`
	Total    int    `json:"total"`
	Approved int    `json:"approved"`
	Rejected int    `json:"rejected"`
	Pending  int    `json:"pending"`
}

type CoursePassRate struct {
	CourseID     string `json:"courseId"`
	CourseCode   string `json:"courseCode"`
	CourseName   string `json:"courseName"`
	PresentCount int    `json:"presentCount"`
	PassCount    int    `json:"passCount"`
	PassRate     *int   `json:"passRate"`
}

type CourseAttendanceRate struct {
	CourseID       string `json:"courseId"`
	CourseCode     string `json:"courseCode"`
	CourseName     string `json:"courseName"`
	PresentCount   int    `json:"presentCount"`
	TotalCount     int    `json:"totalCount"`
	AttendanceRate *int   `json:"attendanceRate"`
}

type AnalyticsOverview struct {
	AdmissionsByMonth  []MonthBucket          `json:"admissionsByMonth"`
	PassRateByCourse   []CoursePassRate       `json:"passRateByCourse"`
	AttendanceByCourse []CourseAttendanceRate `json:"attendanceByCourse"`
}
