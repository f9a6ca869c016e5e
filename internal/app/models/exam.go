package models

import "time"

// PassFraction is the share of max marks needed to pass
const PassFraction = 0.4

// Exam is an assessment of an offering
type Exam struct {
	ID         string    `json:"id" db:"id"`
	OfferingID string    `json:"offeringId" db:"offering_id"`
	Title      string    `json:"title" db:"title" example:"Midterm 1"`
	Type       ExamType  `json:"type" db:"type" example:"MIDTERM"`
	ExamDate   time.Time `json:"examDate" db:"exam_date"`
	MaxMarks   float64   `json:"maxMarks" db:"max_marks" example:"100"`
	Weightage  float64   `json:"weightage" db:"weightage" example:"30"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`

	Offering *CourseOffering `json:"offering,omitempty"`
}

// ExamResult is the outcome of one enrollment in one exam
type ExamResult struct {
	ID           string       `json:"id" db:"id"`
	ExamID       string       `json:"examId" db:"exam_id"`
	EnrollmentID string       `json:"enrollmentId" db:"enrollment_id"`
	StudentID    string       `json:"studentId" db:"student_id"`
	Marks        float64      `json:"marks" db:"marks" example:"72.5"`
	Grade        string       `json:"grade,omitempty" db:"grade" example:"B+"`
	Status       ResultStatus `json:"status" db:"status" example:"PRESENT"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`

	Enrollment *Enrollment `json:"enrollment,omitempty"`
}

// Passed applies the pass rule against the exam's max marks
func (r *ExamResult) Passed(maxMarks float64) bool {
	if r.Status == ResultAbsent {
		return false
	}
	return r.Marks >= maxMarks*PassFraction
}
