package models

// RoleName is the closed set of roles a user can hold
type RoleName string

const (
	RoleSuperAdmin       RoleName = "SUPER_ADMIN"
	RoleAdmin            RoleName = "ADMIN"
	RoleFaculty          RoleName = "FACULTY"
	RoleStudent          RoleName = "STUDENT"
	RoleExamCell         RoleName = "EXAM_CELL"
	RoleAdmissionOfficer RoleName = "ADMISSION_OFFICER"
)

// AllRoles lists every role, in seeding order
var AllRoles = []RoleName{
	RoleSuperAdmin,
	RoleAdmin,
	RoleFaculty,
	RoleStudent,
	RoleExamCell,
	RoleAdmissionOfficer,
}

func (r RoleName) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role administers the institute
func (r RoleName) IsStaff() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

type StudentStatus string

const (
	StudentActive    StudentStatus = "ACTIVE"
	StudentPassedOut StudentStatus = "PASSED_OUT"
	StudentDropped   StudentStatus = "DROPPED"
)

func (s StudentStatus) Valid() bool {
	return s == StudentActive || s == StudentPassedOut || s == StudentDropped
}

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

// Live reports whether the enrollment still counts toward the offering
func (s EnrollmentStatus) Live() bool {
	return s != EnrollmentDropped
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

type SessionMode string

const (
	SessionOffline SessionMode = "OFFLINE"
	SessionOnline  SessionMode = "ONLINE"
)

func (m SessionMode) Valid() bool {
	return m == SessionOffline || m == SessionOnline
}

type ExamType string

const (
	ExamInternal  ExamType = "INTERNAL"
	ExamMidterm   ExamType = "MIDTERM"
	ExamFinal     ExamType = "FINAL"
	ExamQuiz      ExamType = "QUIZ"
	ExamPractical ExamType = "PRACTICAL"
	ExamOther     ExamType = "OTHER"
)

func (t ExamType) Valid() bool {
	switch t {
	case ExamInternal, ExamMidterm, ExamFinal, ExamQuiz, ExamPractical, ExamOther:
		return true
	}
	return false
}

type ResultStatus string

const (
	ResultPresent ResultStatus = "PRESENT"
	ResultAbsent  ResultStatus = "ABSENT"
)

func (s ResultStatus) Valid() bool {
	return s == ResultPresent || s == ResultAbsent
}

type AdmissionStatus string

const (
	AdmissionPending  AdmissionStatus = "PENDING"
	AdmissionApproved AdmissionStatus = "APPROVED"
	AdmissionRejected AdmissionStatus = "REJECTED"
)

func (s AdmissionStatus) Valid() bool {
	return s == AdmissionPending || s == AdmissionApproved || s == AdmissionRejected
}

type CourseType string

const (
	CourseCore     CourseType = "CORE"
	CourseElective CourseType = "ELECTIVE"
	CourseLab      CourseType = "LAB"
)

func (t CourseType) Valid() bool {
	return t == CourseCore || t == CourseElective || t == CourseLab
}

type ProgramLevel string

const (
	LevelUG      ProgramLevel = "UG"
	LevelPG      ProgramLevel = "PG"
	LevelDiploma ProgramLevel = "DIPLOMA"
	LevelOther   ProgramLevel = "OTHER"
)

func (l ProgramLevel) Valid() bool {
	switch l {
	case LevelUG, LevelPG, LevelDiploma, LevelOther:
		return true
	}
	return false
}

// Weekday is a schedule day, MON through SUN
type Weekday string

var weekdays = map[Weekday]struct{}{
	"MON": {}, "TUE": {}, "WED": {}, "THU": {}, "FRI": {}, "SAT": {}, "SUN": {},
}

func (d Weekday) Valid() bool {
	_, ok := weekdays[d]
	return ok
}
