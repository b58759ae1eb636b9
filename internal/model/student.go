package model

import "github.com/maplewood/course-scheduler/internal/schedule"

// StudentProgress aggregates a student's academic history: counts, credits
// and a simple 4.0-scale GPA, plus a graduation outlook derived from the 30
// credit graduation requirement.
type StudentProgress struct {
	StudentID              int64   `json:"student_id"`
	FirstName              string  `json:"first_name"`
	LastName               string  `json:"last_name"`
	GradeLevel             int     `json:"grade_level"`
	CoursesTaken           int     `json:"courses_taken"`
	CoursesPassed          int     `json:"courses_passed"`
	CreditsEarned          float64 `json:"credits_earned"`
	GPA                    float64 `json:"gpa"`
	CreditsRequired        float64 `json:"credits_required"`
	CreditsRemaining       float64 `json:"credits_remaining"`
	ExpectedGraduationYear int     `json:"expected_graduation_year"`
	OnTrackToGraduate      bool    `json:"on_track_to_graduate"`
	GraduationStatus       string  `json:"graduation_status"`
}

// EnrolledSection is one section on a student's personal schedule.
type EnrolledSection struct {
	SectionID     int64                  `json:"section_id"`
	CourseCode    string                 `json:"course_code"`
	CourseName    string                 `json:"course_name"`
	SectionNumber int                    `json:"section_number"`
	TeacherName   string                 `json:"teacher_name"`
	RoomName      string                 `json:"room_name"`
	Credits       int                    `json:"credits"`
	Meetings      []schedule.MeetingView `json:"meetings"`
	Capacity      int                    `json:"capacity"`
	Enrolled      int                    `json:"enrolled"`
	Available     int                    `json:"available"`
}

// StudentSchedule is a student's view of one semester.
type StudentSchedule struct {
	StudentID    int64             `json:"student_id"`
	StudentName  string            `json:"student_name"`
	SemesterID   int64             `json:"semester_id"`
	SemesterName string            `json:"semester_name"`
	Sections     []EnrolledSection `json:"sections"`
}

// AvailableSection is a semester section annotated with one student's
// eligibility. The annotation applies the same checks as the enrollment
// validator but in advisory, read-only form.
type AvailableSection struct {
	SectionID          int64                  `json:"section_id"`
	CourseCode         string                 `json:"course_code"`
	CourseName         string                 `json:"course_name"`
	SectionNumber      int                    `json:"section_number"`
	TeacherName        string                 `json:"teacher_name"`
	RoomName           string                 `json:"room_name"`
	Credits            int                    `json:"credits"`
	HoursPerWeek       int                    `json:"hours_per_week"`
	Meetings           []schedule.MeetingView `json:"meetings"`
	Capacity           int                    `json:"capacity"`
	Enrolled           int                    `json:"enrolled"`
	Available          int                    `json:"available"`
	CanEnroll          bool                   `json:"can_enroll"`
	EnrollmentStatus   string                 `json:"enrollment_status"`
	StatusMessage      string                 `json:"status_message"`
	PrerequisiteCourse *string                `json:"prerequisite_course,omitempty"`
	GradeLevelMin      int                    `json:"grade_level_min"`
	Specialization     string                 `json:"specialization"`
}
