// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// EnrollmentConfirmedEvent is published after an enrollment commits. It
// carries enough context for downstream consumers to log or notify without
// querying the primary database.
type EnrollmentConfirmedEvent struct {
	StudentID     int64  `json:"student_id"`
	SectionID     int64  `json:"section_id"`
	CourseCode    string `json:"course_code"`
	SemesterID    int64  `json:"semester_id"`
	EnrolledCount int    `json:"enrolled_count"`
	Capacity      int    `json:"capacity"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// ScheduleGeneratedEvent is published after a semester schedule is
// regenerated and committed.
type ScheduleGeneratedEvent struct {
	SemesterID     int64  `json:"semester_id"`
	TotalSections  int    `json:"total_sections"`
	UniqueTeachers int    `json:"unique_teachers"`
	UniqueRooms    int    `json:"unique_rooms"`
	GeneratedAt    string `json:"generated_at"`
}
