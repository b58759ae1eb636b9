package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maplewood/course-scheduler/internal/enroll"
	"github.com/maplewood/course-scheduler/internal/model"
	"github.com/maplewood/course-scheduler/internal/schedule"
)

// creditsRequired is the graduation requirement: 30 credits over four years,
// roughly 7.5 per year.
const creditsRequired = 30.0

// StudentRepo serves the student-facing read views: progress, the personal
// semester schedule and the eligibility-annotated section list. These are
// pure aggregation over persisted state; the scheduling core is not
// involved.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo returns a StudentRepo bound to the given database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

// Progress aggregates a student's course history into credits, GPA and a
// graduation outlook.
func (r *StudentRepo) Progress(ctx context.Context, studentID int64) (model.StudentProgress, error) {
	const q = `SELECT s.id, s.first_name, s.last_name, s.grade_level,
	                  COUNT(h.course_id),
	                  COALESCE(SUM(CASE WHEN h.status = 'passed' THEN 1 ELSE 0 END), 0),
	                  COALESCE(SUM(CASE WHEN h.status = 'passed' THEN c.credits ELSE 0 END), 0),
	                  COALESCE(SUM(CASE WHEN h.status IS NOT NULL THEN c.credits ELSE 0 END), 0)
	           FROM students s
	           LEFT JOIN student_course_history h ON h.student_id = s.id
	           LEFT JOIN courses c ON c.id = h.course_id
	           WHERE s.id = ?
	           GROUP BY s.id, s.first_name, s.last_name, s.grade_level`
	var p model.StudentProgress
	var creditsAttempted float64
	err := r.db.QueryRowContext(ctx, q, studentID).Scan(
		&p.StudentID, &p.FirstName, &p.LastName, &p.GradeLevel,
		&p.CoursesTaken, &p.CoursesPassed, &p.CreditsEarned, &creditsAttempted)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StudentProgress{}, fmt.Errorf("student %d: %w", studentID, schedule.ErrNotFound)
	}
	if err != nil {
		return model.StudentProgress{}, err
	}

	if creditsAttempted > 0 {
		p.GPA = roundTo(p.CreditsEarned/creditsAttempted*4.0, 2)
	}
	p.CreditsRequired = creditsRequired
	p.CreditsRemaining = creditsRequired - p.CreditsEarned
	if p.CreditsRemaining < 0 {
		p.CreditsRemaining = 0
	}
	p.ExpectedGraduationYear = 2024 + (12 - p.GradeLevel) + 1
	p.OnTrackToGraduate = p.CreditsEarned >= float64(p.GradeLevel-9+1)*7.5
	switch {
	case p.CreditsEarned >= creditsRequired:
		p.GraduationStatus = "Graduated"
	case p.OnTrackToGraduate:
		p.GraduationStatus = "On Track"
	default:
		p.GraduationStatus = "At Risk"
	}
	return p, nil
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	if v >= 0 {
		return float64(int64(v*scale+0.5)) / scale
	}
	return float64(int64(v*scale-0.5)) / scale
}

// Schedule returns the sections the student is enrolled in for a semester,
// with meetings and seat counts.
func (r *StudentRepo) Schedule(ctx context.Context, studentID, semesterID int64) (model.StudentSchedule, error) {
	const headQ = `SELECT CONCAT(s.first_name, ' ', s.last_name), sem.name
	               FROM students s, semesters sem
	               WHERE s.id = ? AND sem.id = ?`
	out := model.StudentSchedule{StudentID: studentID, SemesterID: semesterID}
	err := r.db.QueryRowContext(ctx, headQ, studentID, semesterID).Scan(&out.StudentName, &out.SemesterName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StudentSchedule{}, fmt.Errorf("student %d or semester %d: %w", studentID, semesterID, schedule.ErrNotFound)
	}
	if err != nil {
		return model.StudentSchedule{}, err
	}

	const q = `SELECT se.section_id, c.code, c.name, sec.section_number,
	                  CONCAT(t.first_name, ' ', t.last_name), cl.name, c.credits, sec.capacity,
	                  (SELECT COUNT(*) FROM student_enrollments se2 WHERE se2.section_id = sec.id)
	           FROM student_enrollments se
	           JOIN sections sec ON sec.id = se.section_id
	           JOIN courses c ON c.id = sec.course_id
	           JOIN teachers t ON t.id = sec.teacher_id
	           JOIN classrooms cl ON cl.id = sec.room_id
	           WHERE se.student_id = ? AND sec.semester_id = ?
	           ORDER BY c.code, sec.section_number`
	rows, err := r.db.QueryContext(ctx, q, studentID, semesterID)
	if err != nil {
		return model.StudentSchedule{}, err
	}
	defer rows.Close()
	out.Sections = make([]model.EnrolledSection, 0)
	for rows.Next() {
		var sec model.EnrolledSection
		if err := rows.Scan(&sec.SectionID, &sec.CourseCode, &sec.CourseName, &sec.SectionNumber,
			&sec.TeacherName, &sec.RoomName, &sec.Credits, &sec.Capacity, &sec.Enrolled); err != nil {
			return model.StudentSchedule{}, err
		}
		sec.Available = sec.Capacity - sec.Enrolled
		out.Sections = append(out.Sections, sec)
	}
	if err := rows.Err(); err != nil {
		return model.StudentSchedule{}, err
	}
	for i := range out.Sections {
		meetings, err := r.sectionMeetingViews(ctx, out.Sections[i].SectionID)
		if err != nil {
			return model.StudentSchedule{}, err
		}
		out.Sections[i].Meetings = meetings
	}
	return out, nil
}

// AvailableSections lists every section of the semester annotated with the
// student's eligibility. The annotation mirrors the validator's checks
// (prerequisite, semester limit, capacity) in read-only form; the
// authoritative answer is still the enroll pipeline.
func (r *StudentRepo) AvailableSections(ctx context.Context, enrollStore enroll.Store, studentID, semesterID int64) ([]model.AvailableSection, error) {
	const q = `SELECT sec.id, c.code, c.name, sec.section_number,
	                  CONCAT(t.first_name, ' ', t.last_name), cl.name,
	                  c.credits, c.hours_per_week, sec.capacity,
	                  (SELECT COUNT(*) FROM student_enrollments se WHERE se.section_id = sec.id),
	                  c.prerequisite_id, prereq.code, c.grade_level_min, sp.name
	           FROM sections sec
	           JOIN courses c ON c.id = sec.course_id
	           JOIN teachers t ON t.id = sec.teacher_id
	           JOIN classrooms cl ON cl.id = sec.room_id
	           JOIN specializations sp ON sp.id = c.specialization_id
	           LEFT JOIN courses prereq ON prereq.id = c.prerequisite_id
	           WHERE sec.semester_id = ?
	           ORDER BY c.code, sec.section_number`
	rows, err := r.db.QueryContext(ctx, q, semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type prereqInfo struct {
		id   *int64
		code *string
	}
	sections := make([]model.AvailableSection, 0)
	prereqs := make([]prereqInfo, 0)
	for rows.Next() {
		var sec model.AvailableSection
		var prereqID sql.NullInt64
		var prereqCode sql.NullString
		if err := rows.Scan(&sec.SectionID, &sec.CourseCode, &sec.CourseName, &sec.SectionNumber,
			&sec.TeacherName, &sec.RoomName, &sec.Credits, &sec.HoursPerWeek, &sec.Capacity,
			&sec.Enrolled, &prereqID, &prereqCode, &sec.GradeLevelMin, &sec.Specialization); err != nil {
			return nil, err
		}
		sec.Available = sec.Capacity - sec.Enrolled
		var info prereqInfo
		if prereqID.Valid {
			id := prereqID.Int64
			info.id = &id
		}
		if prereqCode.Valid {
			code := prereqCode.String
			info.code = &code
			sec.PrerequisiteCourse = &code
		}
		sections = append(sections, sec)
		prereqs = append(prereqs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	count, err := enrollStore.CountEnrollments(ctx, studentID, semesterID)
	if err != nil {
		return nil, err
	}
	atLimit := count >= enroll.MaxCoursesPerSemester

	for i := range sections {
		sec := &sections[i]
		meetings, err := r.sectionMeetingViews(ctx, sec.SectionID)
		if err != nil {
			return nil, err
		}
		sec.Meetings = meetings

		sec.CanEnroll = true
		sec.EnrollmentStatus = "available"
		sec.StatusMessage = "Available for enrollment"
		if prereqs[i].id != nil {
			passed, err := enrollStore.HasPassedCourse(ctx, studentID, *prereqs[i].id)
			if err != nil {
				return nil, err
			}
			if !passed {
				sec.CanEnroll = false
				sec.EnrollmentStatus = string(enroll.ReasonPrerequisiteMissing)
				sec.StatusMessage = "Prerequisite required: " + *prereqs[i].code
				continue
			}
		}
		if sec.Enrolled >= sec.Capacity {
			sec.CanEnroll = false
			sec.EnrollmentStatus = string(enroll.ReasonSectionFull)
			sec.StatusMessage = "Section is full"
			continue
		}
		if atLimit {
			sec.CanEnroll = false
			sec.EnrollmentStatus = string(enroll.ReasonSemesterLimitReached)
			sec.StatusMessage = fmt.Sprintf("Maximum %d courses per semester reached", enroll.MaxCoursesPerSemester)
		}
	}
	return sections, nil
}

func (r *StudentRepo) sectionMeetingViews(ctx context.Context, sectionID int64) ([]schedule.MeetingView, error) {
	const q = `SELECT day_of_week, start_time, duration_minutes
	           FROM section_meetings
	           WHERE section_id = ?
	           ORDER BY day_of_week, start_time`
	slots, err := querySlots(ctx, r.db, q, sectionID)
	if err != nil {
		return nil, err
	}
	views := make([]schedule.MeetingView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, schedule.MeetingView{
			Day:      slot.Day,
			Start:    schedule.FormatClock(slot.Start),
			Duration: slot.Duration,
		})
	}
	return views, nil
}
