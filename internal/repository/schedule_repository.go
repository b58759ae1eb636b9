package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maplewood/course-scheduler/internal/schedule"
)

// ScheduleRepo is the SQL implementation of schedule.TxStore: catalog
// lookups, the clear-then-rebuild mutations and the read-side section and
// meeting queries.
type ScheduleRepo struct {
	db *sql.DB
	q  dbtx
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db, q: db}
}

// Transact runs fn against a transactional view of the repository. The
// transaction commits when fn returns nil and rolls back otherwise, which is
// what makes semester regeneration all-or-nothing.
func (r *ScheduleRepo) Transact(ctx context.Context, fn func(schedule.Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&ScheduleRepo{db: r.db, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SemesterOrder resolves a semester id to its order within the academic
// year. Unknown ids map to schedule.ErrNotFound.
func (r *ScheduleRepo) SemesterOrder(ctx context.Context, semesterID int64) (int, error) {
	var order int
	err := r.q.QueryRowContext(ctx,
		`SELECT order_in_year FROM semesters WHERE id = ?`, semesterID).Scan(&order)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("semester %d: %w", semesterID, schedule.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return order, nil
}

// CoursesForSemesterOrder loads the courses offered in semesters with the
// given order, sorted by code for deterministic allocation order.
func (r *ScheduleRepo) CoursesForSemesterOrder(ctx context.Context, order int) ([]schedule.Course, error) {
	const q = `SELECT id, code, name, credits, hours_per_week, specialization_id,
	                  prerequisite_id, semester_order, grade_level_min, grade_level_max
	           FROM courses
	           WHERE semester_order = ?
	           ORDER BY code`
	rows, err := r.q.QueryContext(ctx, q, order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var courses []schedule.Course
	for rows.Next() {
		var c schedule.Course
		var prereq sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Credits, &c.HoursPerWeek,
			&c.SpecializationID, &prereq, &c.SemesterOrder, &c.GradeLevelMin, &c.GradeLevelMax); err != nil {
			return nil, err
		}
		if prereq.Valid {
			id := prereq.Int64
			c.PrerequisiteID = &id
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// TeachersBySpecialization returns the teachers compatible with a
// specialization, ordered by last name.
func (r *ScheduleRepo) TeachersBySpecialization(ctx context.Context, specializationID int64) ([]schedule.Teacher, error) {
	const q = `SELECT id, first_name, last_name, specialization_id, max_daily_hours
	           FROM teachers
	           WHERE specialization_id = ?
	           ORDER BY last_name, first_name`
	rows, err := r.q.QueryContext(ctx, q, specializationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var teachers []schedule.Teacher
	for rows.Next() {
		var t schedule.Teacher
		if err := rows.Scan(&t.ID, &t.FirstName, &t.LastName, &t.SpecializationID, &t.MaxDailyHours); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// RoomsBySpecialization returns the candidate rooms for a specialization via
// its room type, ordered by name. The join documents the intended room-type
// link; compatibility itself is not enforced by the core.
func (r *ScheduleRepo) RoomsBySpecialization(ctx context.Context, specializationID int64) ([]schedule.Classroom, error) {
	const q = `SELECT c.id, c.name, c.room_type_id, c.capacity
	           FROM classrooms c
	           JOIN specializations s ON s.room_type_id = c.room_type_id
	           WHERE s.id = ?
	           ORDER BY c.name`
	rows, err := r.q.QueryContext(ctx, q, specializationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rooms []schedule.Classroom
	for rows.Next() {
		var room schedule.Classroom
		if err := rows.Scan(&room.ID, &room.Name, &room.RoomTypeID, &room.Capacity); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// ClearSchedule deletes the semester's meetings, enrollments and sections in
// dependency order.
func (r *ScheduleRepo) ClearSchedule(ctx context.Context, semesterID int64) error {
	statements := []string{
		`DELETE FROM section_meetings WHERE section_id IN (SELECT id FROM sections WHERE semester_id = ?)`,
		`DELETE FROM student_enrollments WHERE section_id IN (SELECT id FROM sections WHERE semester_id = ?)`,
		`DELETE FROM sections WHERE semester_id = ?`,
	}
	for _, stmt := range statements {
		if _, err := r.q.ExecContext(ctx, stmt, semesterID); err != nil {
			return err
		}
	}
	return nil
}

// CreateSection inserts a section and returns its generated id.
func (r *ScheduleRepo) CreateSection(ctx context.Context, sec schedule.NewSection) (int64, error) {
	const q = `INSERT INTO sections (course_id, teacher_id, room_id, semester_id, section_number, capacity)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, sec.CourseID, sec.TeacherID, sec.RoomID,
		sec.SemesterID, sec.SectionNumber, sec.Capacity)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateMeeting inserts one weekly meeting for a section. Start times are
// written as 'HH:MM' text.
func (r *ScheduleRepo) CreateMeeting(ctx context.Context, sectionID int64, slot schedule.TimeSlot) error {
	const q = `INSERT INTO section_meetings (section_id, day_of_week, start_time, duration_minutes)
	           VALUES (?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, q, sectionID, slot.Day, schedule.FormatClock(slot.Start), slot.Duration)
	return err
}

// SectionsForSemester returns the semester's committed sections with joined
// display names and enrolled counts, ordered by course code then section
// number.
func (r *ScheduleRepo) SectionsForSemester(ctx context.Context, semesterID int64) ([]schedule.SectionView, error) {
	const q = `SELECT s.id, c.code, c.name, s.section_number,
	                  s.teacher_id, CONCAT(t.first_name, ' ', t.last_name),
	                  s.room_id, r.name, s.capacity,
	                  (SELECT COUNT(*) FROM student_enrollments se WHERE se.section_id = s.id)
	           FROM sections s
	           JOIN courses c ON c.id = s.course_id
	           JOIN teachers t ON t.id = s.teacher_id
	           JOIN classrooms r ON r.id = s.room_id
	           WHERE s.semester_id = ?
	           ORDER BY c.code, s.section_number`
	rows, err := r.q.QueryContext(ctx, q, semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sections []schedule.SectionView
	for rows.Next() {
		var sec schedule.SectionView
		if err := rows.Scan(&sec.SectionID, &sec.CourseCode, &sec.CourseName, &sec.SectionNumber,
			&sec.TeacherID, &sec.TeacherName, &sec.RoomID, &sec.RoomName, &sec.Capacity, &sec.Enrolled); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// MeetingsForSection returns a section's meetings as time slots, ordered by
// day then start time.
func (r *ScheduleRepo) MeetingsForSection(ctx context.Context, sectionID int64) ([]schedule.TimeSlot, error) {
	const q = `SELECT day_of_week, start_time, duration_minutes
	           FROM section_meetings
	           WHERE section_id = ?
	           ORDER BY day_of_week, start_time`
	return querySlots(ctx, r.q, q, sectionID)
}

// querySlots scans (day_of_week, start_time, duration_minutes) rows into
// time slots, converting 'HH:MM' back to minutes.
func querySlots(ctx context.Context, q dbtx, query string, args ...any) ([]schedule.TimeSlot, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []schedule.TimeSlot
	for rows.Next() {
		var day, duration int
		var start string
		if err := rows.Scan(&day, &start, &duration); err != nil {
			return nil, err
		}
		minutes, err := schedule.ParseClock(start)
		if err != nil {
			return nil, err
		}
		slots = append(slots, schedule.TimeSlot{Day: day, Start: minutes, Duration: duration})
	}
	return slots, rows.Err()
}
