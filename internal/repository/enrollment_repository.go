package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maplewood/course-scheduler/internal/enroll"
	"github.com/maplewood/course-scheduler/internal/schedule"
)

// EnrollmentRepo is the SQL implementation of enroll.TxStore. The capacity
// read locks the section row (SELECT ... FOR UPDATE) so concurrent
// enrollments targeting the same section serialize around the capacity
// check-then-insert and can never overbook.
type EnrollmentRepo struct {
	db *sql.DB
	q  dbtx
}

// NewEnrollmentRepo returns an EnrollmentRepo bound to the given database.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db, q: db}
}

// Transact runs fn against a transactional view of the repository.
func (r *EnrollmentRepo) Transact(ctx context.Context, fn func(enroll.Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&EnrollmentRepo{db: r.db, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SectionContext loads the target section's semester and its course's
// prerequisite. Unknown sections map to schedule.ErrNotFound.
func (r *EnrollmentRepo) SectionContext(ctx context.Context, sectionID int64) (enroll.SectionContext, error) {
	const q = `SELECT s.id, s.semester_id, c.id, c.code, c.prerequisite_id
	           FROM sections s
	           JOIN courses c ON c.id = s.course_id
	           WHERE s.id = ?`
	var sc enroll.SectionContext
	var prereq sql.NullInt64
	err := r.q.QueryRowContext(ctx, q, sectionID).Scan(
		&sc.SectionID, &sc.SemesterID, &sc.CourseID, &sc.CourseCode, &prereq)
	if errors.Is(err, sql.ErrNoRows) {
		return enroll.SectionContext{}, fmt.Errorf("section %d: %w", sectionID, schedule.ErrNotFound)
	}
	if err != nil {
		return enroll.SectionContext{}, err
	}
	if prereq.Valid {
		id := prereq.Int64
		sc.PrerequisiteID = &id
	}
	return sc, nil
}

// StudentExists reports whether the student id is known.
func (r *EnrollmentRepo) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx, `SELECT 1 FROM students WHERE id = ?`, studentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasPassedCourse reports whether the student has a passed history record
// for the course.
func (r *EnrollmentRepo) HasPassedCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM student_course_history
	           WHERE student_id = ? AND course_id = ? AND status = 'passed'`
	var count int
	if err := r.q.QueryRowContext(ctx, q, studentID, courseID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountEnrollments returns the student's current enrollment count for a
// semester.
func (r *EnrollmentRepo) CountEnrollments(ctx context.Context, studentID, semesterID int64) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM student_enrollments se
	           JOIN sections s ON s.id = se.section_id
	           WHERE se.student_id = ? AND s.semester_id = ?`
	var count int
	if err := r.q.QueryRowContext(ctx, q, studentID, semesterID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SectionMeetings returns the target section's weekly meetings.
func (r *EnrollmentRepo) SectionMeetings(ctx context.Context, sectionID int64) ([]schedule.TimeSlot, error) {
	const q = `SELECT day_of_week, start_time, duration_minutes
	           FROM section_meetings
	           WHERE section_id = ?
	           ORDER BY day_of_week, start_time`
	return querySlots(ctx, r.q, q, sectionID)
}

// StudentMeetings returns every meeting of every section the student is
// already enrolled in for the semester.
func (r *EnrollmentRepo) StudentMeetings(ctx context.Context, studentID, semesterID int64) ([]schedule.TimeSlot, error) {
	const q = `SELECT m.day_of_week, m.start_time, m.duration_minutes
	           FROM student_enrollments se
	           JOIN sections s ON s.id = se.section_id
	           JOIN section_meetings m ON m.section_id = se.section_id
	           WHERE se.student_id = ? AND s.semester_id = ?
	           ORDER BY m.day_of_week, m.start_time`
	return querySlots(ctx, r.q, q, studentID, semesterID)
}

// SectionSeats returns capacity and current enrolled count. Inside a
// transaction the FOR UPDATE lock holds until commit, serializing competing
// enrollments for the section.
func (r *EnrollmentRepo) SectionSeats(ctx context.Context, sectionID int64) (int, int, error) {
	const q = `SELECT capacity,
	                  (SELECT COUNT(*) FROM student_enrollments se WHERE se.section_id = sections.id)
	           FROM sections
	           WHERE id = ?
	           FOR UPDATE`
	var capacity, enrolled int
	err := r.q.QueryRowContext(ctx, q, sectionID).Scan(&capacity, &enrolled)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("section %d: %w", sectionID, schedule.ErrNotFound)
	}
	if err != nil {
		return 0, 0, err
	}
	return capacity, enrolled, nil
}

// InsertEnrollment records the enrollment. Enrollments are insert-only.
func (r *EnrollmentRepo) InsertEnrollment(ctx context.Context, studentID, sectionID int64) error {
	const q = `INSERT INTO student_enrollments (student_id, section_id) VALUES (?, ?)`
	_, err := r.q.ExecContext(ctx, q, studentID, sectionID)
	return err
}
