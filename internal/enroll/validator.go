// Package enroll validates and commits single student enrollments against
// the schedule produced by the generation engine. Validation is a
// fixed-order, short-circuiting pipeline; a failed check is a typed outcome,
// never an error.
package enroll

import (
	"context"
	"fmt"

	"github.com/maplewood/course-scheduler/internal/schedule"
)

// MaxCoursesPerSemester caps a student's enrollments in one semester.
const MaxCoursesPerSemester = 5

// Reason identifies why an enrollment was rejected.
type Reason string

const (
	ReasonPrerequisiteMissing  Reason = "prerequisite_missing"
	ReasonSemesterLimitReached Reason = "semester_limit_reached"
	ReasonTimeConflict         Reason = "time_conflict"
	ReasonSectionFull          Reason = "section_full"
)

// Decision is the outcome of an enrollment attempt. Enrolled is true only
// when every check passed and the enrollment row was committed.
type Decision struct {
	Enrolled bool   `json:"enrolled"`
	Reason   Reason `json:"reason,omitempty"`
	Message  string `json:"message"`
}

func accepted() Decision {
	return Decision{Enrolled: true, Message: "successfully enrolled in section"}
}

func rejected(reason Reason, message string) Decision {
	return Decision{Enrolled: false, Reason: reason, Message: message}
}

// SectionContext is the target section's enrollment-relevant fields.
type SectionContext struct {
	SectionID      int64
	SemesterID     int64
	CourseID       int64
	CourseCode     string
	PrerequisiteID *int64
}

// Store is the storage collaborator for enrollment. Lookups for unknown ids
// return schedule.ErrNotFound (possibly wrapped). In the SQL implementation
// SectionSeats locks the section row so concurrent enrollments targeting the
// same section serialize around the capacity check-then-insert.
type Store interface {
	SectionContext(ctx context.Context, sectionID int64) (SectionContext, error)
	StudentExists(ctx context.Context, studentID int64) (bool, error)
	HasPassedCourse(ctx context.Context, studentID, courseID int64) (bool, error)
	CountEnrollments(ctx context.Context, studentID, semesterID int64) (int, error)
	SectionMeetings(ctx context.Context, sectionID int64) ([]schedule.TimeSlot, error)
	StudentMeetings(ctx context.Context, studentID, semesterID int64) ([]schedule.TimeSlot, error)
	SectionSeats(ctx context.Context, sectionID int64) (capacity, enrolled int, err error)
	InsertEnrollment(ctx context.Context, studentID, sectionID int64) error
}

// TxStore is a Store that can run a function against a transactional view of
// itself, giving every Enroll call a consistent snapshot.
type TxStore interface {
	Store
	Transact(ctx context.Context, fn func(Store) error) error
}

// Validator runs the enrollment pipeline.
type Validator struct {
	store TxStore
}

// NewValidator returns a validator backed by the given store.
func NewValidator(store TxStore) *Validator {
	return &Validator{store: store}
}

// Enroll checks, in order: prerequisite passed, semester load below the cap,
// no time conflict with the student's existing meetings, and free capacity
// in the target section. The first failed check rejects without evaluating
// the rest. On acceptance the enrollment is inserted within the same
// transaction that performed the checks.
func (v *Validator) Enroll(ctx context.Context, studentID, sectionID int64) (Decision, error) {
	var decision Decision
	err := v.store.Transact(ctx, func(tx Store) error {
		exists, err := tx.StudentExists(ctx, studentID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("student %d: %w", studentID, schedule.ErrNotFound)
		}
		section, err := tx.SectionContext(ctx, sectionID)
		if err != nil {
			return err
		}

		if section.PrerequisiteID != nil {
			passed, err := tx.HasPassedCourse(ctx, studentID, *section.PrerequisiteID)
			if err != nil {
				return err
			}
			if !passed {
				decision = rejected(ReasonPrerequisiteMissing, "prerequisite not satisfied")
				return nil
			}
		}

		count, err := tx.CountEnrollments(ctx, studentID, section.SemesterID)
		if err != nil {
			return err
		}
		if count >= MaxCoursesPerSemester {
			decision = rejected(ReasonSemesterLimitReached,
				fmt.Sprintf("maximum %d courses per semester reached", MaxCoursesPerSemester))
			return nil
		}

		target, err := tx.SectionMeetings(ctx, sectionID)
		if err != nil {
			return err
		}
		existing, err := tx.StudentMeetings(ctx, studentID, section.SemesterID)
		if err != nil {
			return err
		}
		for _, slot := range target {
			for _, held := range existing {
				if slot.Overlaps(held) {
					decision = rejected(ReasonTimeConflict,
						fmt.Sprintf("time conflict on day %d at %s", slot.Day, schedule.FormatClock(slot.Start)))
					return nil
				}
			}
		}

		capacity, enrolled, err := tx.SectionSeats(ctx, sectionID)
		if err != nil {
			return err
		}
		if enrolled >= capacity {
			decision = rejected(ReasonSectionFull, "section full")
			return nil
		}

		if err := tx.InsertEnrollment(ctx, studentID, sectionID); err != nil {
			return err
		}
		decision = accepted()
		return nil
	})
	if err != nil {
		return Decision{}, err
	}
	return decision, nil
}
