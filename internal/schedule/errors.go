package schedule

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a semester, section or student id passed to
// the engine does not exist. Handlers translate it into an HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrResourceUnavailable is returned when a course's specialization has no
// compatible teacher or no room at all. Generation for the whole semester is
// aborted and rolled back.
var ErrResourceUnavailable = errors.New("no compatible teacher or room")

// ErrInfeasibleSchedule is returned when every day pattern and every
// teacher/room pair was exhausted without creating a single section for a
// course. Like ErrResourceUnavailable it aborts the whole regeneration.
var ErrInfeasibleSchedule = errors.New("could not place required weekly hours")

// CourseError wraps ErrResourceUnavailable or ErrInfeasibleSchedule with the
// course that triggered it, so callers can report which course made the
// semester unschedulable. It unwraps to the underlying sentinel.
type CourseError struct {
	CourseCode string
	Err        error
}

func (e *CourseError) Error() string {
	return fmt.Sprintf("course %s: %v", e.CourseCode, e.Err)
}

func (e *CourseError) Unwrap() error { return e.Err }
