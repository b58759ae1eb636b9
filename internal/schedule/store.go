package schedule

import "context"

// Course is a term-scoped course offering as the catalog sees it. It is
// immutable within a generation run.
type Course struct {
	ID               int64
	Code             string
	Name             string
	Credits          int
	HoursPerWeek     int
	SpecializationID int64
	PrerequisiteID   *int64
	SemesterOrder    int
	GradeLevelMin    int
	GradeLevelMax    int
}

// Teacher is a read-only allocation input. MaxDailyHours caps the teaching
// hours the planner may place on any single weekday across all of the
// teacher's sections.
type Teacher struct {
	ID               int64
	FirstName        string
	LastName         string
	SpecializationID int64
	MaxDailyHours    int
}

// Classroom is a read-only allocation input. Room type compatibility is not
// enforced; rooms are interchangeable within a specialization's candidate
// list.
type Classroom struct {
	ID         int64
	Name       string
	RoomTypeID int64
	Capacity   int
}

// NewSection carries the fields of a section about to be committed.
type NewSection struct {
	CourseID      int64
	TeacherID     int64
	RoomID        int64
	SemesterID    int64
	SectionNumber int
	Capacity      int
}

// SectionView is the read-side projection of a committed section, including
// the joined display names and the current enrolled count.
type SectionView struct {
	SectionID     int64
	CourseCode    string
	CourseName    string
	SectionNumber int
	TeacherID     int64
	TeacherName   string
	RoomID        int64
	RoomName      string
	Capacity      int
	Enrolled      int
}

// Store is the storage collaborator the engine generates against. The SQL
// implementation lives in internal/repository; tests substitute an in-memory
// fake. Lookup methods return ErrNotFound (possibly wrapped) for unknown ids.
type Store interface {
	// SemesterOrder resolves a semester id to its position in the academic
	// year, which selects the courses offered in it.
	SemesterOrder(ctx context.Context, semesterID int64) (int, error)
	CoursesForSemesterOrder(ctx context.Context, order int) ([]Course, error)
	TeachersBySpecialization(ctx context.Context, specializationID int64) ([]Teacher, error)
	RoomsBySpecialization(ctx context.Context, specializationID int64) ([]Classroom, error)

	// ClearSchedule deletes the semester's meetings, enrollments and sections
	// in that dependency order. Regeneration always starts with it.
	ClearSchedule(ctx context.Context, semesterID int64) error
	CreateSection(ctx context.Context, sec NewSection) (int64, error)
	CreateMeeting(ctx context.Context, sectionID int64, slot TimeSlot) error

	SectionsForSemester(ctx context.Context, semesterID int64) ([]SectionView, error)
	MeetingsForSection(ctx context.Context, sectionID int64) ([]TimeSlot, error)
}

// TxStore is a Store that can run a function against a transactional view of
// itself. The engine wraps each clear-then-rebuild in one Transact call so a
// failed regeneration never leaves a partially scheduled semester behind.
type TxStore interface {
	Store
	Transact(ctx context.Context, fn func(Store) error) error
}
