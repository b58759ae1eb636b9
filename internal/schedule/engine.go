package schedule

import (
	"context"
	"sync"
)

// Engine orchestrates semester schedule generation: clear, allocate, commit,
// all inside one store transaction. Regenerations of the same semester
// serialize on an in-process keyed mutex; different semesters run in
// parallel. The engine holds no state between runs -- conflict indexes are
// built fresh per Generate call and discarded.
type Engine struct {
	store TxStore
	grid  *TimeGrid

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewEngine returns an engine generating against the given store with the
// standard time grid.
func NewEngine(store TxStore) *Engine {
	return &Engine{
		store: store,
		grid:  NewTimeGrid(),
		locks: make(map[int64]*sync.Mutex),
	}
}

// semesterLock returns the mutex guarding regeneration of one semester,
// creating it on first use.
func (e *Engine) semesterLock(semesterID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[semesterID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[semesterID] = l
	}
	return l
}

// Generate rebuilds the semester's schedule from scratch and returns the
// resulting view. sectionsPerCourse values below 1 fall back to 1. The whole
// rebuild is transactional: any ResourceUnavailable or InfeasibleSchedule on
// any course rolls back everything, including the initial clear, so a failed
// run leaves the previous schedule untouched.
func (e *Engine) Generate(ctx context.Context, semesterID int64, sectionsPerCourse int) (ScheduleView, error) {
	if sectionsPerCourse < 1 {
		sectionsPerCourse = 1
	}
	lock := e.semesterLock(semesterID)
	lock.Lock()
	defer lock.Unlock()

	order, err := e.store.SemesterOrder(ctx, semesterID)
	if err != nil {
		return ScheduleView{}, err
	}

	err = e.store.Transact(ctx, func(tx Store) error {
		if err := tx.ClearSchedule(ctx, semesterID); err != nil {
			return err
		}
		courses, err := tx.CoursesForSemesterOrder(ctx, order)
		if err != nil {
			return err
		}

		catalog := newResourceCatalog(tx)
		teacherIdx := NewConflictIndex()
		roomIdx := NewConflictIndex()
		allocator := NewSectionAllocator(NewMeetingPlanner(e.grid))

		for _, course := range courses {
			teachers, err := catalog.TeachersFor(ctx, course)
			if err != nil {
				return err
			}
			rooms, err := catalog.RoomsFor(ctx, course)
			if err != nil {
				return err
			}
			created, err := allocator.Allocate(ctx, tx, course, teachers, rooms, teacherIdx, roomIdx, semesterID, sectionsPerCourse)
			if err != nil {
				return err
			}
			if created == 0 {
				return &CourseError{CourseCode: course.Code, Err: ErrInfeasibleSchedule}
			}
		}
		return nil
	})
	if err != nil {
		return ScheduleView{}, err
	}

	return e.buildView(ctx, semesterID)
}

// GetSchedule returns the committed schedule view for a semester. It reads
// only persisted state and may run concurrently with anything except a
// mid-transaction regeneration, which the storage isolation hides from it.
func (e *Engine) GetSchedule(ctx context.Context, semesterID int64) (ScheduleView, error) {
	if _, err := e.store.SemesterOrder(ctx, semesterID); err != nil {
		return ScheduleView{}, err
	}
	return e.buildView(ctx, semesterID)
}

func (e *Engine) buildView(ctx context.Context, semesterID int64) (ScheduleView, error) {
	sections, err := e.store.SectionsForSemester(ctx, semesterID)
	if err != nil {
		return ScheduleView{}, err
	}
	meetings := make(map[int64][]TimeSlot, len(sections))
	for _, sec := range sections {
		slots, err := e.store.MeetingsForSection(ctx, sec.SectionID)
		if err != nil {
			return ScheduleView{}, err
		}
		meetings[sec.SectionID] = slots
	}
	return BuildSchedule(semesterID, sections, meetings), nil
}
