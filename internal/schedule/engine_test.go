package schedule

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is the in-memory TxStore the engine tests generate against.
type fakeStore struct {
	semesters map[int64]int // semester id -> order in year
	courses   map[int][]Course
	teachers  map[int64][]Teacher   // specialization id -> teachers
	rooms     map[int64][]Classroom // specialization id -> rooms

	nextID   int64
	sections []storedSection
	meetings map[int64][]TimeSlot
}

type storedSection struct {
	id     int64
	sec    NewSection
	course Course
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		semesters: map[int64]int{},
		courses:   map[int][]Course{},
		teachers:  map[int64][]Teacher{},
		rooms:     map[int64][]Classroom{},
		meetings:  map[int64][]TimeSlot{},
	}
}

func (f *fakeStore) SemesterOrder(_ context.Context, semesterID int64) (int, error) {
	order, ok := f.semesters[semesterID]
	if !ok {
		return 0, fmt.Errorf("semester %d: %w", semesterID, ErrNotFound)
	}
	return order, nil
}

func (f *fakeStore) CoursesForSemesterOrder(_ context.Context, order int) ([]Course, error) {
	return f.courses[order], nil
}

func (f *fakeStore) TeachersBySpecialization(_ context.Context, specID int64) ([]Teacher, error) {
	return f.teachers[specID], nil
}

func (f *fakeStore) RoomsBySpecialization(_ context.Context, specID int64) ([]Classroom, error) {
	return f.rooms[specID], nil
}

func (f *fakeStore) ClearSchedule(_ context.Context, semesterID int64) error {
	kept := f.sections[:0]
	for _, s := range f.sections {
		if s.sec.SemesterID == semesterID {
			delete(f.meetings, s.id)
			continue
		}
		kept = append(kept, s)
	}
	f.sections = kept
	return nil
}

func (f *fakeStore) CreateSection(_ context.Context, sec NewSection) (int64, error) {
	f.nextID++
	var course Course
	for _, cs := range f.courses {
		for _, c := range cs {
			if c.ID == sec.CourseID {
				course = c
			}
		}
	}
	f.sections = append(f.sections, storedSection{id: f.nextID, sec: sec, course: course})
	return f.nextID, nil
}

func (f *fakeStore) CreateMeeting(_ context.Context, sectionID int64, slot TimeSlot) error {
	f.meetings[sectionID] = append(f.meetings[sectionID], slot)
	return nil
}

func (f *fakeStore) SectionsForSemester(_ context.Context, semesterID int64) ([]SectionView, error) {
	views := make([]SectionView, 0)
	for _, s := range f.sections {
		if s.sec.SemesterID != semesterID {
			continue
		}
		views = append(views, SectionView{
			SectionID:     s.id,
			CourseCode:    s.course.Code,
			CourseName:    s.course.Name,
			SectionNumber: s.sec.SectionNumber,
			TeacherID:     s.sec.TeacherID,
			TeacherName:   fmt.Sprintf("Teacher %d", s.sec.TeacherID),
			RoomID:        s.sec.RoomID,
			RoomName:      fmt.Sprintf("Room %d", s.sec.RoomID),
			Capacity:      s.sec.Capacity,
		})
	}
	return views, nil
}

func (f *fakeStore) MeetingsForSection(_ context.Context, sectionID int64) ([]TimeSlot, error) {
	return f.meetings[sectionID], nil
}

// Transact snapshots the mutable state and restores it when fn fails,
// mirroring the SQL rollback the engine relies on.
func (f *fakeStore) Transact(_ context.Context, fn func(Store) error) error {
	savedSections := append([]storedSection(nil), f.sections...)
	savedMeetings := make(map[int64][]TimeSlot, len(f.meetings))
	for id, slots := range f.meetings {
		savedMeetings[id] = append([]TimeSlot(nil), slots...)
	}
	savedNext := f.nextID

	if err := fn(f); err != nil {
		f.sections = savedSections
		f.meetings = savedMeetings
		f.nextID = savedNext
		return err
	}
	return nil
}

func mathCourse(id int64, code string, hours int) Course {
	return Course{ID: id, Code: code, Name: code, Credits: 1, HoursPerWeek: hours,
		SpecializationID: 1, SemesterOrder: 1, GradeLevelMin: 9, GradeLevelMax: 12}
}

func seedResources(f *fakeStore, teachers, rooms int) {
	for i := 1; i <= teachers; i++ {
		f.teachers[1] = append(f.teachers[1], Teacher{ID: int64(i), FirstName: "T", LastName: fmt.Sprint(i),
			SpecializationID: 1, MaxDailyHours: 4})
	}
	for i := 1; i <= rooms; i++ {
		f.rooms[1] = append(f.rooms[1], Classroom{ID: int64(100 + i), Name: fmt.Sprintf("R%d", i),
			RoomTypeID: 1, Capacity: 30})
	}
}

func TestEngineGenerateUnknownSemester(t *testing.T) {
	engine := NewEngine(newFakeStore())
	_, err := engine.Generate(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngineGenerateBasic(t *testing.T) {
	f := newFakeStore()
	f.semesters[1] = 1
	f.courses[1] = []Course{mathCourse(1, "MATH101", 3), mathCourse(2, "SCI101", 3)}
	seedResources(f, 2, 2)

	engine := NewEngine(f)
	view, err := engine.Generate(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, view.Stats.TotalSections)
	require.Len(t, view.Entries, 2)
	for _, e := range view.Entries {
		assert.Len(t, e.Meetings, 3, "three weekly hours place three meetings for %s", e.CourseCode)
		assert.Equal(t, DefaultSectionCapacity, e.Capacity, "room capacity above the cap is clamped")
	}
	assertNoDoubleBooking(t, f)
	assertNoLunchMeetings(t, f)
}

func TestEngineGenerateMultipleSectionsPerCourse(t *testing.T) {
	f := newFakeStore()
	f.semesters[1] = 1
	f.courses[1] = []Course{mathCourse(1, "MATH101", 3)}
	seedResources(f, 2, 2)

	engine := NewEngine(f)
	view, err := engine.Generate(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, view.Stats.TotalSections)
	assert.Equal(t, 2, view.Stats.UniqueTeachers, "round-robin spreads sections across teachers")
	assertNoDoubleBooking(t, f)
}

func TestEngineGenerateResourceUnavailableRollsBack(t *testing.T) {
	f := newFakeStore()
	f.semesters[1] = 1
	orphan := mathCourse(2, "ART101", 3)
	orphan.SpecializationID = 99 // no teachers or rooms registered
	f.courses[1] = []Course{mathCourse(1, "MATH101", 3), orphan}
	seedResources(f, 1, 1)
	seedExistingSection(f, 1)

	engine := NewEngine(f)
	_, err := engine.Generate(context.Background(), 1, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
	var ce *CourseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ART101", ce.CourseCode)

	require.Len(t, f.sections, 1, "failed run must leave the previous schedule untouched")
	assert.Equal(t, int64(900), f.sections[0].id)
}

func TestEngineGenerateInfeasibleRollsBack(t *testing.T) {
	f := newFakeStore()
	f.semesters[1] = 1
	f.courses[1] = []Course{mathCourse(1, "MATH101", 40)} // cannot fit any pattern
	seedResources(f, 1, 1)
	seedExistingSection(f, 1)

	engine := NewEngine(f)
	_, err := engine.Generate(context.Background(), 1, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasibleSchedule)

	require.Len(t, f.sections, 1)
	assert.Equal(t, int64(900), f.sections[0].id)
}

func TestEngineGenerateIdempotent(t *testing.T) {
	f := newFakeStore()
	f.semesters[1] = 1
	f.courses[1] = []Course{mathCourse(1, "MATH101", 3), mathCourse(2, "SCI101", 4), mathCourse(3, "ENG101", 2)}
	seedResources(f, 3, 3)
	engine := NewEngine(f)

	first, err := engine.Generate(context.Background(), 1, 1)
	require.NoError(t, err)
	second, err := engine.Generate(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, first.Stats.TotalSections, second.Stats.TotalSections)
	assert.Equal(t, hoursByCourse(first), hoursByCourse(second))
	assertNoDoubleBooking(t, f)
}

// exclusiveStore flags any overlapping Transact calls, pinning the
// write-exclusive-per-semester contract.
type exclusiveStore struct {
	*fakeStore
	inFlight   int32
	overlapped int32
}

func (s *exclusiveStore) Transact(ctx context.Context, fn func(Store) error) error {
	if atomic.AddInt32(&s.inFlight, 1) > 1 {
		atomic.StoreInt32(&s.overlapped, 1)
	}
	defer atomic.AddInt32(&s.inFlight, -1)
	return s.fakeStore.Transact(ctx, fn)
}

func TestEngineGenerateSerializesPerSemester(t *testing.T) {
	f := newFakeStore()
	f.semesters[1] = 1
	f.courses[1] = []Course{mathCourse(1, "MATH101", 3), mathCourse(2, "SCI101", 4)}
	seedResources(f, 2, 2)
	store := &exclusiveStore{fakeStore: f}
	engine := NewEngine(store)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Generate(context.Background(), 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&store.overlapped),
		"concurrent regenerations of one semester must not interleave transactions")
	assertNoDoubleBooking(t, f)
	sections, err := f.SectionsForSemester(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, sections, 2, "last completed run leaves a full schedule, never a partial mix")
}

func TestEngineGetSchedule(t *testing.T) {
	f := newFakeStore()
	f.semesters[1] = 1
	f.courses[1] = []Course{mathCourse(1, "MATH101", 3)}
	seedResources(f, 1, 1)
	engine := NewEngine(f)

	_, err := engine.GetSchedule(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = engine.Generate(context.Background(), 1, 1)
	require.NoError(t, err)
	view, err := engine.GetSchedule(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Stats.TotalSections)
}

// seedExistingSection plants a committed section so rollback tests can verify
// the prior schedule survives a failed regeneration.
func seedExistingSection(f *fakeStore, semesterID int64) {
	f.sections = append(f.sections, storedSection{
		id:     900,
		sec:    NewSection{CourseID: 1, TeacherID: 1, RoomID: 101, SemesterID: semesterID, SectionNumber: 1, Capacity: 10},
		course: mathCourse(1, "MATH101", 3),
	})
	f.meetings[900] = []TimeSlot{{Day: 1, Start: 9 * 60, Duration: 60}}
}

func hoursByCourse(view ScheduleView) map[string]int {
	totals := map[string]int{}
	for _, e := range view.Entries {
		for _, m := range e.Meetings {
			totals[e.CourseCode] += m.Duration
		}
	}
	return totals
}

// assertNoDoubleBooking checks the committed meetings pairwise per teacher
// and per room.
func assertNoDoubleBooking(t *testing.T, f *fakeStore) {
	t.Helper()
	type placement struct {
		teacherID int64
		roomID    int64
		slot      TimeSlot
	}
	var all []placement
	for _, s := range f.sections {
		for _, slot := range f.meetings[s.id] {
			all = append(all, placement{teacherID: s.sec.TeacherID, roomID: s.sec.RoomID, slot: slot})
		}
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[i].slot.Overlaps(all[j].slot) {
				assert.NotEqual(t, all[i].teacherID, all[j].teacherID,
					"teacher %d double-booked at day %d %s", all[i].teacherID, all[i].slot.Day, FormatClock(all[i].slot.Start))
				assert.NotEqual(t, all[i].roomID, all[j].roomID,
					"room %d double-booked at day %d %s", all[i].roomID, all[i].slot.Day, FormatClock(all[i].slot.Start))
			}
		}
	}
}

func assertNoLunchMeetings(t *testing.T, f *fakeStore) {
	t.Helper()
	for id, slots := range f.meetings {
		for _, slot := range slots {
			if slot.Start == LunchStart {
				t.Errorf("section %d scheduled into the lunch slot", id)
			}
		}
	}
}
