package schedule

import "context"

// DefaultSectionCapacity caps section size regardless of room size; a
// section's capacity is the smaller of its room's seat count and this value.
const DefaultSectionCapacity = 10

// SectionAllocator decides how many section instances a course gets and
// which teacher/room pair backs each, driving the MeetingPlanner. Candidate
// pairs are scanned round-robin by section index first; when that pair
// cannot absorb the course's hours the allocator falls back to a first-fit
// scan over all teacher x room pairs.
type SectionAllocator struct {
	planner *MeetingPlanner
}

// NewSectionAllocator returns an allocator placing meetings via the given
// planner.
func NewSectionAllocator(planner *MeetingPlanner) *SectionAllocator {
	return &SectionAllocator{planner: planner}
}

// Allocate creates up to sectionsPerCourse sections for the course, commits
// each section and its meetings through the store, and reserves the placed
// slots in the teacher and room indexes. A section index with no feasible
// pair is skipped; the returned count is the number of sections actually
// created, which the engine turns into ErrInfeasibleSchedule when zero.
func (a *SectionAllocator) Allocate(ctx context.Context, store Store, course Course, teachers []Teacher, rooms []Classroom, teacherIdx, roomIdx *ConflictIndex, semesterID int64, sectionsPerCourse int) (int, error) {
	created := 0
	for sectionNo := 1; sectionNo <= sectionsPerCourse; sectionNo++ {
		teacher := teachers[(sectionNo-1)%len(teachers)]
		room := rooms[(sectionNo-1)%len(rooms)]
		meetings := a.planner.Plan(teacher.ID, room.ID, course.HoursPerWeek, teacher.MaxDailyHours, teacherIdx, roomIdx)

		if meetings == nil {
			teacher, room, meetings = a.scanPairs(course, teachers, rooms, teacherIdx, roomIdx)
		}
		if meetings == nil {
			continue // soft failure: skip this section index
		}

		capacity := room.Capacity
		if capacity > DefaultSectionCapacity {
			capacity = DefaultSectionCapacity
		}
		sectionID, err := store.CreateSection(ctx, NewSection{
			CourseID:      course.ID,
			TeacherID:     teacher.ID,
			RoomID:        room.ID,
			SemesterID:    semesterID,
			SectionNumber: sectionNo,
			Capacity:      capacity,
		})
		if err != nil {
			return created, err
		}
		for _, slot := range meetings {
			if err := store.CreateMeeting(ctx, sectionID, slot); err != nil {
				return created, err
			}
			teacherIdx.Reserve(teacher.ID, slot)
			roomIdx.Reserve(room.ID, slot)
		}
		created++
	}
	return created, nil
}

// scanPairs is the exhaustive fallback: first teacher/room pair for which the
// planner finds a full placement wins. Scan order follows the deterministic
// ordering of the catalog lists.
func (a *SectionAllocator) scanPairs(course Course, teachers []Teacher, rooms []Classroom, teacherIdx, roomIdx *ConflictIndex) (Teacher, Classroom, []TimeSlot) {
	for _, teacher := range teachers {
		for _, room := range rooms {
			meetings := a.planner.Plan(teacher.ID, room.ID, course.HoursPerWeek, teacher.MaxDailyHours, teacherIdx, roomIdx)
			if meetings != nil {
				return teacher, room, meetings
			}
		}
	}
	return Teacher{}, Classroom{}, nil
}
