package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScheduleEmpty(t *testing.T) {
	view := BuildSchedule(5, nil, nil)

	assert.Equal(t, int64(5), view.SemesterID)
	assert.NotNil(t, view.Entries)
	assert.Empty(t, view.Entries)
	assert.Zero(t, view.Stats.TotalSections)
	assert.Zero(t, view.Stats.SectionsPerTeacher)
	assert.Zero(t, view.Stats.RoomUtilization)
}

func TestBuildScheduleStatsAndEntries(t *testing.T) {
	sections := []SectionView{
		{SectionID: 1, CourseCode: "MATH101", CourseName: "Algebra I", SectionNumber: 1,
			TeacherID: 10, TeacherName: "Ada Byrne", RoomID: 20, RoomName: "Room A", Capacity: 10, Enrolled: 4},
		{SectionID: 2, CourseCode: "MATH102", CourseName: "Geometry", SectionNumber: 1,
			TeacherID: 10, TeacherName: "Ada Byrne", RoomID: 21, RoomName: "Room B", Capacity: 10, Enrolled: 10},
	}
	meetings := map[int64][]TimeSlot{
		1: {{Day: 1, Start: 9 * 60, Duration: 60}, {Day: 3, Start: 9 * 60, Duration: 60}},
		2: {{Day: 2, Start: 13 * 60, Duration: 60}},
	}

	view := BuildSchedule(7, sections, meetings)

	require.Len(t, view.Entries, 2)
	first := view.Entries[0]
	assert.Equal(t, "MATH101", first.CourseCode)
	require.Len(t, first.Meetings, 2)
	assert.Equal(t, "09:00", first.Meetings[0].Start)
	assert.Equal(t, 6, first.Available)
	assert.Equal(t, 0, view.Entries[1].Available)
	assert.Equal(t, "13:00", view.Entries[1].Meetings[0].Start)

	assert.Equal(t, 2, view.Stats.TotalSections)
	assert.Equal(t, 1, view.Stats.UniqueTeachers)
	assert.Equal(t, 2, view.Stats.UniqueRooms)
	assert.InDelta(t, 2.0, view.Stats.SectionsPerTeacher, 1e-9)
	assert.InDelta(t, 1.0, view.Stats.RoomUtilization, 1e-9)
}
