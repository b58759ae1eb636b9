package schedule

// MeetingView is the API-facing form of a meeting, with the start time
// already formatted as "HH:MM".
type MeetingView struct {
	Day      int    `json:"day_of_week"`
	Start    string `json:"start_time"`
	Duration int    `json:"duration_minutes"`
}

// ScheduleEntry is one section row of the semester schedule view.
type ScheduleEntry struct {
	SectionID     int64         `json:"section_id"`
	CourseCode    string        `json:"course_code"`
	CourseName    string        `json:"course_name"`
	SectionNumber int           `json:"section_number"`
	TeacherName   string        `json:"teacher_name"`
	RoomName      string        `json:"room_name"`
	Meetings      []MeetingView `json:"meetings"`
	Enrolled      int           `json:"enrolled"`
	Capacity      int           `json:"capacity"`
	Available     int           `json:"available"`
}

// ScheduleStats summarizes a semester schedule.
type ScheduleStats struct {
	TotalSections      int     `json:"total_sections"`
	UniqueTeachers     int     `json:"unique_teachers"`
	UniqueRooms        int     `json:"unique_rooms"`
	SectionsPerTeacher float64 `json:"sections_per_teacher"`
	RoomUtilization    float64 `json:"room_utilization"`
}

// ScheduleView is the full read-side schedule for one semester.
type ScheduleView struct {
	SemesterID int64           `json:"semester_id"`
	Entries    []ScheduleEntry `json:"entries"`
	Stats      ScheduleStats   `json:"stats"`
}

// BuildSchedule assembles the view from persisted sections and their
// meetings. It is a pure aggregation over committed state: it reads nothing
// from any in-progress generation run, so it can serve at any time and will
// observe either the prior or the new complete schedule, never a mix.
func BuildSchedule(semesterID int64, sections []SectionView, meetingsBySection map[int64][]TimeSlot) ScheduleView {
	entries := make([]ScheduleEntry, 0, len(sections))
	teacherIDs := make(map[int64]struct{})
	roomIDs := make(map[int64]struct{})

	for _, sec := range sections {
		slots := meetingsBySection[sec.SectionID]
		meetings := make([]MeetingView, 0, len(slots))
		for _, slot := range slots {
			meetings = append(meetings, MeetingView{
				Day:      slot.Day,
				Start:    FormatClock(slot.Start),
				Duration: slot.Duration,
			})
		}
		entries = append(entries, ScheduleEntry{
			SectionID:     sec.SectionID,
			CourseCode:    sec.CourseCode,
			CourseName:    sec.CourseName,
			SectionNumber: sec.SectionNumber,
			TeacherName:   sec.TeacherName,
			RoomName:      sec.RoomName,
			Meetings:      meetings,
			Enrolled:      sec.Enrolled,
			Capacity:      sec.Capacity,
			Available:     sec.Capacity - sec.Enrolled,
		})
		teacherIDs[sec.TeacherID] = struct{}{}
		roomIDs[sec.RoomID] = struct{}{}
	}

	stats := ScheduleStats{
		TotalSections:  len(sections),
		UniqueTeachers: len(teacherIDs),
		UniqueRooms:    len(roomIDs),
	}
	if stats.UniqueTeachers > 0 {
		stats.SectionsPerTeacher = float64(stats.TotalSections) / float64(stats.UniqueTeachers)
	}
	if stats.UniqueRooms > 0 {
		stats.RoomUtilization = float64(stats.TotalSections) / float64(stats.UniqueRooms)
	}
	return ScheduleView{SemesterID: semesterID, Entries: entries, Stats: stats}
}
