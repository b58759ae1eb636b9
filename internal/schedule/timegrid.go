// Package schedule implements the timetable generation engine: it places the
// weekly meetings of every course offered in a semester into a fixed
// weekday/time grid, bound to a teacher and a classroom, without
// double-booking either. All times inside this package are integer minutes
// since midnight; they are rendered as "HH:MM" strings only at the storage
// and API boundaries.
package schedule

import "fmt"

// MeetingDuration is the fixed length of a single placed meeting. The grid is
// hourly, so every meeting occupies exactly one slot.
const MeetingDuration = 60

// LunchStart marks the reserved 12:00 lunch slot. It is never part of the
// grid and the planner also refuses to run a consecutive pair into it.
const LunchStart = 12 * 60

// TimeGrid describes the weekly slot structure shared by every generation
// run: the ordered valid start times of a teaching day, the valid weekdays
// (Monday=1 .. Friday=5) and the day patterns tried when spreading a course's
// hours across the week.
type TimeGrid struct {
	slots    []int   // ordered start times, minutes since midnight
	days     []int   // 1..5
	patterns [][]int // candidate weekday sets in priority order
}

// NewTimeGrid returns the standard business-day grid: seven 60-minute slots
// between 09:00 and 17:00 with the 12:00 slot excluded for lunch, and the
// pattern preference Mon/Wed/Fri, then Tue/Thu, then all five days.
func NewTimeGrid() *TimeGrid {
	return &TimeGrid{
		slots: []int{9 * 60, 10 * 60, 11 * 60, 13 * 60, 14 * 60, 15 * 60, 16 * 60},
		days:  []int{1, 2, 3, 4, 5},
		patterns: [][]int{
			{1, 3, 5},
			{2, 4},
			{1, 2, 3, 4, 5},
		},
	}
}

// Slots returns the ordered valid start times for one day.
func (g *TimeGrid) Slots() []int { return g.slots }

// Days returns the valid weekdays, Monday first.
func (g *TimeGrid) Days() []int { return g.days }

// DayPatterns returns the candidate weekday sets in priority order. Patterns
// are fixed; callers must not mutate the returned slices.
func (g *TimeGrid) DayPatterns() [][]int { return g.patterns }

// ValidStart reports whether start is one of the grid's slot start times.
func (g *TimeGrid) ValidStart(start int) bool {
	for _, s := range g.slots {
		if s == start {
			return true
		}
	}
	return false
}

// NextSlot returns the start time that immediately follows the given one in
// the grid, for consecutive-hour placement. The second return value is false
// at the end of the day or when start is not a grid slot. Note the slot after
// 11:00 is 13:00: a "consecutive" pair never spans lunch and the planner
// additionally rejects it via the LunchStart boundary check.
func (g *TimeGrid) NextSlot(start int) (int, bool) {
	for i, s := range g.slots {
		if s == start {
			if i+1 < len(g.slots) {
				return g.slots[i+1], true
			}
			return 0, false
		}
	}
	return 0, false
}

// FormatClock renders minutes-since-midnight as "HH:MM" for the storage and
// API boundaries.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock converts an "HH:MM" string back to minutes since midnight. It
// is the inverse of FormatClock and tolerates only that exact form.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}
