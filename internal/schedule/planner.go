package schedule

// MeetingPlanner places one course section's required weekly hours into the
// grid for a fixed teacher/room pair. It tries each day pattern in priority
// order and accepts a pattern only when it absorbs the full hour count; a
// partially filled pattern is discarded and the next one tried. An empty
// result means the pair is infeasible and the allocator should try another
// pair; it is not an error.
type MeetingPlanner struct {
	grid *TimeGrid
}

// NewMeetingPlanner returns a planner over the given grid.
func NewMeetingPlanner(grid *TimeGrid) *MeetingPlanner {
	return &MeetingPlanner{grid: grid}
}

// Plan returns the ordered meetings for a section of `hours` weekly hours
// taught by teacherID in roomID, or nil when no day pattern fits. The
// teacher and room indexes carry every placement already committed during
// this run; maxDailyHours caps the teacher's total per weekday.
func (p *MeetingPlanner) Plan(teacherID, roomID int64, hours, maxDailyHours int, teachers, rooms *ConflictIndex) []TimeSlot {
	if hours <= 0 {
		return nil
	}
	for _, pattern := range p.grid.DayPatterns() {
		if placed := p.tryPattern(pattern, teacherID, roomID, hours, maxDailyHours, teachers, rooms); placed != nil {
			return placed
		}
	}
	return nil
}

// tryPattern walks the pattern's days in order and, within each day, the
// grid's slots in order. Each day receives at most one placement attempt of
// one hour plus, when the remaining hours could not be absorbed one-per-day
// by the days left in the pattern, one immediately consecutive hour. The
// consecutive attempt is skipped across the lunch gap, where the next grid
// slot is not contiguous. A section therefore never holds more than two
// meetings on one day.
func (p *MeetingPlanner) tryPattern(pattern []int, teacherID, roomID int64, hours, maxDailyHours int, teachers, rooms *ConflictIndex) []TimeSlot {
	placed := make([]TimeSlot, 0, hours)
	for di, day := range pattern {
		if len(placed) >= hours {
			break
		}
		for _, start := range p.grid.Slots() {
			slot := TimeSlot{Day: day, Start: start, Duration: MeetingDuration}
			if !p.fits(slot, placed, teacherID, roomID, maxDailyHours, teachers, rooms) {
				continue
			}
			placed = append(placed, slot)
			remaining := hours - len(placed)
			daysLeft := len(pattern) - di - 1
			if remaining > 0 && remaining > daysLeft {
				if next, ok := p.grid.NextSlot(start); ok && next == start+MeetingDuration {
					pair := TimeSlot{Day: day, Start: next, Duration: MeetingDuration}
					if p.fits(pair, placed, teacherID, roomID, maxDailyHours, teachers, rooms) {
						placed = append(placed, pair)
					}
				}
			}
			break // done with this day, two meetings max
		}
	}
	if len(placed) == hours {
		return placed
	}
	return nil
}

// fits checks a candidate slot against the committed indexes, the hours
// tentatively placed for this section, and the teacher's daily cap.
func (p *MeetingPlanner) fits(slot TimeSlot, placed []TimeSlot, teacherID, roomID int64, maxDailyHours int, teachers, rooms *ConflictIndex) bool {
	for _, own := range placed {
		if own.Overlaps(slot) {
			return false
		}
	}
	if teachers.Occupied(teacherID, slot) || rooms.Occupied(roomID, slot) {
		return false
	}
	dayMinutes := teachers.DailyMinutes(teacherID, slot.Day)
	for _, own := range placed {
		if own.Day == slot.Day {
			dayMinutes += own.Duration
		}
	}
	return dayMinutes+slot.Duration <= maxDailyHours*60
}
