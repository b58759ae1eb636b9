package schedule

// TimeSlot is one weekly recurring time block: a weekday (1..5), a start time
// in minutes since midnight and a duration in minutes. It is the value type
// shared by the planner, the conflict index and the enrollment validator.
type TimeSlot struct {
	Day      int
	Start    int
	Duration int
}

// End returns the minute at which the slot ends.
func (t TimeSlot) End() int { return t.Start + t.Duration }

// Overlaps reports whether two slots collide: same day and overlapping
// half-open intervals (start1 < end2 && start2 < end1).
func (t TimeSlot) Overlaps(o TimeSlot) bool {
	return t.Day == o.Day && t.Start < o.End() && o.Start < t.End()
}

// ConflictIndex tracks the slots already occupied by each teacher or room
// during a single generation run. One index is built per entity kind (one
// for teachers, one for rooms), seeded empty because generation always
// clears the semester's prior schedule first. It is private to one run and
// needs no locking.
type ConflictIndex struct {
	occupied map[int64][]TimeSlot
}

// NewConflictIndex returns an empty index.
func NewConflictIndex() *ConflictIndex {
	return &ConflictIndex{occupied: make(map[int64][]TimeSlot)}
}

// Occupied reports whether the entity already holds a slot overlapping the
// given one.
func (ci *ConflictIndex) Occupied(id int64, slot TimeSlot) bool {
	for _, held := range ci.occupied[id] {
		if held.Overlaps(slot) {
			return true
		}
	}
	return false
}

// Reserve records a confirmed placement for the entity. Callers must check
// Occupied first; Reserve does not re-validate.
func (ci *ConflictIndex) Reserve(id int64, slot TimeSlot) {
	ci.occupied[id] = append(ci.occupied[id], slot)
}

// DailyMinutes returns the total minutes the entity already holds on the
// given weekday. The planner uses it to enforce a teacher's daily-hours cap
// across all sections placed so far in the run.
func (ci *ConflictIndex) DailyMinutes(id int64, day int) int {
	total := 0
	for _, held := range ci.occupied[id] {
		if held.Day == day {
			total += held.Duration
		}
	}
	return total
}
