package schedule

import (
	"context"
	"sort"
)

// ResourceCatalog is the semester-scoped view of allocation inputs. It loads
// teachers and rooms per specialization lazily and caches them for the rest
// of the run, so a semester with many courses in one specialization hits the
// store once. It fails with ErrResourceUnavailable (wrapped in a CourseError)
// when a course's specialization has no teacher or no room.
type ResourceCatalog struct {
	store    Store
	teachers map[int64][]Teacher
	rooms    map[int64][]Classroom
}

func newResourceCatalog(store Store) *ResourceCatalog {
	return &ResourceCatalog{
		store:    store,
		teachers: make(map[int64][]Teacher),
		rooms:    make(map[int64][]Classroom),
	}
}

// TeachersFor returns the compatible teachers for a course's specialization.
func (rc *ResourceCatalog) TeachersFor(ctx context.Context, course Course) ([]Teacher, error) {
	teachers, ok := rc.teachers[course.SpecializationID]
	if !ok {
		loaded, err := rc.store.TeachersBySpecialization(ctx, course.SpecializationID)
		if err != nil {
			return nil, err
		}
		rc.teachers[course.SpecializationID] = loaded
		teachers = loaded
	}
	if len(teachers) == 0 {
		return nil, &CourseError{CourseCode: course.Code, Err: ErrResourceUnavailable}
	}
	return teachers, nil
}

// RoomsFor returns the candidate rooms for a course, sorted by name so that
// allocation tie-breaks are reproducible. Room type matching is deliberately
// not enforced.
func (rc *ResourceCatalog) RoomsFor(ctx context.Context, course Course) ([]Classroom, error) {
	rooms, ok := rc.rooms[course.SpecializationID]
	if !ok {
		loaded, err := rc.store.RoomsBySpecialization(ctx, course.SpecializationID)
		if err != nil {
			return nil, err
		}
		sort.Slice(loaded, func(i, j int) bool { return loaded[i].Name < loaded[j].Name })
		rc.rooms[course.SpecializationID] = loaded
		rooms = loaded
	}
	if len(rooms) == 0 {
		return nil, &CourseError{CourseCode: course.Code, Err: ErrResourceUnavailable}
	}
	return rooms, nil
}
