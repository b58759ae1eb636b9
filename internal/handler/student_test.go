package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplewood/course-scheduler/internal/cache"
	"github.com/maplewood/course-scheduler/internal/enroll"
	"github.com/maplewood/course-scheduler/internal/schedule"
)

// stubEnrollStore is a minimal enroll.TxStore whose target section is full,
// so the pipeline rejects without committing.
type stubEnrollStore struct{}

func (stubEnrollStore) SectionContext(context.Context, int64) (enroll.SectionContext, error) {
	return enroll.SectionContext{SectionID: 10, SemesterID: 1, CourseID: 100, CourseCode: "MATH101"}, nil
}
func (stubEnrollStore) StudentExists(context.Context, int64) (bool, error)          { return true, nil }
func (stubEnrollStore) HasPassedCourse(context.Context, int64, int64) (bool, error) { return true, nil }
func (stubEnrollStore) CountEnrollments(context.Context, int64, int64) (int, error) { return 0, nil }
func (stubEnrollStore) SectionMeetings(context.Context, int64) ([]schedule.TimeSlot, error) {
	return nil, nil
}
func (stubEnrollStore) StudentMeetings(context.Context, int64, int64) ([]schedule.TimeSlot, error) {
	return nil, nil
}
func (stubEnrollStore) SectionSeats(context.Context, int64) (int, int, error) { return 1, 1, nil }
func (stubEnrollStore) InsertEnrollment(context.Context, int64, int64) error  { return nil }
func (s stubEnrollStore) Transact(ctx context.Context, fn func(enroll.Store) error) error {
	return fn(s)
}

func enrollRequest(t *testing.T, role string, userID float64, pathStudentID string) (*StudentHandler, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	h := NewStudentHandler(enroll.NewValidator(stubEnrollStore{}), nil, nil, cache.NewScheduleCache(nil, 0))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"section_id":10}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/students/:id/enroll")
	c.SetParamNames("id")
	c.SetParamValues(pathStudentID)
	// Claims land in the context the way JWTAuth stores them.
	c.Set("role", role)
	c.Set("user_id", userID)
	return h, c, rec
}

func TestEnrollStudentRoleOtherIDForbidden(t *testing.T) {
	h, c, rec := enrollRequest(t, "STUDENT", 5, "7")
	require.NoError(t, h.Enroll(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEnrollStudentRoleSelf(t *testing.T) {
	h, c, rec := enrollRequest(t, "STUDENT", 7, "7")
	require.NoError(t, h.Enroll(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(enroll.ReasonSectionFull))
}

func TestEnrollStaffRoleAnyStudent(t *testing.T) {
	h, c, rec := enrollRequest(t, "STAFF", 5, "7")
	require.NoError(t, h.Enroll(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
