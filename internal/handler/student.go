package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maplewood/course-scheduler/internal/cache"
	"github.com/maplewood/course-scheduler/internal/enroll"
	"github.com/maplewood/course-scheduler/internal/model"
	"github.com/maplewood/course-scheduler/internal/queue"
	"github.com/maplewood/course-scheduler/internal/repository"
	queue_publisher "github.com/maplewood/course-scheduler/internal/service"
)

// StudentHandler serves enrollment and the student-facing read views.
type StudentHandler struct {
	Validator   *enroll.Validator
	Students    *repository.StudentRepo
	Enrollments *repository.EnrollmentRepo
	Cache       *cache.ScheduleCache
}

func NewStudentHandler(v *enroll.Validator, s *repository.StudentRepo, e *repository.EnrollmentRepo, sc *cache.ScheduleCache) *StudentHandler {
	return &StudentHandler{Validator: v, Students: s, Enrollments: e, Cache: sc}
}

type enrollReq struct {
	SectionID int64 `json:"section_id"`
}

// Enroll runs the enrollment pipeline for one student and section. A failed
// check is a 200 with enrolled=false and a reason; only unknown ids and
// storage failures are HTTP errors.
func (h *StudentHandler) Enroll(c echo.Context) error {
	studentID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	// A student account's user id is its student id; staff may enroll anyone.
	if role, _ := c.Get("role").(string); role == model.RoleStudent {
		uid, err := getUserID(c)
		if err != nil || uid != studentID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "students may only enroll themselves"})
		}
	}
	var req enrollReq
	if err := c.Bind(&req); err != nil || req.SectionID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "section_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	decision, err := h.Validator.Enroll(ctx, studentID, req.SectionID)
	if err != nil {
		return domainError(c, err)
	}
	if decision.Enrolled {
		h.publishEnrollment(ctx, studentID, req.SectionID)
	}
	return c.JSON(http.StatusOK, decision)
}

// publishEnrollment invalidates the semester's schedule cache and emits the
// confirmation event. Both are best-effort post-commit work.
func (h *StudentHandler) publishEnrollment(ctx context.Context, studentID, sectionID int64) {
	section, err := h.Enrollments.SectionContext(ctx, sectionID)
	if err != nil {
		return
	}
	h.Cache.Invalidate(ctx, section.SemesterID)
	capacity, enrolled, err := h.Enrollments.SectionSeats(ctx, sectionID)
	if err != nil {
		return
	}
	_ = queue_publisher.PublishEnrollmentConfirmed(ctx, queue.EnrollmentConfirmedEvent{
		StudentID:     studentID,
		SectionID:     sectionID,
		CourseCode:    section.CourseCode,
		SemesterID:    section.SemesterID,
		EnrolledCount: enrolled,
		Capacity:      capacity,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Progress returns the student's academic progress summary.
func (h *StudentHandler) Progress(c echo.Context) error {
	studentID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	progress, err := h.Students.Progress(ctx, studentID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, progress)
}

// Schedule returns the sections the student is enrolled in for a semester.
func (h *StudentHandler) Schedule(c echo.Context) error {
	studentID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	semesterID, ok := queryID(c, "semester_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "semester_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sched, err := h.Students.Schedule(ctx, studentID, semesterID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, sched)
}

// AvailableSections lists all sections of a semester annotated with the
// student's eligibility for each.
func (h *StudentHandler) AvailableSections(c echo.Context) error {
	studentID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	semesterID, ok := queryID(c, "semester_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "semester_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sections, err := h.Students.AvailableSections(ctx, h.Enrollments, studentID, semesterID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"student_id":  studentID,
		"semester_id": semesterID,
		"sections":    sections,
	})
}
