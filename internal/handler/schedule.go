package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maplewood/course-scheduler/internal/cache"
	"github.com/maplewood/course-scheduler/internal/queue"
	"github.com/maplewood/course-scheduler/internal/schedule"
	queue_publisher "github.com/maplewood/course-scheduler/internal/service"
)

// ScheduleHandler exposes schedule generation and retrieval.
type ScheduleHandler struct {
	Engine *schedule.Engine
	Cache  *cache.ScheduleCache
}

func NewScheduleHandler(e *schedule.Engine, sc *cache.ScheduleCache) *ScheduleHandler {
	return &ScheduleHandler{Engine: e, Cache: sc}
}

type generateReq struct {
	SemesterID        int64 `json:"semester_id"`
	SectionsPerCourse int   `json:"sections_per_course"`
}

// Generate rebuilds the timetable for a semester. Staff only; the whole run
// is all-or-nothing, so a 422 means the previous schedule is still in place.
func (h *ScheduleHandler) Generate(c echo.Context) error {
	var req generateReq
	if err := c.Bind(&req); err != nil || req.SemesterID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "semester_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	view, err := h.Engine.Generate(ctx, req.SemesterID, req.SectionsPerCourse)
	if err != nil {
		return domainError(c, err)
	}

	h.Cache.Invalidate(ctx, req.SemesterID)
	// Publish after commit; a broker outage must not fail the request.
	_ = queue_publisher.PublishScheduleGenerated(ctx, queue.ScheduleGeneratedEvent{
		SemesterID:     view.SemesterID,
		TotalSections:  view.Stats.TotalSections,
		UniqueTeachers: view.Stats.UniqueTeachers,
		UniqueRooms:    view.Stats.UniqueRooms,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, view)
}

// Get returns the committed schedule for a semester, served from the Redis
// cache when possible.
func (h *ScheduleHandler) Get(c echo.Context) error {
	semesterID, ok := queryID(c, "semester_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "semester_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if payload, hit := h.Cache.Get(ctx, semesterID); hit {
		return c.JSONBlob(http.StatusOK, payload)
	}

	view, err := h.Engine.GetSchedule(ctx, semesterID)
	if err != nil {
		return domainError(c, err)
	}
	if payload, err := json.Marshal(view); err == nil {
		h.Cache.Set(ctx, semesterID, payload)
	}
	return c.JSON(http.StatusOK, view)
}
