// Package handler contains the HTTP handlers for the scheduling API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/maplewood/course-scheduler/internal/schedule"
)

// getUserID extracts the authenticated user id placed in the context by the
// JWT middleware.
func getUserID(c echo.Context) (int64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// queryID parses a required numeric query parameter.
func queryID(c echo.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// domainError maps scheduling errors onto HTTP responses: unknown ids are
// 404, per-course generation failures are 422 with the course named, and
// anything else is a 500.
func domainError(c echo.Context, err error) error {
	if errors.Is(err, schedule.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found", "detail": err.Error()})
	}
	var ce *schedule.CourseError
	if errors.As(err, &ce) {
		reason := "infeasible_schedule"
		if errors.Is(ce, schedule.ErrResourceUnavailable) {
			reason = "resource_unavailable"
		}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":  reason,
			"course": ce.CourseCode,
			"detail": ce.Error(),
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
