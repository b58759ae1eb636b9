package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maplewood/course-scheduler/internal/repository"
)

// MetaHandler serves the flat catalog endpoints.
type MetaHandler struct {
	Lookups *repository.LookupRepo
}

func NewMetaHandler(l *repository.LookupRepo) *MetaHandler {
	return &MetaHandler{Lookups: l}
}

// ListSemesters returns all semesters, newest first.
func (h *MetaHandler) ListSemesters(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	semesters, err := h.Lookups.Semesters(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"semesters": semesters})
}
