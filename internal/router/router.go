// Package router registers the API routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/maplewood/course-scheduler/internal/handler"
	"github.com/maplewood/course-scheduler/internal/middleware"
	"github.com/maplewood/course-scheduler/internal/model"
)

// Handlers groups everything route registration needs.
type Handlers struct {
	Auth     *handler.AuthHandler
	Schedule *handler.ScheduleHandler
	Student  *handler.StudentHandler
	Meta     *handler.MetaHandler
}

// Register wires all routes on the Echo instance. Unauthenticated routes are
// the health check and /v1/auth; everything else requires a valid access
// token, with schedule generation restricted to staff. Mutating endpoints
// additionally run through the Redis rate limiter.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client, ratePerMin int) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	limited := middleware.RateLimit(rdb, ratePerMin)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole(model.RoleStaff, model.RoleStudent))

	v1.GET("/me", h.Auth.Me)
	v1.GET("/semesters", h.Meta.ListSemesters)
	v1.GET("/schedule", h.Schedule.Get)

	// Regeneration rewrites the whole semester; staff only.
	staff := v1.Group("/schedule", middleware.RequireRole(model.RoleStaff))
	staff.POST("/generate", h.Schedule.Generate, limited)

	students := v1.Group("/students/:id")
	students.POST("/enroll", h.Student.Enroll, limited)
	students.GET("/progress", h.Student.Progress)
	students.GET("/schedule", h.Student.Schedule)
	students.GET("/available-sections", h.Student.AvailableSections)
}
