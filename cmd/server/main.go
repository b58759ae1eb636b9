package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/maplewood/course-scheduler/internal/cache"
	"github.com/maplewood/course-scheduler/internal/config"
	"github.com/maplewood/course-scheduler/internal/database"
	"github.com/maplewood/course-scheduler/internal/enroll"
	"github.com/maplewood/course-scheduler/internal/handler"
	"github.com/maplewood/course-scheduler/internal/queue"
	"github.com/maplewood/course-scheduler/internal/repository"
	"github.com/maplewood/course-scheduler/internal/router"
	"github.com/maplewood/course-scheduler/internal/schedule"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; running without cache or rate limiting")
	}
	scheduleCache := cache.NewScheduleCache(rdb, cfg.CacheTTL)

	scheduleRepo := repository.NewScheduleRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)
	studentRepo := repository.NewStudentRepo(db)
	lookupRepo := repository.NewLookupRepo(db)
	userRepo := repository.NewUserRepo(db)

	engine := schedule.NewEngine(scheduleRepo)
	validator := enroll.NewValidator(enrollmentRepo)

	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, userRepo),
		Schedule: handler.NewScheduleHandler(engine, scheduleCache),
		Student:  handler.NewStudentHandler(validator, studentRepo, enrollmentRepo, scheduleCache),
		Meta:     handler.NewMetaHandler(lookupRepo),
	}, cfg.JWTSecret, rdb, cfg.RatePerMin)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
