package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lockin-backend/internal/config"
	"lockin-backend/internal/database"
	"lockin-backend/internal/handlers"
	"lockin-backend/internal/middleware"
	"lockin-backend/internal/repository"
	"lockin-backend/internal/router"
	"lockin-backend/internal/services"
	"lockin-backend/internal/websocket"
	"lockin-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting LockIn Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	activityRepo := repository.NewActivityRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)
	badgeRepo := repository.NewBadgeRepo(pool)
	taskRepo := repository.NewTaskRepo(pool)
	gradeRepo := repository.NewGradeRepo(pool)
	studySetRepo := repository.NewStudySetRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiConcurrentReqs,
		studySetRepo,
		redisClients.Queue,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, cfg.GoogleClientID)
	badgeService := services.NewBadgeService(badgeRepo, activityRepo, redisClients.Queue)
	progressService := services.NewProgressService(activityRepo, sessionRepo, badgeService)
	sessionService := services.NewSessionService(sessionRepo)
	calendarService := services.NewCalendarService(userRepo, taskRepo, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BackendURL)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	progressHandler := handlers.NewProgressHandler(progressService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	badgeHandler := handlers.NewBadgeHandler(badgeService)
	taskHandler := handlers.NewTaskHandler(taskRepo)
	gradeHandler := handlers.NewGradeHandler(gradeRepo)
	studySetHandler := handlers.NewStudySetHandler(studySetRepo, redisClients.Queue)
	calendarHandler := handlers.NewCalendarHandler(calendarService, cfg.FrontendURL)

	// ──── Step 6: Start Job Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, geminiService, studySetRepo, 5)
	workerPool.Start()
	log.Println("✓ Worker pool started (5 goroutines)")

	reminderScheduler := services.NewReminderScheduler(taskRepo, activityRepo, emailService, redisClients.Queue)
	reminderScheduler.Start()
	log.Println("✓ Reminder scheduler started")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		progressHandler,
		sessionHandler,
		badgeHandler,
		taskHandler,
		gradeHandler,
		studySetHandler,
		calendarHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		reminderScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ LockIn Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
