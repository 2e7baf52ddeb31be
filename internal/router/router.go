package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"lockin-backend/internal/handlers"
	"lockin-backend/internal/middleware"
	"lockin-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	progressHandler *handlers.ProgressHandler,
	sessionHandler *handlers.SessionHandler,
	badgeHandler *handlers.BadgeHandler,
	taskHandler *handlers.TaskHandler,
	gradeHandler *handlers.GradeHandler,
	studySetHandler *handlers.StudySetHandler,
	calendarHandler *handlers.CalendarHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/google", authHandler.GoogleLogin)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Streak ────
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/streak/{userId}", progressHandler.Streak)
		})

		// ──── Progress Routes ────
		r.Route("/progress", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/flashcard-progress", progressHandler.RecordFlashcard)
			r.Post("/quiz-progress", progressHandler.RecordQuiz)
			r.Get("/daily/{userId}", progressHandler.Daily)
			r.Get("/weekly/{userId}", progressHandler.Weekly)
			r.Get("/all/{userId}", progressHandler.AllTime)
			r.Get("/summary/{userId}", progressHandler.Summary)
			r.Get("/daily-chart/{userId}", progressHandler.DailyChart)
			r.Get("/flashcards/{userId}", progressHandler.FlashcardProgress)
			r.Get("/quizzes/{userId}", progressHandler.QuizProgress)
		})

		// ──── Study Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/start", sessionHandler.Start)
			r.Post("/end", sessionHandler.End)
			r.Get("/data/{userId}", sessionHandler.TimerData)
		})

		// ──── Badge Routes ────
		r.Route("/badges", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", badgeHandler.Catalog)
			r.Get("/user/{userId}", badgeHandler.UserBadges)
			r.Get("/progress/{userId}", badgeHandler.Progress)
			r.Post("/check/{userId}", badgeHandler.Check)
			r.Put("/view/{userId}/{badgeId}", badgeHandler.MarkViewed)
		})

		// ──── Task Routes ────
		r.Route("/tasks", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Patch("/{id}/status", taskHandler.UpdateStatus)
			r.Delete("/{id}", taskHandler.Delete)
		})

		// ──── Grade Routes ────
		r.Route("/grades", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", gradeHandler.Create)
			r.Get("/", gradeHandler.List)
			r.Get("/summary", gradeHandler.Summary)
			r.Delete("/{id}", gradeHandler.Delete)
		})

		// ──── Study Set Routes ────
		r.Route("/study-sets", func(r chi.Router) {
			// Shared quizzes are public
			r.Get("/quiz/{shareCode}", studySetHandler.GetQuizByShareCode)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/generate", studySetHandler.Generate)
				r.Get("/", studySetHandler.List)
				r.Get("/{id}", studySetHandler.Get)
				r.Delete("/{id}", studySetHandler.Delete)
			})
		})

		// ──── Calendar Routes ────
		r.Route("/calendar", func(r chi.Router) {
			// Google redirects here; state carries the user ID
			r.Get("/oauth/callback", calendarHandler.Callback)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/permissions", calendarHandler.Permissions)
				r.Get("/permissions/url", calendarHandler.ConsentURL)
				r.Post("/sync-task/{taskId}", calendarHandler.SyncTask)
				r.Delete("/sync-task/{taskId}", calendarHandler.Unsync)
				r.Delete("/disconnect", calendarHandler.Disconnect)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
