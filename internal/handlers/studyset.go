package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lockin-backend/internal/middleware"
	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
)

// GenerationQueue is the Redis list the worker pool consumes.
const GenerationQueue = "queue:study-set-generation"

type StudySetHandler struct {
	studySetRepo *repository.StudySetRepo
	redis        *redis.Client
}

func NewStudySetHandler(studySetRepo *repository.StudySetRepo, redisClient *redis.Client) *StudySetHandler {
	return &StudySetHandler{studySetRepo: studySetRepo, redis: redisClient}
}

// Generate creates a pending study set and enqueues a generation job for the
// worker pool. The client gets 202 immediately and hears about completion
// over the WebSocket.
func (h *StudySetHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateStudySetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if len(req.Prompt) < 10 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"prompt": "prompt must be at least 10 characters"}, r))
		return
	}
	if len(req.Prompt) > 4000 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"prompt": "prompt must be at most 4000 characters"}, r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	set := &models.StudySet{
		UserID: userID,
		Prompt: req.Prompt,
	}
	if err := h.studySetRepo.Create(r.Context(), set); err != nil {
		log.Printf("✗ Failed to create study set: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create study set", r))
		return
	}

	job := models.GenerationJob{
		ID:         uuid.New(),
		UserID:     userID,
		StudySetID: set.ID,
		Prompt:     req.Prompt,
		CreatedAt:  time.Now(),
	}
	payload, err := json.Marshal(job)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue generation job", r))
		return
	}

	if err := h.redis.LPush(r.Context(), GenerationQueue, payload).Err(); err != nil {
		log.Printf("✗ Failed to enqueue generation job: %v", err)
		_ = h.studySetRepo.MarkFailed(r.Context(), set.ID)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue generation job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":       job.ID,
		"study_set_id": set.ID,
		"status":       "pending",
	})
}

func (h *StudySetHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := h.studySetRepo.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch study sets", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"study_sets": sets})
}

func (h *StudySetHandler) Get(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, set)
}

// GetQuizByShareCode serves a shared quiz without authentication. Only
// completed quiz sets are reachable this way, and the owner is not exposed.
func (h *StudySetHandler) GetQuizByShareCode(w http.ResponseWriter, r *http.Request) {
	shareCode := chi.URLParam(r, "shareCode")

	set, err := h.studySetRepo.GetByShareCode(r.Context(), shareCode)
	if err != nil || set.Kind != "quiz" || set.Status != "completed" {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         set.ID,
		"kind":       set.Kind,
		"items":      set.ItemsJSON,
		"item_count": set.ItemCount,
		"share_code": set.ShareCode,
		"created_at": set.CreatedAt,
	})
}

func (h *StudySetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	if err := h.studySetRepo.Delete(r.Context(), set.ID, set.UserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete study set", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Study set deleted"})
}

func (h *StudySetHandler) ownedSet(w http.ResponseWriter, r *http.Request) (*models.StudySet, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid study set ID", r))
		return nil, false
	}

	set, err := h.studySetRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Study set not found", r))
		return nil, false
	}

	if set.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return set, true
}
