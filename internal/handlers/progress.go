package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"lockin-backend/internal/middleware"
	"lockin-backend/internal/models"
	"lockin-backend/internal/services"
)

type ProgressHandler struct {
	progress *services.ProgressService
}

func NewProgressHandler(progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) RecordFlashcard(w http.ResponseWriter, r *http.Request) {
	var req models.RecordFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.UserID == uuid.Nil {
		req.UserID = middleware.GetUserID(r.Context())
	}

	result, err := h.progress.RecordFlashcard(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *ProgressHandler) RecordQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.RecordQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.UserID == uuid.Nil {
		req.UserID = middleware.GetUserID(r.Context())
	}

	result, err := h.progress.RecordQuiz(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *ProgressHandler) Daily(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	agg, err := h.progress.Daily(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute daily progress", r))
		return
	}

	writeJSON(w, http.StatusOK, agg)
}

func (h *ProgressHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	agg, err := h.progress.Weekly(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute weekly progress", r))
		return
	}

	writeJSON(w, http.StatusOK, agg)
}

// AllTime serves lifetime totals, clipped to ?start_date / ?end_date
// (YYYY-MM-DD) when given.
func (h *ProgressHandler) AllTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	start, ok := dateParam(w, r, "start_date")
	if !ok {
		return
	}
	end, ok := dateParam(w, r, "end_date")
	if !ok {
		return
	}

	agg, err := h.progress.AllTime(r.Context(), userID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute all-time progress", r))
		return
	}

	writeJSON(w, http.StatusOK, agg)
}

func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	summary, err := h.progress.Summary(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute progress summary", r))
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *ProgressHandler) DailyChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	buckets, err := h.progress.DailyChart(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to build daily chart", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"days": buckets})
}

func (h *ProgressHandler) FlashcardProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	progress, err := h.progress.ByKind(r.Context(), userID, models.ActivityFlashcard)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

func (h *ProgressHandler) QuizProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	progress, err := h.progress.ByKind(r.Context(), userID, models.ActivityQuiz)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

func (h *ProgressHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	streak, err := h.progress.Streak(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute streak", r))
		return
	}

	writeJSON(w, http.StatusOK, streak)
}

// dateParam parses an optional YYYY-MM-DD query parameter, writing a 400 on
// a malformed value.
func dateParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", name+" must be YYYY-MM-DD", r))
		return nil, false
	}
	return &parsed, true
}
