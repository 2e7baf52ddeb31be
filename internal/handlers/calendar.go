package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lockin-backend/internal/middleware"
	"lockin-backend/internal/services"
)

type CalendarHandler struct {
	calendar    *services.CalendarService
	frontendURL string
}

func NewCalendarHandler(calendarService *services.CalendarService, frontendURL string) *CalendarHandler {
	return &CalendarHandler{calendar: calendarService, frontendURL: frontendURL}
}

func (h *CalendarHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	status, err := h.calendar.Permissions(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// ConsentURL hands the frontend a Google consent screen URL carrying the
// user ID as OAuth state.
func (h *CalendarHandler) ConsentURL(w http.ResponseWriter, r *http.Request) {
	if !h.calendar.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("INTERNAL_ERROR", "Calendar integration is not configured", r))
		return
	}

	url, err := h.calendar.ConsentURL(middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Callback is hit by Google after consent. It is unauthenticated; the state
// parameter identifies the user. The browser is redirected back to the
// frontend either way.
func (h *CalendarHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if errParam := r.URL.Query().Get("error"); errParam != "" || code == "" {
		log.Printf("✗ Calendar consent denied or failed: %s", errParam)
		http.Redirect(w, r, h.frontendURL+"/calendar?connected=false", http.StatusFound)
		return
	}

	if err := h.calendar.HandleCallback(r.Context(), code, state); err != nil {
		log.Printf("✗ Calendar callback failed: %v", err)
		http.Redirect(w, r, h.frontendURL+"/calendar?connected=false", http.StatusFound)
		return
	}

	http.Redirect(w, r, h.frontendURL+"/calendar?connected=true", http.StatusFound)
}

func (h *CalendarHandler) SyncTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid task ID", r))
		return
	}

	var req services.SyncTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	event, task, err := h.calendar.SyncTask(r.Context(), middleware.GetUserID(r.Context()), taskID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task":        task,
		"event_id":    event.Id,
		"event_link":  event.HtmlLink,
		"event_start": event.Start,
		"event_end":   event.End,
		"synced":      true,
	})
}

func (h *CalendarHandler) Unsync(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid task ID", r))
		return
	}

	task, err := h.calendar.Unsync(r.Context(), middleware.GetUserID(r.Context()), taskID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"task": task, "synced": false})
}

func (h *CalendarHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.calendar.Disconnect(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Calendar disconnected"})
}
