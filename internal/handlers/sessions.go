package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lockin-backend/internal/middleware"
	"lockin-backend/internal/models"
	"lockin-backend/internal/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Start opens the user's study timer. 409 if one is already running.
// The body is optional; the JWT identifies the user.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	json.NewDecoder(r.Body).Decode(&req)
	if req.UserID == uuid.Nil {
		req.UserID = middleware.GetUserID(r.Context())
	}

	session, err := h.sessions.Start(r.Context(), req.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// End closes the open session and reports its duration. 404 if none is open.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	json.NewDecoder(r.Body).Decode(&req)
	if req.UserID == uuid.Nil {
		req.UserID = middleware.GetUserID(r.Context())
	}

	session, duration, err := h.sessions.End(r.Context(), req.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":  session,
		"duration": duration,
	})
}

// TimerData serves the timer widget for a given user.
func (h *SessionHandler) TimerData(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid user ID", r))
		return
	}

	timer, err := h.sessions.Timer(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load timer data", r))
		return
	}

	writeJSON(w, http.StatusOK, timer)
}
