package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lockin-backend/internal/services"
)

type BadgeHandler struct {
	badges *services.BadgeService
}

func NewBadgeHandler(badges *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{badges: badges}
}

func (h *BadgeHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.badges.Catalog(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch badge catalog", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"badges": catalog})
}

func (h *BadgeHandler) UserBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	earned, err := h.badges.UserBadges(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch user badges", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"badges": earned})
}

func (h *BadgeHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	report, err := h.badges.Progress(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute badge progress", r))
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// MarkViewed clears the "new" flag on one earned badge once the user has
// seen it.
func (h *BadgeHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}
	badgeID, ok := pathUUID(w, r, "badgeId", "Invalid badge ID")
	if !ok {
		return
	}

	if err := h.badges.MarkViewed(r.Context(), userID, badgeID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Badge marked as viewed"})
}

// Check runs a full badge evaluation on demand.
func (h *BadgeHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	newly, err := h.badges.CheckAndAward(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to evaluate badges", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"newly_earned_badges": newly})
}

// pathUUID parses a UUID route parameter, writing a 400 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, param, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", msg, r))
		return uuid.Nil, false
	}
	return id, true
}
