package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lockin-backend/internal/middleware"
	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
)

type GradeHandler struct {
	gradeRepo *repository.GradeRepo
}

func NewGradeHandler(gradeRepo *repository.GradeRepo) *GradeHandler {
	return &GradeHandler{gradeRepo: gradeRepo}
}

func (h *GradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.GradeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if req.Assessment == "" {
		fieldErrors["assessment"] = "assessment is required"
	}
	if req.Grade == nil {
		fieldErrors["grade"] = "grade is required"
	} else if *req.Grade < 0 || *req.Grade > 100 {
		fieldErrors["grade"] = "grade must be between 0 and 100"
	}
	if req.Weight == nil {
		fieldErrors["weight"] = "weight is required"
	} else if *req.Weight <= 0 || *req.Weight > 100 {
		fieldErrors["weight"] = "weight must be between 1 and 100"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	entry := &models.GradeEntry{
		UserID:     middleware.GetUserID(r.Context()),
		Assessment: req.Assessment,
		Grade:      *req.Grade,
		Weight:     *req.Weight,
	}

	if err := h.gradeRepo.Create(r.Context(), entry); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save grade entry", r))
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *GradeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.gradeRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch grade entries", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"grades": entries})
}

// Summary returns all entries plus the weighted average over the weight
// actually entered, so a partially filled gradebook still gets a meaningful
// number.
func (h *GradeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.gradeRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch grade entries", r))
		return
	}

	summary := models.GradeSummary{Entries: entries}
	weightedSum := 0
	for _, e := range entries {
		summary.TotalWeight += e.Weight
		weightedSum += e.Grade * e.Weight
	}
	if summary.TotalWeight > 0 {
		summary.WeightedAverage = math.Round(float64(weightedSum)/float64(summary.TotalWeight)*100) / 100
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *GradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid grade entry ID", r))
		return
	}

	deleted, err := h.gradeRepo.Delete(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete grade entry", r))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Grade entry not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Grade entry deleted"})
}
